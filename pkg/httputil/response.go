package httputil

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an application error code to an HTTP status.
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrBadRequest,
		errors.ErrInvalidTimeZone,
		errors.ErrInvalidDateTime,
		errors.ErrInvalidStatus,
		errors.ErrInvalidPhone,
		errors.ErrInvalidName:
		return http.StatusBadRequest
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrForbidden:
		return http.StatusForbidden
	case errors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response. Internal and persistence errors
// never leak their cause to the client; it is attached to the gin context
// for the logger instead.
func RespondWithError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := StatusFor(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if code == errors.ErrPersistence {
			message = "database error"
		} else {
			message = "internal server error"
		}
	} else if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}

	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    code.String(),
			Message: message,
		},
	})
}

// RespondWithBadRequest sends a 400 for malformed requests that never reached a service.
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, errors.NewBadRequest(message, nil))
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequest("invalid "+name, err)
	}
	return id, nil
}

// OptionalInt64Query reads an optional integer query parameter.
func OptionalInt64Query(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.NewBadRequest("invalid "+name, err)
	}
	return &v, nil
}
