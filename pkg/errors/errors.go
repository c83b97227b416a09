package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError carrying the same code, so callers
// can match against the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrInvalidTimeZone
	ErrInvalidDateTime
	ErrInvalidStatus
	ErrInvalidPhone
	ErrInvalidName
	ErrPersistence
	ErrConflict
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "NotFound"
	case ErrBadRequest:
		return "InvalidInput"
	case ErrUnauthorized:
		return "Unauthorized"
	case ErrForbidden:
		return "Forbidden"
	case ErrInvalidTimeZone:
		return "InvalidTimeZone"
	case ErrInvalidDateTime:
		return "InvalidDateTime"
	case ErrInvalidStatus:
		return "InvalidStatus"
	case ErrInvalidPhone:
		return "InvalidPhone"
	case ErrInvalidName:
		return "InvalidName"
	case ErrPersistence:
		return "PersistenceError"
	case ErrConflict:
		return "Conflict"
	default:
		return "Internal"
	}
}

// Sentinels for errors.Is matching.
var (
	NotFoundError        = &AppError{Code: ErrNotFound, Message: "not found"}
	InvalidInputError    = &AppError{Code: ErrBadRequest, Message: "invalid input"}
	InvalidTimeZoneError = &AppError{Code: ErrInvalidTimeZone, Message: "invalid time zone"}
	InvalidDateTimeError = &AppError{Code: ErrInvalidDateTime, Message: "invalid date time"}
	InvalidStatusError   = &AppError{Code: ErrInvalidStatus, Message: "invalid status"}
	InvalidPhoneError    = &AppError{Code: ErrInvalidPhone, Message: "invalid phone number"}
	InvalidNameError     = &AppError{Code: ErrInvalidName, Message: "invalid name"}
	PersistenceError     = &AppError{Code: ErrPersistence, Message: "persistence error"}
	ConflictError        = &AppError{Code: ErrConflict, Message: "conflict"}
	UnauthorizedError    = &AppError{Code: ErrUnauthorized, Message: "unauthorized"}
	ForbiddenError       = &AppError{Code: ErrForbidden, Message: "forbidden"}
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func NewInvalidTimeZone(zone string, err error) *AppError {
	return &AppError{
		Code:    ErrInvalidTimeZone,
		Message: fmt.Sprintf("invalid time zone %q", zone),
		Err:     err,
	}
}

func NewInvalidDateTime(value string, err error) *AppError {
	return &AppError{
		Code:    ErrInvalidDateTime,
		Message: fmt.Sprintf("invalid date time %q", value),
		Err:     err,
	}
}

func NewInvalidStatus(status string) *AppError {
	return &AppError{
		Code:    ErrInvalidStatus,
		Message: fmt.Sprintf("invalid status %q: must be one of scheduled, completed, cancelled", status),
	}
}

func NewInvalidPhone(phone string) *AppError {
	return &AppError{
		Code:    ErrInvalidPhone,
		Message: fmt.Sprintf("invalid phone number %q: must be a 10-digit mobile number starting with 6-9", phone),
	}
}

func NewInvalidName(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidName,
		Message: message,
	}
}

func NewPersistence(op string, err error) *AppError {
	return &AppError{
		Code:    ErrPersistence,
		Message: fmt.Sprintf("failed to %s", op),
		Err:     err,
	}
}

func NewConflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
