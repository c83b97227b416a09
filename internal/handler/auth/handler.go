package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/middleware"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

type AccessResponse struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Allowed bool   `json:"allowed"`
	IsAdmin bool   `json:"is_admin"`
}

type Handler struct {
	allowlist middleware.AccessChecker
}

func NewHandler(allowlist middleware.AccessChecker) *Handler {
	return &Handler{allowlist: allowlist}
}

// RegisterRoutes expects r to run Identify, not Authenticate, so callers that
// are off the allowlist still get an answer.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/check-access", h.CheckAccess)
		auth.GET("/me", h.CheckAccess)
	}
}

func (h *Handler) CheckAccess(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	user, allowed, err := h.allowlist.CheckAccess(c.Request.Context(), actor.Email)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp := AccessResponse{
		Email:   actor.Email,
		Name:    actor.DisplayName(),
		Allowed: allowed,
	}
	if allowed && user != nil {
		resp.IsAdmin = user.IsAdmin
		if actor.Name == "" && user.Name != nil {
			resp.Name = *user.Name
		}
	}

	httputil.RespondWithSuccess(c, resp)
}
