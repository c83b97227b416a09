package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/auth"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/httputil"
)

const (
	ContextActor      = "actor"
	ContextActorEmail = "actor_email"
)

// AccessChecker answers whether an identity is on the allowlist.
type AccessChecker interface {
	CheckAccess(ctx context.Context, email string) (*model.AllowedUser, bool, error)
}

type AuthMiddleware struct {
	verifier  auth.TokenVerifier
	allowlist AccessChecker
	logger    zerolog.Logger
}

func NewAuthMiddleware(verifier auth.TokenVerifier, allowlist AccessChecker, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:  verifier,
		allowlist: allowlist,
		logger:    logger,
	}
}

// Authenticate verifies the identity token and sets the actor in context.
// A valid token whose email is not on the allowlist is refused with 403.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.verify(c)
		if !ok {
			return
		}

		user, allowed, err := m.allowlist.CheckAccess(c.Request.Context(), claims.Email)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		if !allowed {
			m.logger.Warn().Str("email", claims.Email).Msg("access denied: not on allowlist")
			httputil.RespondWithError(c, apperrors.Forbidden("access denied"))
			return
		}

		actor := &model.Actor{
			Email:   claims.Email,
			Name:    displayName(claims, user),
			IsAdmin: user.IsAdmin,
		}
		c.Set(ContextActor, actor)
		c.Set(ContextActorEmail, actor.Email)
		c.Next()
	}
}

// Identify verifies the identity token without consulting the allowlist.
// Used by the access check endpoint so a refused user learns why.
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.verify(c)
		if !ok {
			return
		}
		c.Set(ContextActor, &model.Actor{Email: claims.Email, Name: claims.Name})
		c.Set(ContextActorEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			return
		}
		if !actor.IsAdmin {
			httputil.RespondWithError(c, apperrors.Forbidden("admin access required"))
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) verify(c *gin.Context) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return nil, false
	}

	claims, err := m.verifier.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		m.logger.Debug().Err(err).Msg("token rejected")
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
		return nil, false
	}
	return claims, true
}

func displayName(claims *auth.Claims, user *model.AllowedUser) string {
	if name := strings.TrimSpace(claims.Name); name != "" {
		return name
	}
	if user != nil && user.Name != nil && strings.TrimSpace(*user.Name) != "" {
		return strings.TrimSpace(*user.Name)
	}
	return claims.Email
}

// ActorFrom returns the authenticated actor set by Authenticate or Identify.
func ActorFrom(c *gin.Context) (*model.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil, false
	}
	actor, ok := v.(*model.Actor)
	return actor, ok && actor != nil
}
