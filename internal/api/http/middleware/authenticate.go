package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/storefront-identity/internal/api/http/handler"
	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/model"
)

// SessionGuard resolves a session token to its account.
type SessionGuard interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// Authenticate validates session tokens and injects the account into the request context.
type Authenticate struct {
	guard          SessionGuard
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(guard SessionGuard, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{guard: guard, contextManager: contextManager, logger: logger}
}

// RequireSession reads the session cookie, falling back to a bearer
// Authorization header, and aborts with 401 when it does not resolve.
func (m *Authenticate) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.guard.Authenticate(c.Request.Context(), sessionToken(c))
		if err != nil {
			handler.AbortWithError(c, err, m.logger)
			return
		}

		ctx := m.contextManager.SetUserToContext(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session account holds role.
// It must run after RequireSession.
func (m *Authenticate) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.contextManager.GetUserFromContext(c.Request.Context())
		if !ok {
			handler.AbortWithError(c, apierrors.NewErrMissingSessionToken(), m.logger)
			return
		}

		if !model.HasRole(user, role) {
			m.logger.Warn("Authenticate: role check failed",
				"user_id", user.ID,
				"required", role)
			handler.AbortWithError(c, apierrors.NewErrForbidden(), m.logger)
			return
		}

		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(handler.SessionCookie); err == nil && token != "" {
		return token
	}

	return strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
}
