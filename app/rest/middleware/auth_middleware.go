package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PSUNAND/Medassist/app/domain"
	"github.com/PSUNAND/Medassist/app/port"
)

// Context keys set by RequireAuth for downstream handlers
const (
	ContextKeySession  = "session"
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Single generic rejection for every authentication failure. Which
// validation step failed must not be observable at the wire boundary.
const msgAuthRequired = "authentication required"

// AuthMiddleware provides credential verification middleware
type AuthMiddleware struct {
	authUsecase port.AuthUsecase
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authUsecase port.AuthUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authUsecase: authUsecase,
		logger:      logger,
	}
}

// RequireAuth gates a route behind credential verification. On success the
// verified session context is attached to the request; every failure,
// whatever its cause, yields the same 401.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			blob := m.extractCredential(c)
			if blob == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgAuthRequired)
			}

			session, err := m.authUsecase.VerifySession(ctx, blob)
			if err != nil {
				// Full detail stays in the log; the wire sees one message
				if domain.IsAuthenticationError(err) {
					m.logger.Warn("session verification failed",
						"path", c.Request().URL.Path,
						"error", err)
				} else {
					m.logger.Error("session verification errored",
						"path", c.Request().URL.Path,
						"error", err)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, msgAuthRequired)
			}

			c.Set(ContextKeySession, session)
			c.Set(ContextKeyUserID, session.UserID.String())
			c.Set(ContextKeyUserRole, string(session.Role))

			return next(c)
		}
	}
}

// RequireRole gates a route behind a specific portal role. Must be chained
// after RequireAuth. Role mismatch is the one failure that is safe to
// distinguish from Unauthenticated.
func (m *AuthMiddleware) RequireRole(requiredRole domain.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := c.Get(ContextKeySession).(*domain.SessionContext)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgAuthRequired)
			}

			if session.Role != requiredRole {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}

			return next(c)
		}
	}
}

// RequireAdmin gates a route behind the admin role
func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.RequireRole(domain.UserRoleAdmin)
}

// SessionFromContext returns the verified session attached by RequireAuth
func SessionFromContext(c echo.Context) (*domain.SessionContext, error) {
	session, ok := c.Get(ContextKeySession).(*domain.SessionContext)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// extractCredential extracts the bearer credential from the request.
// Supports "Authorization: Bearer <token>" and the raw-token fallback the
// portal clients used historically.
func (m *AuthMiddleware) extractCredential(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return auth
	}

	return c.Request().Header.Get("X-Session-Token")
}
