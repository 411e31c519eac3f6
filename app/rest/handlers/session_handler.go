package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PSUNAND/Medassist/app/rest/middleware"
)

// SessionHandler serves the privileged "who am I" read
type SessionHandler struct {
	logger *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		logger: logger,
	}
}

// Me returns the verified identity attached by the auth middleware, shaped
// per role. No side effects; repeated calls with the same valid credential
// return identical data.
func (h *SessionHandler) Me(c echo.Context) error {
	session, err := middleware.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, Fail("authentication required"))
	}

	return c.JSON(http.StatusOK, OK(map[string]interface{}{
		"user": session.User.Profile(),
	}))
}
