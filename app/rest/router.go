package rest

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/PSUNAND/Medassist/app/port"
	"github.com/PSUNAND/Medassist/app/rest/handlers"
	custommw "github.com/PSUNAND/Medassist/app/rest/middleware"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger      *slog.Logger
	AuthUsecase port.AuthUsecase
	DB          handlers.Pinger
	EnableDebug bool
}

// NewRouter creates and configures the Echo router
func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.Debug = config.EnableDebug
	e.HTTPErrorHandler = envelopeErrorHandler(config.Logger)

	// Create handlers
	authHandler := handlers.NewAuthHandler(config.AuthUsecase, config.Logger)
	sessionHandler := handlers.NewSessionHandler(config.Logger)
	healthHandler := handlers.NewHealthHandler(config.DB, config.Logger)

	// Create middleware
	authMiddleware := custommw.NewAuthMiddleware(config.AuthUsecase, config.Logger)
	rateLimiter := custommw.NewRateLimiter()

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(custommw.DefaultCORS())
	e.Use(custommw.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}, error=${error}\n",
	}))

	// API versioning
	v1 := e.Group("/v1")

	// Health endpoints (no auth required)
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)
	v1.GET("/live", healthHandler.LivenessCheck)

	// Authentication endpoints
	auth := e.Group("/auth")

	// Public auth endpoints (no auth required)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)

	// Protected auth endpoints
	auth.GET("/me", sessionHandler.Me, authMiddleware.RequireAuth())
	auth.POST("/logout-all", authHandler.LogoutAll, authMiddleware.RequireAuth())

	return e
}

// envelopeErrorHandler shapes every unhandled error into the portal envelope
// {success:false, message}. Detail beyond the HTTPError message never
// reaches the wire.
func envelopeErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal server error"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			}
		} else {
			logger.Error("unhandled error", "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(code); err != nil {
				logger.Error("failed to write error response", "error", err)
			}
			return
		}

		if err := c.JSON(code, handlers.Fail(message)); err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}
