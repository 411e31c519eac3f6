package di

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/PSUNAND/Medassist/app/config"
	"github.com/PSUNAND/Medassist/app/driver/postgres"
	"github.com/PSUNAND/Medassist/app/gateway"
	"github.com/PSUNAND/Medassist/app/port"
	"github.com/PSUNAND/Medassist/app/rest"
	"github.com/PSUNAND/Medassist/app/token"
	"github.com/PSUNAND/Medassist/app/usecase"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB    *postgres.DB
	Codec port.TokenCodec

	// Gateways
	IdentityGateway port.IdentityGateway

	// Usecases
	AuthUsecase port.AuthUsecase
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database connection
	var err error
	container.DB, err = postgres.NewConnection(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize credential codec
	container.Codec, err = token.NewJWTCodec(token.Config{
		Secret: cfg.TokenSecret,
		Issuer: cfg.TokenIssuer,
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		container.DB.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	// Initialize repositories and gateways
	userRepository := postgres.NewUserRepository(container.DB.Pool(), logger)
	container.IdentityGateway = gateway.NewIdentityGateway(userRepository, logger)

	// Initialize usecases
	container.AuthUsecase = usecase.NewAuthUseCase(userRepository, container.IdentityGateway, container.Codec, logger)

	logger.Info("container initialized")

	return container, nil
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	return rest.NewRouter(rest.RouterConfig{
		Logger:      c.Logger,
		AuthUsecase: c.AuthUsecase,
		DB:          c.DB,
		EnableDebug: c.Config.LogLevel == "debug",
	})
}

// Close releases held resources
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
}
