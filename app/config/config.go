package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the auth service
type Config struct {
	// Server
	Port     string
	Host     string
	LogLevel string

	// Database
	DatabaseURL      string
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseSSLMode  string

	// Credentials
	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9500")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Database configuration. DATABASE_URL wins; the discrete parts exist for
	// deployments that template the DSN per field.
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.DatabaseHost = getEnvOrDefault("DB_HOST", "medassist-postgres")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "medassist_auth")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "medassist")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

	if config.DatabaseURL == "" && config.DatabasePassword == "" {
		return nil, fmt.Errorf("either DATABASE_URL or DB_PASSWORD is required")
	}

	// Credential configuration
	config.TokenSecret = os.Getenv("TOKEN_SECRET")
	if config.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}
	config.TokenIssuer = getEnvOrDefault("TOKEN_ISSUER", "medassist-auth")

	tokenTTLStr := getEnvOrDefault("TOKEN_TTL", "24h")
	var err error
	config.TokenTTL, err = time.ParseDuration(tokenTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate port
	port, err := strconv.ParseInt(c.Port, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	// Validate token secret (minimum 32 bytes for HS256)
	if len(c.TokenSecret) < 32 {
		return fmt.Errorf("token secret must be at least 32 characters, got: %d", len(c.TokenSecret))
	}

	// Validate token lifetime (minimum 1 minute, maximum 7 days)
	if c.TokenTTL < time.Minute {
		return fmt.Errorf("token TTL must be at least 1 minute, got: %v", c.TokenTTL)
	}
	if c.TokenTTL > 7*24*time.Hour {
		return fmt.Errorf("token TTL must be at most 168h, got: %v", c.TokenTTL)
	}

	return nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
