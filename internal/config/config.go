package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL    string
	JWTSecret      string
	Port           string
	PrometheusPort string
	LogLevel       string
	TelegramToken  string
	AdminUserID    *uuid.UUID
	USDAAPIKey     string
	MigrationsPath string
	RequestTimeout time.Duration
}

// Load loads configuration from a .env file, when present, and the environment
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Port:           getEnvOrDefault("PORT", "8080"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		USDAAPIKey:     os.Getenv("USDA_API_KEY"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	if raw := os.Getenv("ADMIN_USER_ID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_USER_ID: %w", err)
		}
		cfg.AdminUserID = &id
	}

	return cfg, nil
}

// RequireDatabase reports an error when no database is configured
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}

// RequireJWTSecret reports an error when the HTTP server cannot authenticate requests
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}

// RequireUSDAKey reports an error when the USDA client has no API key
func (c *Config) RequireUSDAKey() error {
	if c.USDAAPIKey == "" {
		return fmt.Errorf("USDA_API_KEY environment variable is required")
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
