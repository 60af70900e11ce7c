package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Environments accepted in APP_ENV
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// MinJWTSecretLength is the shortest accepted JWT_SECRET
const MinJWTSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	DatabaseURL        string
	JWTSecret          string
	JWTTTL             time.Duration
	Port               string
	PrometheusPort     string
	LogLevel           string
	AppEnv             string
	Location           *time.Location
	TelegramToken      string
	CORSAllowedOrigins []string
	AuthRateLimit      int
	MigrationsEnabled  bool
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// LogFormat returns the log format for the environment
func (c *Config) LogFormat() string {
	if c.IsDevelopment() {
		return "text"
	}
	return "json"
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		AppEnv:         getEnvOrDefault("APP_ENV", EnvDevelopment),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	// Required environment variables
	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret = os.Getenv("JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength)
	}

	if cfg.AppEnv != EnvDevelopment && cfg.AppEnv != EnvProduction {
		return nil, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.AppEnv)
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getEnvOrDefault("JWT_TTL", "24h")); err != nil || cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be a positive duration such as 24h")
	}

	if cfg.Location, err = time.LoadLocation(getEnvOrDefault("TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if cfg.AuthRateLimit, err = strconv.Atoi(getEnvOrDefault("AUTH_RATE_LIMIT", "20")); err != nil || cfg.AuthRateLimit < 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be a non-negative integer")
	}

	if cfg.MigrationsEnabled, err = strconv.ParseBool(getEnvOrDefault("MIGRATIONS_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("MIGRATIONS_ENABLED must be a boolean: %w", err)
	}

	cfg.CORSAllowedOrigins = splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
