// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetShutdownTimeout() time.Duration
}

// RateLimitConfig provides settings for the per-IP rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RateLimitRPS   float64
	RateLimitBurst int

	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, with .env as a fallback
// for local development. Required values fail fast.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTAccessSecret: os.Getenv("JWT_ACCESS_SECRET"),
		CORSAllowAll:    getEnvBool("CORS_ALLOW_ALL", false),
		CORSOrigins:     getEnvList("CORS_ORIGINS"),
		CORSAllowCreds:  getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 100),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// GetDatabaseURL returns the Postgres connection string.
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// GetJWTAccessSecret returns the secret used to validate access tokens.
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// GetHTTPAddr returns the listen address for the HTTP server.
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

// GetCORSAllowAll reports whether all origins are allowed.
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }

// GetCORSOrigins returns the allowed CORS origins.
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GetCORSAllowCreds reports whether credentialed CORS requests are allowed.
func (c *Config) GetCORSAllowCreds() bool { return c.CORSAllowCreds }

// GetShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) GetShutdownTimeout() time.Duration { return c.ShutdownTimeout }

// GetRateLimitRPS returns the sustained requests-per-second limit per IP.
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }

// GetRateLimitBurst returns the per-IP burst allowance.
func (c *Config) GetRateLimitBurst() int { return c.RateLimitBurst }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
