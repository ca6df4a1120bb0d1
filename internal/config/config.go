package config

import (
	"os"
	"strings"
)

// Config holds the application configuration
// Auth, billing, and user management are handled by an upstream gateway when AUTH_MODE=gateway
type Config struct {
	// Environment
	Environment string
	Port        string

	// Storage
	// Empty DatabaseURL keeps presets in memory for the life of the process
	DatabaseURL string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the gateway
	// - "jwt": Validate HMAC-signed bearer tokens with JWTSecret
	AuthMode  string
	JWTSecret string

	// CORS
	CORSAllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		AuthMode:           getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// IsGatewayMode returns true if running behind the auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsJWTMode returns true if the API validates bearer tokens itself
func (c *Config) IsJWTMode() bool {
	return c.AuthMode == "jwt"
}

// IsProduction returns true for the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesMemoryStore returns true when no database is configured
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseURL == ""
}
