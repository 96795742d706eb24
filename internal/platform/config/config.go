package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr                 string
	DatabaseURL          string
	RedisURL             string
	JWTSigningKey        string
	AdminToken           string
	LoginCodeTTL         time.Duration
	LoginCodeMaxAttempts int
	SessionTTL           time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ALUMNET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:                 addr,
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		JWTSigningKey:        jwtSigningKey,
		AdminToken:           os.Getenv("ADMIN_TOKEN"),
		LoginCodeTTL:         durationFromEnv("LOGIN_CODE_TTL", 5*time.Minute),
		LoginCodeMaxAttempts: intFromEnv("LOGIN_CODE_MAX_ATTEMPTS", 5),
		SessionTTL:           durationFromEnv("SESSION_TTL", 24*time.Hour),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
