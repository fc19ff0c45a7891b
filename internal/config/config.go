// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server needs to start.
type Config struct {
	Port     int
	LogLevel string

	DBPath string

	JWTSecret string
	JWTTTL    time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for everything except the JWT secret.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnvInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		DBPath:    getEnv("DB_PATH", "data/paisatrack.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
