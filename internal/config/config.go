// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultDBPath       = "fridgewatch.sqlite3"
	DefaultPollInterval = 5 * time.Second
)

// Config holds runtime configuration.
type Config struct {
	Addr         string
	DBPath       string
	JWTSecret    string
	PollInterval time.Duration
}

// Load reads configuration from a .env file (if present) and the
// environment. A missing database path or JWT secret is a warning, not a
// hard failure: the server still starts with a local database file and an
// auto-generated secret.
func Load() Config {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg := Config{
		Addr:         envOr("FRIDGEWATCH_ADDR", DefaultAddr),
		DBPath:       os.Getenv("FRIDGEWATCH_DB"),
		JWTSecret:    os.Getenv("FRIDGEWATCH_JWT_SECRET"),
		PollInterval: DefaultPollInterval,
	}

	if cfg.DBPath == "" {
		slog.Warn("FRIDGEWATCH_DB not set, using local database file", "path", DefaultDBPath)
		cfg.DBPath = DefaultDBPath
	}
	if cfg.JWTSecret == "" {
		slog.Warn("FRIDGEWATCH_JWT_SECRET not set, a secret will be auto-generated (sessions will not survive restarts)")
	}

	if raw := os.Getenv("FRIDGEWATCH_POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			slog.Warn("invalid FRIDGEWATCH_POLL_INTERVAL, using default", "value", raw, "default", DefaultPollInterval)
		} else {
			cfg.PollInterval = d
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
