package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FRIDGEWATCH_ADDR", "")
	t.Setenv("FRIDGEWATCH_DB", "")
	t.Setenv("FRIDGEWATCH_JWT_SECRET", "")
	t.Setenv("FRIDGEWATCH_POLL_INTERVAL", "")

	cfg := Load()
	if cfg.Addr != DefaultAddr {
		t.Errorf("expected default addr %q, got %q", DefaultAddr, cfg.Addr)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("expected default db path %q, got %q", DefaultDBPath, cfg.DBPath)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("expected default poll interval %v, got %v", DefaultPollInterval, cfg.PollInterval)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FRIDGEWATCH_ADDR", ":9090")
	t.Setenv("FRIDGEWATCH_DB", "/tmp/test.sqlite3")
	t.Setenv("FRIDGEWATCH_JWT_SECRET", "secret")
	t.Setenv("FRIDGEWATCH_POLL_INTERVAL", "30s")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Errorf("expected addr ':9090', got %q", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/test.sqlite3" {
		t.Errorf("expected db path, got %q", cfg.DBPath)
	}
	if cfg.JWTSecret != "secret" {
		t.Errorf("expected secret, got %q", cfg.JWTSecret)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("expected 30s poll interval, got %v", cfg.PollInterval)
	}
}

func TestLoadBadPollInterval(t *testing.T) {
	t.Setenv("FRIDGEWATCH_POLL_INTERVAL", "soon")

	cfg := Load()
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("expected fallback to default interval, got %v", cfg.PollInterval)
	}
}
