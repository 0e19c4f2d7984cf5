package config

import (
	"os"
	"testing"
	"time"
)

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unset(t, "PORT", "ROSTER_TTL", "DATA_PATH")
	t.Setenv("UPSTREAM_URL", "http://roster.local/api")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("API_MASTER_SECRET", "master")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.RosterTTL != 30*time.Second {
		t.Errorf("Expected 30s roster TTL, got %v", cfg.RosterTTL)
	}
	if cfg.DataPath != "shift_control.db" {
		t.Errorf("unexpected data path %s", cfg.DataPath)
	}
}

func TestLoad_MissingUpstream(t *testing.T) {
	unset(t, "UPSTREAM_URL")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("API_MASTER_SECRET", "master")

	if _, err := Load(); err == nil {
		t.Error("Expected error when UPSTREAM_URL is empty")
	}
}
