package config

import (
	"os"
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	env := map[string]string{
		EnvAppEnv:                      "production",
		EnvAppPort:                     "8080",
		"GROCERLANE_UPSTREAM_BASE_URL": "http://localhost:8080",
		"GROCERLANE_REDIS_URL":         "redis://localhost:6379/0",
		"GROCERLANE_JWT_SECRET":        "test-secret",
		"GROCERLANE_JWT_ISSUER":        "grocerlane",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if !cfg.App.IsProd() {
		t.Fatal("expected IsProd to report true")
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
	if cfg.Upstream.Mode != UpstreamModeHTTP {
		t.Fatalf("expected default upstream mode http, got %q", cfg.Upstream.Mode)
	}
	if got := cfg.Upstream.Timeout; got != 10*time.Second {
		t.Fatalf("expected upstream timeout 10s, got %v", got)
	}
	if cfg.Catalog.PriceCeiling != 10000 {
		t.Fatalf("expected default price ceiling 10000, got %d", cfg.Catalog.PriceCeiling)
	}
	if got := cfg.Session.TTL(); got != 720*time.Minute {
		t.Fatalf("expected session ttl 720m, got %v", got)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error when required app env is missing")
	}
}

func TestLoad_MemoryModeSkipsBaseURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("GROCERLANE_UPSTREAM_MODE", "memory")
	t.Setenv("GROCERLANE_UPSTREAM_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Upstream.IsMemory() {
		t.Fatal("expected memory upstream mode")
	}
}

func TestLoad_HTTPModeRequiresBaseURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("GROCERLANE_UPSTREAM_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when http upstream has no base url")
	}
}

func TestLoad_UnknownUpstreamMode(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("GROCERLANE_UPSTREAM_MODE", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown upstream mode")
	}
}
