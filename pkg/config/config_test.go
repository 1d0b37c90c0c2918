package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}
	if !cfg.App.IsProd() || cfg.App.IsDev() {
		t.Fatalf("env helpers disagree with App.Env %q", cfg.App.Env)
	}
	if cfg.App.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.App.LogLevel)
	}

	if got := cfg.JWT.Expiration(); got != time.Hour {
		t.Fatalf("expected default token lifetime 1h, got %v", got)
	}

	if cfg.Bootstrap.AdminAddress != "addr-admin" {
		t.Fatalf("unexpected bootstrap admin %q", cfg.Bootstrap.AdminAddress)
	}

	if cfg.MintLimit.Window != time.Minute {
		t.Fatalf("expected default mint window 1m, got %v", cfg.MintLimit.Window)
	}
	if cfg.MintLimit.IPLimit != 10 {
		t.Fatalf("expected default mint ip limit 10, got %d", cfg.MintLimit.IPLimit)
	}

	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without an endpoint")
	}
}

func TestLoad_RedisEnabled(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("CUSTODY_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("redis should be enabled with a url")
	}
	if cfg.Redis.DialTimeout != 5*time.Second {
		t.Fatalf("expected default dial timeout 5s, got %v", cfg.Redis.DialTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv("CUSTODY_BOOTSTRAP_ADMIN"); err != nil {
		t.Fatalf("failed to unset bootstrap admin: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestJWTExpirationFallback(t *testing.T) {
	cfg := JWTConfig{ExpirationMinutes: 0}
	if got := cfg.Expiration(); got != time.Hour {
		t.Fatalf("non-positive minutes should fall back to 1h, got %v", got)
	}
	cfg.ExpirationMinutes = 15
	if got := cfg.Expiration(); got != 15*time.Minute {
		t.Fatalf("expected 15m, got %v", got)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("CUSTODY_APP_ENV", "prod")
	t.Setenv("CUSTODY_APP_PORT", "8081")
	t.Setenv("CUSTODY_JWT_SECRET", "super-secret")
	t.Setenv("CUSTODY_JWT_ISSUER", "custody-api")
	t.Setenv("CUSTODY_BOOTSTRAP_ADMIN", "addr-admin")
}
