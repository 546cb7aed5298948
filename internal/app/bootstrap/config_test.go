package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearConfigEnv blanks every env var LoadConfig consults so tests see only
// what they set themselves.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DB_URL", "POSTGRES_URL", "REDIS_URL",
		"JWT_SECRET", "JWT_ALLOW_EPHEMERAL",
		"FRONTEND_ORIGIN", "SECURE_COOKIES",
		"HTTP_PORT", "GRPC_PORT", "BCRYPT_ROUNDS",
		"FAILED_LOGIN_THRESHOLD", "DB_MAX_CONNS",
		"TOKEN_EXPIRY_HOURS", "ACCOUNT_LOCKOUT_MINUTES", "STORAGE_TIMEOUT_SECONDS",
	} {
		t.Setenv(name, "")
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadConfigFileOverDefaults(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfigFile(t, `
service:
  id: usage-analytics-dev
  http_port: 8181
dependencies:
  postgres_url: postgres://localhost:5432/usage
  redis_url: redis://localhost:6379/0
session:
  frontend_origin: https://app.example.com
  secure_cookies: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ServiceID != "usage-analytics-dev" || cfg.HTTPPort != 8181 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.GRPCPort != 9090 {
		t.Fatalf("unset file field must keep default, got %d", cfg.GRPCPort)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.BcryptCost != 12 || cfg.FailedLoginThreshold != 5 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.FrontendOrigin != "https://app.example.com" || !cfg.SecureCookies {
		t.Fatalf("session section not applied: %+v", cfg)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DB_URL", "postgres://db.internal:5432/usage")
	t.Setenv("REDIS_URL", "redis://cache.internal:6379/1")
	t.Setenv("TOKEN_EXPIRY_HOURS", "12")
	t.Setenv("ACCOUNT_LOCKOUT_MINUTES", "10")
	t.Setenv("SECURE_COOKIES", "true")

	path := writeConfigFile(t, `
dependencies:
  postgres_url: postgres://localhost:5432/usage
  redis_url: redis://localhost:6379/0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DatabaseURL != "postgres://db.internal:5432/usage" {
		t.Fatalf("env must win over file, got %s", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://cache.internal:6379/1" {
		t.Fatalf("env must win over file, got %s", cfg.RedisURL)
	}
	if cfg.TokenTTL != 12*time.Hour || cfg.LockoutDuration != 10*time.Minute {
		t.Fatalf("duration env overrides not applied: %+v", cfg)
	}
	if !cfg.SecureCookies {
		t.Fatalf("SECURE_COOKIES override not applied")
	}
}

func TestLoadConfigMissingFileFallsBackToEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("POSTGRES_URL", "postgres://localhost:5432/usage")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig without a file must still resolve: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/usage" {
		t.Fatalf("POSTGRES_URL alias not honored: %s", cfg.DatabaseURL)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	clearConfigEnv(t)

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatalf("missing database URL must fail")
	}

	t.Setenv("DB_URL", "postgres://localhost:5432/usage")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatalf("missing redis URL must fail")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_ALLOW_EPHEMERAL", "false")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatalf("missing JWT secret with ephemeral disabled must fail")
	}

	t.Setenv("JWT_SECRET", "topsecret")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml")); err != nil {
		t.Fatalf("fully specified config must load: %v", err)
	}
}
