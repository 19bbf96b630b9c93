package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear anything a local .env or the CI environment might inject.
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"JWT_SECRET", "TOKEN_TTL_SECONDS", "UPLOAD_DIR", "MAX_UPLOAD_BYTES",
		"PORT", "APP_ENV", "NODE_ENV", "API_BASE_URL", "FRONTEND_ORIGIN",
		"LOG_LEVEL", "LOG_RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DBHost != "localhost" || cfg.DBPort != "5432" {
		t.Errorf("db defaults = %s:%s", cfg.DBHost, cfg.DBPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.MaxUploadBytes != 5*1024*1024 {
		t.Errorf("max upload = %d, want 5MiB", cfg.MaxUploadBytes)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.AppEnv != "development" {
		t.Errorf("app env = %q, want development", cfg.AppEnv)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.LogRetentionDays != 30 {
		t.Errorf("log retention = %d, want 30", cfg.LogRetentionDays)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("TOKEN_TTL_SECONDS", "3600")
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.DBHost != "db.internal" {
		t.Errorf("db host = %q", cfg.DBHost)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("token ttl = %v, want 1h", cfg.TokenTTL)
	}
	// NODE_ENV is honored when APP_ENV is unset.
	if cfg.AppEnv != "production" {
		t.Errorf("app env = %q, want production via NODE_ENV", cfg.AppEnv)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "h", DBPort: "5433", DBUser: "u", DBPassword: "p",
		DBName: "d", DBSSLMode: "require",
	}
	want := "host=h user=u password=p dbname=d port=5433 sslmode=require TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
