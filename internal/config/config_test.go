package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
store:
  driver: sqlite
sqlite:
  path: /tmp/naranja-test.db
limits:
  free_likes_per_day: 5
matching:
  ordering: check_first
presence:
  ttl: 2m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Store.Driver != StoreDriverSQLite {
		t.Fatalf("unexpected store driver: %s", cfg.Store.Driver)
	}
	if cfg.SQLite.Path != "/tmp/naranja-test.db" {
		t.Fatalf("unexpected sqlite path: %s", cfg.SQLite.Path)
	}
	if cfg.Limits.FreeLikesPerDay != 5 {
		t.Fatalf("unexpected free likes/day: %d", cfg.Limits.FreeLikesPerDay)
	}
	if cfg.Matching.Ordering != "check_first" {
		t.Fatalf("unexpected ordering: %s", cfg.Matching.Ordering)
	}
	if cfg.Presence.TTL != 2*time.Minute {
		t.Fatalf("unexpected presence ttl: %s", cfg.Presence.TTL)
	}

	if cfg.Limits.Window != 24*time.Hour {
		t.Fatalf("limits.window default should stay 24h, got %s", cfg.Limits.Window)
	}
	if !cfg.Store.Migrate {
		t.Fatalf("store.migrate default should stay true")
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Limits.FreeLikesPerDay != 20 {
		t.Fatalf("unexpected default free likes/day: %d", cfg.Limits.FreeLikesPerDay)
	}
	if cfg.Limits.BurstPerMinute != 30 || cfg.Limits.BurstPer10Sec != 10 || cfg.Limits.SweepInterval != 5*time.Minute {
		t.Fatalf("unexpected burst defaults: %+v", cfg.Limits)
	}
	if cfg.Store.Driver != StoreDriverPostgres || cfg.Limits.Store != LimitsStoreRedis {
		t.Fatalf("unexpected default backends: %s/%s", cfg.Store.Driver, cfg.Limits.Store)
	}
	if cfg.Matching.Ordering != "record_first" {
		t.Fatalf("unexpected default ordering: %s", cfg.Matching.Ordering)
	}
	if cfg.Presence.TTL != 90*time.Second {
		t.Fatalf("unexpected default presence ttl: %s", cfg.Presence.TTL)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits:\n  free_likes_per_day: 5\n"), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	t.Setenv("FREE_LIKES_PER_DAY", "7")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("LIMITS_STORE", "memory")
	t.Setenv("MATCH_ORDERING", "check_first")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Limits.FreeLikesPerDay != 7 {
		t.Fatalf("env must win over yaml, got %d", cfg.Limits.FreeLikesPerDay)
	}
	if cfg.Store.Driver != StoreDriverMemory || cfg.Limits.Store != LimitsStoreMemory {
		t.Fatalf("unexpected backends: %s/%s", cfg.Store.Driver, cfg.Limits.Store)
	}
	if cfg.Matching.Ordering != "check_first" {
		t.Fatalf("unexpected ordering: %s", cfg.Matching.Ordering)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("MATCH_ORDERING", "sometimes")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unknown ordering")
	}

	clearConfigEnv(t)
	t.Setenv("FREE_LIKES_PER_DAY", "many")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-numeric FREE_LIKES_PER_DAY")
	}

	clearConfigEnv(t)
	t.Setenv("APP_ENV", "prod")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error when jwt secret is the default in production")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"STORE_DRIVER",
		"STORE_MIGRATE",
		"POSTGRES_DSN",
		"SQLITE_PATH",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_REGION",
		"S3_USE_SSL",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"LIMITS_STORE",
		"FREE_LIKES_PER_DAY",
		"MATCH_ORDERING",
		"PRESENCE_TTL",
	} {
		t.Setenv(key, "")
	}
}
