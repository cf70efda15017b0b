package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/matchday-engine/db"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/matchday")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dialect() != db.Postgres || cfg.ServerPort != 8080 || cfg.MatchLength != 90 || cfg.EnsureMaxAttempts != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("Level = %v", cfg.Level())
	}
	if cfg.Archive.Enabled() || cfg.Archive.Interval != 5*time.Minute {
		t.Fatalf("archive = %+v", cfg.Archive)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:matchday.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://game.example.com")
	t.Setenv("ARCHIVE_BUCKET", "matchdays")
	t.Setenv("ARCHIVE_ACCESS_KEY_ID", "key")
	t.Setenv("ARCHIVE_SECRET_ACCESS_KEY", "secret")
	t.Setenv("ARCHIVE_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dialect() != db.SQLite || cfg.Level() != slog.LevelDebug {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://game.example.com" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.Archive.Enabled() || cfg.Archive.Interval != 30*time.Second || cfg.Archive.Region != "auto" {
		t.Fatalf("archive = %+v", cfg.Archive)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Config{
		DatabaseURL:       "postgres://localhost/matchday",
		DBDriver:          "mysql",
		ServerPort:        70000,
		LogLevel:          "loud",
		MatchLength:       0,
		EnsureMaxAttempts: 0,
		Archive:           ArchiveConfig{Bucket: "matchdays"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"DB_DRIVER", "SERVER_PORT", "MATCH_LENGTH", "ENSURE_MAX_ATTEMPTS", "LOG_LEVEL", "ARCHIVE_ACCESS_KEY_ID", "ARCHIVE_INTERVAL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
