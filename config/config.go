package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Dosada05/matchday-engine/db"
)

// Config holds every runtime setting of the service.
type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL,required,notEmpty"`
	DBDriver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	ServerPort        int           `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	MatchLength       int           `env:"MATCH_LENGTH" envDefault:"90"`
	EnsureMaxAttempts int           `env:"ENSURE_MAX_ATTEMPTS" envDefault:"5"`
	CORSOrigins       []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RedisURL          string        `env:"REDIS_URL"`
	RedisChannel      string        `env:"REDIS_CHANNEL" envDefault:"matchday:broadcast"`
	OTelEndpoint      string        `env:"OTEL_ENDPOINT"`
	Archive           ArchiveConfig `envPrefix:"ARCHIVE_"`
}

// ArchiveConfig points the matchday archive at an S3 compatible bucket.
// The archive is disabled while Bucket is empty.
type ArchiveConfig struct {
	Endpoint        string        `env:"ENDPOINT"`
	Region          string        `env:"REGION" envDefault:"auto"`
	Bucket          string        `env:"BUCKET"`
	AccessKeyID     string        `env:"ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"SECRET_ACCESS_KEY"`
	PublicBaseURL   string        `env:"PUBLIC_BASE_URL"`
	UsePathStyle    bool          `env:"USE_PATH_STYLE"`
	Interval        time.Duration `env:"INTERVAL" envDefault:"5m"`
}

func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// Load reads .env when present, then the environment, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if !db.Dialect(c.DBDriver).Valid() {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.Postgres, db.SQLite, c.DBDriver))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if c.MatchLength <= 0 {
		errs = append(errs, fmt.Errorf("MATCH_LENGTH must be positive, got %d", c.MatchLength))
	}
	if c.EnsureMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("ENSURE_MAX_ATTEMPTS must be positive, got %d", c.EnsureMaxAttempts))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Archive.Enabled() {
		if c.Archive.AccessKeyID == "" || c.Archive.SecretAccessKey == "" {
			errs = append(errs, errors.New("ARCHIVE_ACCESS_KEY_ID and ARCHIVE_SECRET_ACCESS_KEY are required when ARCHIVE_BUCKET is set"))
		}
		if c.Archive.Interval <= 0 {
			errs = append(errs, fmt.Errorf("ARCHIVE_INTERVAL must be positive, got %s", c.Archive.Interval))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) Dialect() db.Dialect {
	return db.Dialect(c.DBDriver)
}

// Level returns the slog level named by LOG_LEVEL.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
