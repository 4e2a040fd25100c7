package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"movie_ranking/internal/feature/movies/domain/entity"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	retryInterval = 3 * time.Second
)

// Config はデータベース接続設定です。
type Config struct {
	Driver         string        `envconfig:"DB_DRIVER" default:"sqlite"`
	DSN            string        `envconfig:"DB_DSN" default:"movie-collection.db"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"60s"`
	AutoMigrate    bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// Opener opens a gorm handle for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load db config: %w", err)
	}
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	return cfg, nil
}

// Validate checks that the driver is supported and a DSN is present.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.Driver, DriverSQLite, DriverPostgres)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return errors.New("DB_DSN is required")
	}
	return nil
}

// NewOpener はドライバ名に対応するOpenerを返します。
func NewOpener(driver string) (Opener, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	switch driver {
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gormCfg)
		}, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormCfg)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectWithRetry keeps calling opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)

		wait := retryInterval
		if remaining < wait {
			wait = remaining
		}
		time.Sleep(wait)
	}
}

// OpenDB は設定に従ってDBへ接続し、必要ならマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opener, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(cfg.DSN, cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}
	slog.Info("DB connection successful", "driver", cfg.Driver)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the movies table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Movie{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
