// Package config aggregates the per-concern environment configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"movie_ranking/internal/platform/db"
	"movie_ranking/internal/platform/externalapi/tmdb"
	"movie_ranking/internal/platform/redis"
)

// Server はHTTPサーバーとフォームトークンの設定です。
type Server struct {
	Port             string        `envconfig:"SERVER_PORT" default:"8080"`
	SecretKey        string        `envconfig:"SECRET_KEY" required:"true"`
	FormTokenTTL     time.Duration `envconfig:"FORM_TOKEN_TTL" default:"1h"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	CORSAllowOrigins []string      `envconfig:"CORS_ALLOW_ORIGINS"`
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Server Server
	DB     db.Config
	TMDB   tmdb.Config
	Redis  redis.Config
}

// Load reads every configuration section from the environment.
func Load() (Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return Config{}, fmt.Errorf("load server config: %w", err)
	}
	dbCfg, err := db.LoadConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	tmdbCfg, err := tmdb.LoadConfig()
	if err != nil {
		return Config{}, err
	}
	redisCfg, err := redis.LoadConfig()
	if err != nil {
		return Config{}, err
	}

	cfg.DB, cfg.TMDB, cfg.Redis = dbCfg, tmdbCfg, redisCfg
	return cfg, nil
}

// LoadDB は migrate コマンド用にDB設定だけを読み込みます。
func LoadDB() (db.Config, error) {
	cfg, err := db.LoadConfigFromEnv()
	if err != nil {
		return db.Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints envconfig cannot express.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.SecretKey) == "" {
		errs = append(errs, errors.New("SECRET_KEY must not be empty"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT must not be empty"))
	}
	if _, err := ParseLogLevel(c.Server.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		errs = append(errs, errors.New("TMDB_API_KEY must not be empty"))
	}
	if err := c.DB.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLogLevel は LOG_LEVEL を slog.Level に変換します。
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
