package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"movie_ranking/internal/app/config"
	"movie_ranking/internal/app/di"
	"movie_ranking/internal/app/router"
	"movie_ranking/internal/platform/db"
	"movie_ranking/internal/platform/formtoken"
	platformhandler "movie_ranking/internal/platform/http/handler"
	infraredis "movie_ranking/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	serve := serveCmd()
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Personal movie ranking service",
		Long: `Search TMDB, add titles to a local collection, rate and review them,
and list the collection ranked by rating.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serveCmd はHTTPサーバーを起動するコマンドを返します。
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			setupLogger(cfg.Server.LogLevel)
			return run(cmd.Context(), cfg)
		},
	}
}

// migrateCmd はスキーマのマイグレーションのみを実行するコマンドを返します。
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the movies table and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(os.Getenv("LOG_LEVEL"))

			dbCfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			dbCfg.AutoMigrate = true
			gdb, err := db.OpenDB(dbCfg)
			if err != nil {
				return err
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer func() { _ = sqlDB.Close() }()
			}
			slog.Info("migration completed", "driver", dbCfg.Driver)
			return nil
		},
	}
}

func setupLogger(level string) {
	lvl, err := config.ParseLogLevel(level)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	if err != nil && level != "" {
		slog.Warn("unknown LOG_LEVEL, falling back to info", "value", level)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close DB", "error", err)
		}
	}()

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// TMDB（Redisがあればキャッシュでラップ）
	lookup := di.NewMovieLookup(cfg.TMDB, rdb)

	// Handler
	tokens := formtoken.NewManager(cfg.Server.SecretKey, cfg.Server.FormTokenTTL)
	moviesH := di.NewMovieHandler(gdb, lookup, cfg.TMDB.ImageBaseURL, tokens)

	// ルータ生成
	engine := router.NewRouter(moviesH, platformhandler.NewHealth(sqlDB), tokens, cfg.Server.CORSAllowOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
