package main

import (
	"context"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "console")
		zlog.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		zlog.Info().
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Str("table_prefix", cfg.TablePrefix).
			Msg("db config loaded")
	}

	db, err := config.NewDB(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db connect failed")
	}

	app, err := NewApp(cfg, db)
	if err != nil {
		_ = db.Close()
		zlog.Fatal().Err(err).Msg("app init failed")
	}

	os.Exit(run(app))
}

// run owns the app until shutdown and returns the process exit code.
func run(app *App) int {
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.Config.DBAutoMigrate {
		if err := app.Repo.EnsureSchema(ctx); err != nil {
			zlog.Error().Err(err).Msg("schema migration failed")
			return 1
		}
		zlog.Info().Msg("schema ready")
	}

	if err := app.Run(ctx); err != nil {
		zlog.Error().Err(err).Msg("server stopped with error")
		return 1
	}
	return 0
}
