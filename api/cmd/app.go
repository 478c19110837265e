package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/ingest"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/retention"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/stats"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/config"
	rediscache "github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/jobs"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/router"
)

// App holds all dependencies for the service
type App struct {
	Config   *config.Config
	Server   *http.Server
	DB       *sql.DB
	Repo     *postgres.Repo
	Cache    *rediscache.Client
	Executor *jobs.TaskExecutor
}

func NewApp(cfg *config.Config, db *sql.DB) (*App, error) {
	// 1) Infrastructure
	repo := postgres.New(db, cfg.Tables())

	var (
		cache      stats.Cache
		redisCache *rediscache.Client
	)
	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		cache, redisCache = c, c
		zlog.Info().Msg("stats cache enabled")
	} else {
		zlog.Warn().Msg("REDIS_URL empty: dashboard is not cached")
	}

	// 2) Application
	statsSvc := stats.New(repo, cache, cfg.StatsCacheTTL, cfg.TablePrefix)
	ingestSvc := ingest.New(repo, statsSvc)
	retentionSvc := retention.New(repo, statsSvc)

	var executor *jobs.TaskExecutor
	if cfg.RetentionEnabled {
		executor = jobs.NewTaskExecutor(jobs.NewRetentionJob(retentionSvc, cfg.RetentionDays, cfg.RetentionSchedule))
	}

	// 3) Transport
	nonces := authmw.NewNonces(cfg.NonceSecret, cfg.NonceTTL)
	health := handlers.NewHealthHandler(repo)
	if redisCache != nil {
		health.WithCache(redisCache)
	}
	httpHandler, err := router.New(router.Deps{
		Health:         health,
		Ingest:         handlers.NewIngestHandler(ingestSvc),
		Admin:          handlers.NewAdminHandler(statsSvc, retentionSvc, nonces),
		Auth:           authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer),
		Nonces:         nonces,
		AllowedOrigins: cfg.AdminAllowedOrigins,
		RateLimit: router.RateLimit{
			Enabled: cfg.RLEnabled,
			Limit:   cfg.RLLimit,
			Window:  cfg.RLWindow,
		},
	})
	if err != nil {
		return nil, err
	}

	// 4) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:   cfg,
		Server:   srv,
		DB:       db,
		Repo:     repo,
		Cache:    redisCache,
		Executor: executor,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then drains
// requests and jobs. A listener failure is returned after the drain.
func (a *App) Run(ctx context.Context) error {
	if a.Executor != nil {
		if err := a.Executor.Start(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", a.Config.HTTPAddr).Msg("listening")
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("server crashed: %w", err)
		}
	case <-ctx.Done():
	}

	zlog.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("http shutdown")
	}
	if a.Executor != nil {
		if err := a.Executor.Stop(shutdownCtx); err != nil {
			zlog.Error().Err(err).Msg("jobs did not stop in time")
		}
	}
	return serveErr
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	_ = a.DB.Close()
}
