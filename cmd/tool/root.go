package main

import (
	"context"
	"os"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/stats"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/config"
	rediscache "github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "linkanalyzer",
	Short: "link analyzer maintenance tool",
	Example: `linkanalyzer db migrate
linkanalyzer db drop --yes
linkanalyzer data cleanup --days 30
linkanalyzer data purge --yes
linkanalyzer data stats
linkanalyzer token --uid admin-1 --ttl 1h`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		logger.Init(level, "console")
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(Token())
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

type env struct {
	cfg   *config.Config
	repo  *postgres.Repo
	stats *stats.Service
	close func()
}

// open loads config from the environment and connects to the store and,
// when REDIS_URL is set, to the stats cache so writes invalidate it.
func open(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := config.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	repo := postgres.New(db, cfg.Tables())
	if err := repo.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	var (
		cache stats.Cache
		rc    *rediscache.Client
	)
	if cfg.RedisURL != "" {
		rc, err = rediscache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("stats cache unavailable, continuing without it")
		} else {
			cache = rc
		}
	}
	zlog.Debug().Str("table_prefix", cfg.TablePrefix).Bool("cache", cache != nil).Msg("connected")

	return &env{
		cfg:   cfg,
		repo:  repo,
		stats: stats.New(repo, cache, cfg.StatsCacheTTL, cfg.TablePrefix),
		close: func() {
			if rc != nil {
				_ = rc.Close()
			}
			_ = db.Close()
		},
	}, nil
}
