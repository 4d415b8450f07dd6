package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/pixeltool/presenced/core/config"
	"github.com/pixeltool/presenced/core/logger"
	"github.com/pixeltool/presenced/core/server"
	"github.com/pixeltool/presenced/integration/database/pg"
	"github.com/pixeltool/presenced/integration/database/redis"
	"github.com/pixeltool/presenced/internal/analytics"
	"github.com/pixeltool/presenced/internal/httpapi"
	"github.com/pixeltool/presenced/internal/presence"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)

	// Init the marker store. Presence is best-effort: a store that is not
	// up yet only degrades counts, so startup continues with an unverified
	// client and readiness reports the truth.
	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis not ready, starting degraded", logger.Component("redis"), logger.Error(err))
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Error("invalid redis configuration", logger.Component("redis"), logger.Error(err))
			os.Exit(1)
		}
	}
	defer redisClient.Close()

	// The analytics store is the system of record for daily statistics;
	// unlike the marker store it must be reachable and migrated at startup.
	db, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		log.Error("failed to connect to database", logger.Component("database"), logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	if err := pg.Migrate(ctx, db, cfg.DB, log.With(logger.Component("database.migration"))); err != nil {
		log.Error("failed to migrate database", logger.Component("database"), logger.Error(err))
		os.Exit(1)
	}

	presenceSvc := presence.New(redisClient, cfg.Presence, log)
	analyticsStore := analytics.New(db, log)

	router := httpapi.New(presenceSvc, analyticsStore, log,
		redis.Healthcheck(redisClient),
		pg.Healthcheck(db),
	)

	eg, ctx := errgroup.WithContext(ctx)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log.With(logger.Component("server"))))
	if err != nil {
		log.Error("failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}
	eg.Go(srv.Run(ctx, router))

	if err := eg.Wait(); err != nil {
		log.Error("failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}

func newLogger(cfg Config) *slog.Logger {
	if cfg.Environment == "production" {
		return logger.New(logger.WithProduction(cfg.AppName))
	}
	return logger.New(logger.WithDevelopment(cfg.AppName))
}
