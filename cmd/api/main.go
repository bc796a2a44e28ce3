// Package main is the entrypoint for the user directory API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/userdir/userdir/internal/cache"
	"github.com/userdir/userdir/internal/config"
	"github.com/userdir/userdir/internal/handler"
	"github.com/userdir/userdir/internal/logging"
	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/repository"
	"github.com/userdir/userdir/internal/server"
	"github.com/userdir/userdir/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", logging.SanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", logging.RedactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Interfaces stay nil unless Redis is configured and reachable.
	var (
		userCache   service.UserCache
		cacheHealth handler.HealthChecker
		cacheClient *cache.Cache
	)
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.UsersCacheTTL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", logging.SanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", logging.RedactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		userCache = cacheClient
		cacheHealth = cacheClient
		logger.Info("connected to Redis")
	}

	recorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, userCache, recorder, logger)

	r := newRouter(routerDeps{
		users:   handler.NewUserHandler(userService, logger),
		health:  handler.NewHealthHandler(repo, cacheHealth),
		metrics: handler.NewMetricsHandler(recorder),
		cfg:     cfg,
		logger:  logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: the cache closes before the database.
	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("cache", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
