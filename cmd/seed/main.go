// Command seed inserts the bootstrap user into the database.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/userdir/userdir/internal/cache"
	"github.com/userdir/userdir/internal/config"
	"github.com/userdir/userdir/internal/logging"
	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/repository"
	"github.com/userdir/userdir/internal/seed"
	"github.com/userdir/userdir/internal/service"
)

const seedTimeout = 10 * time.Second

// A single insert never needs more than one connection.
var seedPool = repository.PoolOptions{MaxConns: 1}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", seed.DefaultEmail, "Email of the user to seed")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(stderr, nil)).Error("Error seeding data", "error", err)
		return 1
	}

	logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	repo, err := repository.New(ctx, cfg.DatabaseURL, seedPool)
	if err != nil {
		logger.Error("Error seeding data",
			slog.String("error", logging.SanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", logging.RedactURL(cfg.DatabaseURL)),
		)
		return 1
	}

	var userCache service.UserCache
	var cacheClient *cache.Cache
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.UsersCacheTTL)
		if err != nil {
			// The listing cache expires on its own; seeding does not need it.
			logger.Warn("cache unavailable, skipping invalidation",
				slog.String("error", logging.SanitizeError(err, cfg.RedisURL)),
			)
		} else {
			userCache = cacheClient
		}
	}

	svc := service.NewUserService(repo, userCache, metrics.NewNoop(), logger)

	s := seed.New(svc, logger)
	s.OnClose("database", func() error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		s.OnClose("cache", cacheClient.Close)
	}

	if err := s.Run(ctx, *email); err != nil {
		return 1
	}
	return 0
}
