package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tripbook/internal/adapters/observability"
	redisad "tripbook/internal/adapters/redis"
	"tripbook/internal/app"
	"tripbook/internal/bootstrap"
	"tripbook/internal/shared"
)

// ingestor warms the shared redis cache with destination details and the
// package listing so the first bookings after a deploy stay fast.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("base", cfg.InventoryBase).
		Str("catalog", cfg.CatalogPath).
		Int("workers", cfg.Workers).
		Msg("cache warmer starting")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	inv, _, err := bootstrap.Clients(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize inventory client")
	}
	svc := bootstrap.Build(cfg, inv, nil, bootstrap.Infra{Cache: cache})

	start := time.Now()
	rep, err := app.NewCacheWarmer(svc.Hotels, svc.Destinations, svc.Queries, cfg.Workers).Warm(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("warm aborted")
	}
	log.Info().
		Int("packages", rep.Packages).
		Int("destinations", rep.Destinations).
		Int("failed", rep.Failed).
		Dur("took", time.Since(start)).
		Msg("cache warm completed")
}
