package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"hotel_wishlist/internal/adapters/observability"
	redisad "hotel_wishlist/internal/adapters/redis"
	"hotel_wishlist/internal/adapters/seedsource"
	"hotel_wishlist/internal/app"
	"hotel_wishlist/internal/domain"
	"hotel_wishlist/internal/shared"
	"hotel_wishlist/internal/storage"
)

// seeder imports the hotel catalog from the files or URLs given as arguments,
// falling back to SEED_SOURCES.
func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Logger = observability.NewLogger(observability.LogOptions{
		Env:   cfg.AppEnv,
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locations := os.Args[1:]
	if len(locations) == 0 {
		locations = cfg.SeedSources
	}
	sources := seedsource.Open(locations, cfg.SeedRPS)
	if len(sources) == 0 {
		log.Fatal().Msg("no seed sources: pass paths/URLs or set SEED_SOURCES")
	}

	log.Info().
		Int("sources", len(sources)).
		Int("workers", cfg.SeedWorkers).
		Str("driver", cfg.StoreDriver).
		Msg("seeder starting")

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer store.Close()

	// stale catalog entries are evicted when a cache is configured
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, cache will not be invalidated")
		} else {
			cache = rc
		}
	}

	rep, err := app.NewCatalogLoader(store, cache, cfg.SeedWorkers).Load(ctx, sources...)
	observability.ObserveSeed(rep.Hotels, err)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed, nothing written")
	}
	log.Info().
		Int("hotels", rep.Hotels).
		Int("facilities", rep.Facilities).
		Dur("took", rep.Took).
		Msg("seed completed")
}
