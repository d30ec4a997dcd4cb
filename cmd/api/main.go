package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_wishlist/internal/adapters/http_server"
	"hotel_wishlist/internal/adapters/observability"
	redisad "hotel_wishlist/internal/adapters/redis"
	"hotel_wishlist/internal/adapters/seedsource"
	"hotel_wishlist/internal/app"
	"hotel_wishlist/internal/domain"
	"hotel_wishlist/internal/shared"
	"hotel_wishlist/internal/storage"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(observability.LogOptions{
		Env:   cfg.AppEnv,
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store open failed")
	}
	defer store.Close()
	log.Info().Str("driver", store.Dialect()).Msg("database connection ok")

	// cache stays a nil interface when disabled
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, serving without cache")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	if cfg.SeedOnStart && len(cfg.SeedSources) > 0 {
		loader := app.NewCatalogLoader(store, cache, cfg.SeedWorkers)
		rep, err := loader.Load(ctx, seedsource.Open(cfg.SeedSources, cfg.SeedRPS)...)
		observability.ObserveSeed(rep.Hotels, err)
		if err != nil {
			log.Fatal().Err(err).Msg("seed load failed")
		}
		log.Info().
			Int("sources", rep.Sources).
			Int("hotels", rep.Hotels).
			Int("facilities", rep.Facilities).
			Dur("took", rep.Took).
			Msg("catalog seeded")
	}

	// http
	srv := server.New(log.Logger, cfg.HTTPTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Hotels:    app.NewHotelService(store, cache, cfg.CacheTTL),
		Persons:   app.NewPersonService(store),
		WishLists: app.NewWishListService(store, store, store),
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
