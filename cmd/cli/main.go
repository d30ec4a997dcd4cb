package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_wishlist/internal/adapters/apiclient"
	"hotel_wishlist/internal/adapters/observability"
	"hotel_wishlist/internal/console"
	"hotel_wishlist/internal/shared"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	// menu owns stdout; diagnostics go to stderr
	log.Logger = observability.NewLogger(observability.LogOptions{
		Env:   "dev",
		Level: zerolog.WarnLevel.String(),
		File:  cfg.LogFile,
		Out:   os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := console.New(apiclient.New(cfg.APIBaseURL), os.Stdin, os.Stdout)
	if err := r.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("console")
	}
}
