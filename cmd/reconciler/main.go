package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"travel_booking/internal/adapters/observability"
	"travel_booking/internal/app"
	"travel_booking/internal/shared"
	"travel_booking/internal/storage"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("workers", cfg.ReconcileWorkers).
		Int("rps", cfg.ReconcileRPS).
		Dur("interval", cfg.ReconcileInterval).
		Msg("reconciler starting")

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer func() { _ = closeStore(context.Background()) }()

	rec := app.NewReconcileService(store, store, cfg.ReconcileWorkers, cfg.ReconcileRPS)

	reg := observability.InitRegistry()
	go func() {
		if err := observability.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	runOnce := func() {
		start := time.Now()
		rep, err := rec.Run(ctx)
		observability.ObserveReconcile(rep.Dangling, int(rep.Deactivated))
		ev := log.Info()
		if err != nil {
			ev = log.Error().Err(err)
		}
		ev.
			Int("hotels", rep.Hotels).
			Int("destinations", rep.Destinations).
			Int("dangling", rep.Dangling).
			Int64("deactivated", rep.Deactivated).
			Dur("took", time.Since(start)).
			Msg("reconciliation pass")
	}

	runOnce()
	if cfg.ReconcileInterval <= 0 {
		return
	}

	t := time.NewTicker(cfg.ReconcileInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reconciler stopped")
			return
		case <-t.C:
			runOnce()
		}
	}
}
