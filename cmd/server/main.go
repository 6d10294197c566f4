// Package main is the entry point for the autocall pricing and backtest
// service. It wires the price history store, the Monte Carlo pricer and the
// historical backtester behind an HTTP API, and keeps the stored history
// fresh with a scheduled sync job.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/autocall/internal/config"
	"github.com/aristath/autocall/internal/database"
	"github.com/aristath/autocall/internal/modules/backtest"
	"github.com/aristath/autocall/internal/modules/history"
	"github.com/aristath/autocall/internal/modules/pricing"
	"github.com/aristath/autocall/internal/scheduler"
	"github.com/aristath/autocall/internal/server"
	"github.com/aristath/autocall/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger so the configuration error is still logged
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting autocall service")

	// Price history storage
	db, err := database.New(database.Config{Path: cfg.HistoryDBPath(), Name: "history"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer db.Close()

	store, err := history.NewStore(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history store")
	}

	provider := history.NewCSVProvider(cfg.DataDir)
	syncService := history.NewSyncService(store, provider, log)

	// Initial sync so backtests have data on first boot. Failures are logged
	// per symbol and do not block startup.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		syncService.SyncAll(ctx, cfg.SyncSymbols)
		cancel()
	}

	// Engines and handlers
	pricingService := pricing.NewService(log)
	backtestService := backtest.NewService(log)

	srv := server.New(server.Config{
		Log:              log,
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
		PricingHandlers:  pricing.NewHandlers(pricingService, log),
		BacktestHandlers: backtest.NewHandlers(backtestService, store, log),
		HistoryHandlers:  history.NewHandlers(store, syncService, log),
	})

	// Nightly history refresh
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.SyncSchedule, scheduler.NewPriceSyncJob(syncService, cfg.SyncSymbols)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register price sync job")
	}
	sched.Start()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}

	log.Info().Msg("Shutdown complete")
}
