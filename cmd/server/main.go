// Package main is the entry point for the investment tracker server.
// It tracks investment portfolios held in PLN and foreign currencies,
// values holdings against Yahoo Finance quotes and NBP exchange rates,
// and serves the journal and valuations over a JSON API.
//
// The application follows the same layering throughout:
// - Domain types carry no infrastructure dependencies
// - Dependency injection via DI container
// - Repository pattern for data access
// - Service layer for valuation logic
// - HTTP handlers for API endpoints
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/config"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/di"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/server"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/pkg/logger"
)

// main orchestrates startup and shutdown:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires all dependencies via DI container (databases, repositories, services, jobs)
// 4. Starts the HTTP server and the job scheduler
// 5. Waits for a shutdown signal and shuts down gracefully
//
// Two databases live in the data directory:
// - ledger.db: portfolios, assets, bond terms and the transaction journal
// - cache.db: quotes and exchange rates, all refetchable
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting investment tracker")

	// Wire all dependencies using DI container
	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Start scheduled jobs (price refresh, cache cleanup, database checks)
	container.Scheduler.Start()

	// Warm the quote cache once so the first cache-mode render has prices
	go func() {
		if err := container.Scheduler.Trigger(jobs.RefreshPrices.Name()); err != nil {
			log.Warn().Err(err).Msg("Initial price refresh failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Stop scheduler first so no job starts against closing databases
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
