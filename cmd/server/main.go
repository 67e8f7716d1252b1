// Package main is the entry point for the risk parity portal server.
// The server exposes the portfolio risk engine over a small JSON API and
// serves the embedded single-page frontend that visualizes traditional
// versus risk-parity allocation.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/riskparity/internal/config"
	"github.com/aristath/riskparity/internal/modules/frontier"
	"github.com/aristath/riskparity/internal/modules/portfolio"
	"github.com/aristath/riskparity/internal/modules/scenarios"
	"github.com/aristath/riskparity/internal/server"
	"github.com/aristath/riskparity/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting risk parity portal")

	// Wire services. Everything is in-memory and stateless; there is nothing
	// to migrate or connect to.
	portfolioService := portfolio.NewService(log)
	frontierService := frontier.NewService(log)
	scenarioCatalog := scenarios.NewCatalog(portfolioService)

	srv := server.New(server.Config{
		Log:              log,
		Config:           cfg,
		PortfolioService: portfolioService,
		FrontierService:  frontierService,
		ScenarioCatalog:  scenarioCatalog,
		DevMode:          cfg.DevMode,
	})

	// Start HTTP server
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
		os.Exit(1)
	}

	log.Info().Msg("Server stopped")
}
