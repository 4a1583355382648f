// Command api is the EcoPilot backend server.
//
// Usage:
//
//	ecopilot-api
//	API_PORT=8080 STORE_BACKEND=memory ecopilot-api

// @title EcoPilot Backend API
// @version 1.0.0
// @description Daily eco challenges and tips, milestone detection and push notification delivery for the EcoPilot mobile app.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @contact.name EcoPilot
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecopilot/ecopilot-backend/internal/api"
	"github.com/ecopilot/ecopilot-backend/internal/app"
	"github.com/ecopilot/ecopilot-backend/internal/config"
	"github.com/ecopilot/ecopilot-backend/internal/listener"
	"github.com/ecopilot/ecopilot-backend/internal/scheduler"

	_ "github.com/ecopilot/ecopilot-backend/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()
	logger.Info("Store ready", "backend", cfg.StoreBackend)

	// Postgres change feed for user milestones
	if cfg.StoreBackend == config.BackendPostgres {
		go listener.Start(ctx, cfg.DatabaseURL, a.Pipeline, logger)
		logger.Info("User change listener started")
	}

	// Daily jobs
	if cfg.SchedulerEnabled {
		s, err := scheduler.New(scheduler.Tasks(a.Runner, cfg.ReminderTimezone), logger)
		if err != nil {
			logger.Error("Failed to build scheduler", "error", err)
			os.Exit(1)
		}
		go s.Start(ctx)
		logger.Info("Scheduler started",
			"entries", s.Entries(),
			"reminder_tz", cfg.ReminderTimezone.String())
	} else {
		logger.Info("Scheduler disabled (SCHEDULER_ENABLED=false)")
	}

	// Create router
	router := api.NewRouter(a)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting EcoPilot backend",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			cancel()
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
