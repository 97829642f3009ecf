// Package main implements the entry point for the extraction API server,
// which turns uploaded documents into structured action-item records via
// LLM-backed extraction jobs.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/complyloop/extract-api/internal/config"
	"github.com/complyloop/extract-api/internal/platform/logger"
	"github.com/joho/godotenv"
)

// main initializes configuration, logging, and the application dependency
// graph, then runs the HTTP server until a shutdown signal arrives.
func main() {
	// Load .env if present; real environments configure via env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
// Returns the loaded config, the configured logger, and any error.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"worker_count", cfg.Jobs.WorkerCount,
		"job_ttl_minutes", cfg.Jobs.TTLMinutes)

	return cfg, appLogger, nil
}
