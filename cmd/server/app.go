package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/complyloop/extract-api/internal/config"
	"github.com/complyloop/extract-api/internal/events"
	"github.com/complyloop/extract-api/internal/extraction"
	"github.com/complyloop/extract-api/internal/jobstore"
	"github.com/complyloop/extract-api/internal/platform/gemini"
	"github.com/complyloop/extract-api/internal/service"
	"github.com/complyloop/extract-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger

	// Job state
	store   *jobstore.MemoryStore
	sweeper *jobstore.Sweeper

	// Extraction pipeline
	modelClient  *gemini.Client
	orchestrator *extraction.Orchestrator
	consolidator *extraction.Consolidator

	// Service layer
	extractionService service.ExtractionService

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
}

// newApplication creates a new application instance with all dependencies
// initialized: the in-memory job store and its TTL sweeper, the Gemini-backed
// extraction pipeline, the background task machinery, and the service layer
// that ties them together.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Job store and TTL sweeper
	app.store = jobstore.NewMemoryStore(logger)

	var err error
	app.sweeper, err = jobstore.NewSweeper(
		app.store,
		time.Duration(cfg.Jobs.TTLMinutes)*time.Minute,
		cfg.Jobs.SweepSchedule,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job sweeper: %w", err)
	}
	app.sweeper.Start()

	// Gemini model client
	app.modelClient, err = gemini.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}
	logger.Info("Model client initialized",
		"standard_model", cfg.LLM.StandardModel,
		"advanced_model", cfg.LLM.AdvancedModel)

	// Extraction pipeline
	app.orchestrator, err = extraction.NewOrchestrator(app.modelClient, extraction.OrchestratorConfig{
		MaxContinuationRounds: cfg.LLM.ContinuationRounds,
		RequestReasoning:      cfg.LLM.RequestReasoning,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	app.consolidator, err = extraction.NewConsolidator(app.modelClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create consolidator: %w", err)
	}

	// Background task machinery
	app.taskQueue = task.NewTaskQueue(cfg.Jobs.QueueSize, logger)

	taskFactory, err := task.NewExtractionTaskFactory(
		app.store,
		app.orchestrator,
		app.consolidator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task factory: %w", err)
	}

	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Jobs.WorkerCount,
	}, logger)
	app.workerPool.SetErrorHandler(func(t task.Task, err error) {
		logger.Error("extraction task failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
	})
	app.workerPool.Start()

	// Event system: submissions emit events, the handler turns them into
	// queued tasks.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewExtractionEventHandler(taskFactory, app.taskQueue, logger))
	app.eventEmitter = emitter

	// Service layer
	app.extractionService, err = service.NewExtractionService(
		app.store,
		app.eventEmitter,
		app.orchestrator,
		app.consolidator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. Closing the
// queue stops new submissions; Stop then cancels the pool context, which
// aborts any in-flight model conversation and marks its job failed. Shutdown
// is bounded, not drained — jobs are ephemeral and the client re-submits.
func (app *application) cleanup() {
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}
	if app.workerPool != nil {
		app.workerPool.Stop()
	}
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	app.logger.Info("Application shutdown completed")
}
