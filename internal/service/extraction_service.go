package service

import (
	"context"
	"log/slog"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/events"
	"github.com/complyloop/extract-api/internal/extraction"
	"github.com/complyloop/extract-api/internal/jobstore"
	"github.com/complyloop/extract-api/internal/task"
	"github.com/google/uuid"
)

// Extractor runs the model conversation for one document.
type Extractor interface {
	Extract(
		ctx context.Context,
		doc domain.Document,
		opts domain.ExtractionOptions,
		hooks extraction.Hooks,
	) ([]domain.ExtractedRecord, error)
}

// RecordConsolidator merges and deduplicates an extracted record list,
// returning the input unchanged when the pass cannot improve it.
type RecordConsolidator interface {
	Consolidate(
		ctx context.Context,
		records []domain.ExtractedRecord,
		advanced bool,
		hooks extraction.Hooks,
	) []domain.ExtractedRecord
}

// ExtractionService provides document extraction operations: asynchronous
// job submission with polling, and a synchronous streaming variant.
type ExtractionService interface {
	// SubmitJob validates the document, registers a pending job, and emits
	// the event that queues it for background processing.
	SubmitJob(
		ctx context.Context,
		doc domain.Document,
		opts domain.ExtractionOptions,
	) (*domain.Job, error)

	// GetJob returns a read-only snapshot of the job's current state.
	GetJob(ctx context.Context, id uuid.UUID) (jobstore.Snapshot, error)

	// ExtractSync runs the full pipeline inline, forwarding model output to
	// the sink as it arrives. No job is registered; the caller holds the
	// connection open for the duration.
	ExtractSync(
		ctx context.Context,
		doc domain.Document,
		opts domain.ExtractionOptions,
		sink extraction.StreamSink,
	) ([]domain.ExtractedRecord, error)
}

// extractionServiceImpl implements the ExtractionService interface
type extractionServiceImpl struct {
	store        jobstore.Store
	eventEmitter events.EventEmitter
	extractor    Extractor
	consolidator RecordConsolidator
	logger       *slog.Logger
}

// NewExtractionService creates a new ExtractionService.
// It returns an error if any of the required dependencies are nil.
func NewExtractionService(
	store jobstore.Store,
	eventEmitter events.EventEmitter,
	extractor Extractor,
	consolidator RecordConsolidator,
	logger *slog.Logger,
) (ExtractionService, error) {
	if store == nil {
		return nil, &ExtractionServiceError{
			Operation: "create_service",
			Message:   "store cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &ExtractionServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}
	if extractor == nil {
		return nil, &ExtractionServiceError{
			Operation: "create_service",
			Message:   "extractor cannot be nil",
		}
	}
	if consolidator == nil {
		return nil, &ExtractionServiceError{
			Operation: "create_service",
			Message:   "consolidator cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &extractionServiceImpl{
		store:        store,
		eventEmitter: eventEmitter,
		extractor:    extractor,
		consolidator: consolidator,
		logger:       logger.With("component", "extraction_service"),
	}, nil
}

// SubmitJob registers a pending job and emits the event that queues it for
// background processing. Validation errors surface unwrapped so the API
// layer can map them to 4xx responses.
func (s *extractionServiceImpl) SubmitJob(
	ctx context.Context,
	doc domain.Document,
	opts domain.ExtractionOptions,
) (*domain.Job, error) {
	job, err := domain.NewJob(doc, opts)
	if err != nil {
		s.logger.Warn("job submission rejected", "error", err)
		return nil, err
	}

	if err := s.store.Put(ctx, job); err != nil {
		s.logger.Error("failed to store job", "error", err, "job_id", job.ID)
		return nil, NewExtractionServiceError("submit_job", "failed to store job", err)
	}

	s.logger.Info("job accepted",
		"job_id", job.ID,
		"document_bytes", len(doc.Data),
		"media_type", doc.MIMEType,
		"advanced_tier", opts.UseAdvancedModel)

	payload := struct {
		JobID uuid.UUID `json:"job_id"`
	}{
		JobID: job.ID,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeExtraction, payload)
	if err != nil {
		s.logger.Error("failed to create extraction event", "error", err, "job_id", job.ID)
		return nil, NewExtractionServiceError("submit_job", "failed to create event", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit extraction event",
			"error", err,
			"job_id", job.ID,
			"event_id", event.ID)
		// The job can never be queued now; fail it so it does not sit
		// pending and get claimed out of order by a later submission's task.
		if failErr := s.store.Fail(ctx, job.ID, "submission could not be queued"); failErr != nil {
			s.logger.Error("failed to mark unqueued job failed", "error", failErr, "job_id", job.ID)
		}
		return nil, NewExtractionServiceError("submit_job", "failed to emit event", err)
	}

	s.logger.Debug("extraction event emitted", "job_id", job.ID, "event_id", event.ID)
	return job, nil
}

// GetJob returns a snapshot of the job's observable state.
func (s *extractionServiceImpl) GetJob(ctx context.Context, id uuid.UUID) (jobstore.Snapshot, error) {
	snap, err := s.store.Snapshot(ctx, id)
	if err != nil {
		return jobstore.Snapshot{}, NewExtractionServiceError("get_job", "failed to load job", err)
	}
	return snap, nil
}

// ExtractSync runs the extraction pipeline inline for streaming callers.
// The document never enters the job store: the connection itself is the
// delivery channel, so there is nothing for a poller to find afterwards.
func (s *extractionServiceImpl) ExtractSync(
	ctx context.Context,
	doc domain.Document,
	opts domain.ExtractionOptions,
	sink extraction.StreamSink,
) ([]domain.ExtractedRecord, error) {
	if err := doc.Validate(); err != nil {
		s.logger.Warn("streaming extraction rejected", "error", err)
		return nil, err
	}

	hooks := extraction.Hooks{Sink: sink}

	records, err := s.extractor.Extract(ctx, doc, opts, hooks)
	if err != nil {
		s.logger.Error("streaming extraction failed", "error", err)
		return nil, err
	}

	records = s.consolidator.Consolidate(ctx, records, opts.UseAdvancedModel, hooks)

	s.logger.Info("streaming extraction finished", "records", len(records))
	return records, nil
}
