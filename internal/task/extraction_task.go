package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/extraction"
	"github.com/complyloop/extract-api/internal/jobstore"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrNilStore        = errors.New("job store cannot be nil")
	ErrNilExtractor    = errors.New("extractor cannot be nil")
	ErrNilConsolidator = errors.New("consolidator cannot be nil")
	ErrNilLogger       = errors.New("logger cannot be nil")
)

// Extractor runs the model conversation for one document and returns the
// recovered records.
type Extractor interface {
	Extract(
		ctx context.Context,
		doc domain.Document,
		opts domain.ExtractionOptions,
		hooks extraction.Hooks,
	) ([]domain.ExtractedRecord, error)
}

// RecordConsolidator merges and deduplicates an extracted record list.
// Implementations never fail: on any error they return the input unchanged.
type RecordConsolidator interface {
	Consolidate(
		ctx context.Context,
		records []domain.ExtractedRecord,
		advanced bool,
		hooks extraction.Hooks,
	) []domain.ExtractedRecord
}

// extractionPayload is the serialized data stored in the task. The job ID is
// carried for traceability only; the task claims whatever pending job is
// oldest when it runs.
type extractionPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// ExtractionTask implements the Task interface for processing one queued
// extraction job. Execute claims the oldest pending job from the store, runs
// the conversation pipeline, and transitions the job to its terminal status.
type ExtractionTask struct {
	id           uuid.UUID
	jobID        uuid.UUID
	store        jobstore.Store
	extractor    Extractor
	consolidator RecordConsolidator
	logger       *slog.Logger
	status       TaskStatus
}

// NewExtractionTask creates a task for the given submitted job.
func NewExtractionTask(
	jobID uuid.UUID,
	store jobstore.Store,
	extractor Extractor,
	consolidator RecordConsolidator,
	logger *slog.Logger,
) (*ExtractionTask, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if extractor == nil {
		return nil, ErrNilExtractor
	}
	if consolidator == nil {
		return nil, ErrNilConsolidator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if jobID == uuid.Nil {
		return nil, domain.ErrEmptyJobID
	}

	return &ExtractionTask{
		id:           uuid.New(),
		jobID:        jobID,
		store:        store,
		extractor:    extractor,
		consolidator: consolidator,
		logger:       logger.With("task_type", TaskTypeExtraction, "job_id", jobID),
		status:       TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ExtractionTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ExtractionTask) Type() string {
	return TaskTypeExtraction
}

// Payload returns the task data as a byte slice
func (t *ExtractionTask) Payload() []byte {
	data, err := json.Marshal(extractionPayload{JobID: t.jobID})
	if err != nil {
		return nil
	}
	return data
}

// Status returns the current task status
func (t *ExtractionTask) Status() TaskStatus {
	return t.status
}

// Execute claims and processes one pending job.
//
// Claiming goes through the store rather than trusting the payload's job ID:
// the store hands out the oldest pending job exactly once, so two workers can
// never process the same job even if duplicate events were emitted. A failed
// extraction marks the job failed and returns the error; consolidation
// problems never fail a job that extracted successfully.
func (t *ExtractionTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	job, err := t.store.ClaimNext(ctx)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to claim job: %w", err)
	}
	if job == nil {
		// Another worker already claimed it, or the TTL sweep removed it.
		t.logger.Warn("no pending job to claim")
		t.status = TaskStatusCompleted
		return nil
	}

	logger := t.logger.With("claimed_job_id", job.ID)
	hooks := extraction.Hooks{
		Progress: func(msg string) {
			if appendErr := t.store.AppendProgress(ctx, job.ID, msg); appendErr != nil {
				logger.Warn("failed to append progress", "error", appendErr)
			}
		},
	}

	records, err := t.extractor.Extract(ctx, job.Document, job.Options, hooks)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		if failErr := t.store.Fail(ctx, job.ID, err.Error()); failErr != nil {
			logger.Error("failed to mark job failed", "error", failErr)
		}
		t.status = TaskStatusFailed
		return err
	}

	records = t.consolidator.Consolidate(ctx, records, job.Options.UseAdvancedModel, hooks)

	if err := t.store.Complete(ctx, job.ID, records); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to complete job: %w", err)
	}

	logger.Info("extraction job finished", "records", len(records))
	t.status = TaskStatusCompleted
	return nil
}
