package task

import (
	"log/slog"

	"github.com/complyloop/extract-api/internal/jobstore"
	"github.com/google/uuid"
)

// ExtractionTaskFactory creates ExtractionTasks with their shared
// dependencies already bound, so event handlers only need a job ID.
type ExtractionTaskFactory struct {
	store        jobstore.Store
	extractor    Extractor
	consolidator RecordConsolidator
	logger       *slog.Logger
}

// NewExtractionTaskFactory creates a new factory for extraction tasks.
func NewExtractionTaskFactory(
	store jobstore.Store,
	extractor Extractor,
	consolidator RecordConsolidator,
	logger *slog.Logger,
) (*ExtractionTaskFactory, error) {
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

	return &ExtractionTaskFactory{
		store:        store,
		extractor:    extractor,
		consolidator: consolidator,
		logger:       logger,
	}, nil
}

// CreateTask builds a task for the given job ID.
func (f *ExtractionTaskFactory) CreateTask(jobID uuid.UUID) (*ExtractionTask, error) {
	return NewExtractionTask(jobID, f.store, f.extractor, f.consolidator, f.logger)
}
