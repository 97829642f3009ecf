package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/complyloop/extract-api/internal/events"
	"github.com/google/uuid"
)

// ExtractionEventHandler implements the events.EventHandler interface,
// turning extraction request events into queued tasks.
type ExtractionEventHandler struct {
	factory *ExtractionTaskFactory
	queue   TaskQueueWriter
	logger  *slog.Logger
}

// NewExtractionEventHandler creates an event handler that builds tasks with
// the given factory and enqueues them for the worker pool.
func NewExtractionEventHandler(
	factory *ExtractionTaskFactory,
	queue TaskQueueWriter,
	logger *slog.Logger,
) *ExtractionEventHandler {
	return &ExtractionEventHandler{
		factory: factory,
		queue:   queue,
		logger:  logger.With("component", "extraction_event_handler"),
	}
}

// HandleEvent processes extraction request events by creating and enqueueing
// a task. Events of other types are ignored.
func (h *ExtractionEventHandler) HandleEvent(
	_ context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeExtraction {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		JobID string `json:"job_id"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		h.logger.Error("invalid job ID", "error", err, "job_id", payload.JobID, "event_id", event.ID)
		return fmt.Errorf("invalid job ID: %w", err)
	}

	task, err := h.factory.CreateTask(jobID)
	if err != nil {
		h.logger.Error("failed to create task", "error", err, "job_id", jobID, "event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.queue.Enqueue(task); err != nil {
		h.logger.Error("failed to enqueue task",
			"error", err,
			"task_id", task.ID(),
			"job_id", jobID,
			"event_id", event.ID)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	h.logger.Info("task created and enqueued",
		"task_id", task.ID(),
		"job_id", jobID,
		"event_id", event.ID)
	return nil
}

// Ensure ExtractionEventHandler implements events.EventHandler
var _ events.EventHandler = (*ExtractionEventHandler)(nil)
