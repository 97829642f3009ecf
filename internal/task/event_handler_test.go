package task

import (
	"context"
	"testing"

	"github.com/complyloop/extract-api/internal/events"
	"github.com/complyloop/extract-api/internal/jobstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, queue TaskQueueWriter) *ExtractionEventHandler {
	t.Helper()
	factory, err := NewExtractionTaskFactory(
		jobstore.NewMemoryStore(testLogger()),
		&mockExtractor{},
		&mockConsolidator{},
		testLogger(),
	)
	require.NoError(t, err)
	return NewExtractionEventHandler(factory, queue, testLogger())
}

func TestHandleEventEnqueuesTask(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	handler := newTestHandler(t, queue)

	jobID := uuid.New()
	event, err := events.NewTaskRequestEvent(TaskTypeExtraction, map[string]string{
		"job_id": jobID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	select {
	case task := <-queue.GetChannel():
		assert.Equal(t, TaskTypeExtraction, task.Type())
		assert.Contains(t, string(task.Payload()), jobID.String())
	default:
		t.Fatal("expected a task on the queue")
	}
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	handler := newTestHandler(t, queue)

	event, err := events.NewTaskRequestEvent("report_generation", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Empty(t, queue.GetChannel())
}

func TestHandleEventRejectsBadJobID(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	handler := newTestHandler(t, queue)

	event, err := events.NewTaskRequestEvent(TaskTypeExtraction, map[string]string{
		"job_id": "not-a-uuid",
	})
	require.NoError(t, err)

	assert.Error(t, handler.HandleEvent(context.Background(), event))
}

func TestHandleEventFullQueue(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	handler := newTestHandler(t, queue)

	require.NoError(t, queue.Enqueue(newStubTask(nil)))

	event, err := events.NewTaskRequestEvent(TaskTypeExtraction, map[string]string{
		"job_id": uuid.New().String(),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, handler.HandleEvent(context.Background(), event), ErrQueueFull)
}
