package task

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/extraction"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubTask is a minimal Task for queue and pool tests.
type stubTask struct {
	id      uuid.UUID
	execute func(ctx context.Context) error
	runs    atomic.Int32
}

func newStubTask(execute func(ctx context.Context) error) *stubTask {
	return &stubTask{id: uuid.New(), execute: execute}
}

func (t *stubTask) ID() uuid.UUID      { return t.id }
func (t *stubTask) Type() string       { return "stub" }
func (t *stubTask) Payload() []byte    { return nil }
func (t *stubTask) Status() TaskStatus { return TaskStatusPending }

func (t *stubTask) Execute(ctx context.Context) error {
	t.runs.Add(1)
	if t.execute != nil {
		return t.execute(ctx)
	}
	return nil
}

// mockExtractor returns canned records or an error and remembers the
// document it was handed.
type mockExtractor struct {
	records  []domain.ExtractedRecord
	err      error
	progress []string
	lastDoc  domain.Document
	calls    int
}

func (m *mockExtractor) Extract(
	_ context.Context,
	doc domain.Document,
	_ domain.ExtractionOptions,
	hooks extraction.Hooks,
) ([]domain.ExtractedRecord, error) {
	m.calls++
	m.lastDoc = doc
	for _, msg := range m.progress {
		hooks.Progress(msg)
	}
	return m.records, m.err
}

// mockConsolidator optionally replaces the record list; with replace nil it
// behaves like the real consolidator falling back to its input.
type mockConsolidator struct {
	replace []domain.ExtractedRecord
	calls   int
}

func (m *mockConsolidator) Consolidate(
	_ context.Context,
	records []domain.ExtractedRecord,
	_ bool,
	_ extraction.Hooks,
) []domain.ExtractedRecord {
	m.calls++
	if m.replace != nil {
		return m.replace
	}
	return records
}
