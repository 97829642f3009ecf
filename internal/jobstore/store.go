// Package jobstore holds the keyed, TTL-evicted registry of extraction jobs.
// Job state is process-local and ephemeral; the store is the only shared
// mutable resource in the pipeline, so all per-job field updates go through
// it and are serialized per entry.
package jobstore

import (
	"context"
	"errors"
	"time"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a job ID is unknown, either because it never
// existed or because the TTL sweep already removed it.
var ErrNotFound = errors.New("job not found")

// Snapshot is a read-only copy of a job's observable state, safe to hand to
// polling callers. Records are present only when the job completed and
// ErrorMessage only when it failed.
type Snapshot struct {
	ID           uuid.UUID
	Status       domain.JobStatus
	CreatedAt    time.Time
	Elapsed      time.Duration
	ProgressLog  []string
	Records      []domain.ExtractedRecord
	ErrorMessage string
}

// Store is the registry of extraction jobs. Implementations must make
// per-job updates linearizable with respect to each other and must never let
// a concurrent reader observe a torn update (e.g. status completed with
// records still unset).
type Store interface {
	// Put inserts a new pending job.
	Put(ctx context.Context, job *domain.Job) error

	// Snapshot returns a read-only copy of the job's current state.
	Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error)

	// ClaimNext atomically takes ownership of the oldest pending job,
	// transitioning it to processing. It returns nil when no pending job
	// exists. The returned copy is owned by the claiming worker; all further
	// state changes go through the store.
	ClaimNext(ctx context.Context) (*domain.Job, error)

	// AppendProgress appends one timestamped line to the job's progress
	// log. The log only grows until the job is deleted.
	AppendProgress(ctx context.Context, id uuid.UUID, msg string) error

	// Complete transitions the job to completed and attaches its records.
	Complete(ctx context.Context, id uuid.UUID, records []domain.ExtractedRecord) error

	// Fail transitions the job to failed and records the error message.
	Fail(ctx context.Context, id uuid.UUID, errMsg string) error

	// EvictExpired removes every job whose CreatedAt is older than ttl,
	// regardless of status, and reports how many were removed.
	EvictExpired(ctx context.Context, ttl time.Duration) int
}
