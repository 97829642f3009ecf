package jobstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is the in-process Store implementation. A single mutex
// serializes writes to all entries and every read hands out deep copies, so
// pollers can never observe a half-applied update.
type MemoryStore struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]*domain.Job
	logger *slog.Logger
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		jobs:   make(map[uuid.UUID]*domain.Job),
		logger: logger.With("component", "jobstore"),
	}
}

// Put inserts a new pending job. The store takes its own copy; the caller's
// instance is not tracked afterwards.
func (s *MemoryStore) Put(_ context.Context, job *domain.Job) error {
	if job == nil || job.ID == uuid.Nil {
		return domain.ErrEmptyJobID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	s.jobs[job.ID] = cloneJob(job)

	s.logger.Debug("job stored", "job_id", job.ID, "status", job.Status)
	return nil
}

// Snapshot returns a read-only copy of the job's observable state.
func (s *MemoryStore) Snapshot(_ context.Context, id uuid.UUID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	snap := Snapshot{
		ID:          job.ID,
		Status:      job.Status,
		CreatedAt:   job.CreatedAt,
		Elapsed:     time.Since(job.CreatedAt),
		ProgressLog: append([]string(nil), job.ProgressLog...),
	}
	switch job.Status {
	case domain.JobStatusCompleted:
		snap.Records = append([]domain.ExtractedRecord(nil), job.Records...)
	case domain.JobStatusFailed:
		snap.ErrorMessage = job.ErrorMessage
	}
	return snap, nil
}

// ClaimNext atomically claims the oldest pending job for processing.
func (s *MemoryStore) ClaimNext(_ context.Context) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest *domain.Job
	for _, job := range s.jobs {
		if job.Status != domain.JobStatusPending {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = job
		}
	}
	if oldest == nil {
		return nil, nil
	}

	if err := oldest.UpdateStatus(domain.JobStatusProcessing); err != nil {
		return nil, err
	}
	s.logger.Debug("job claimed", "job_id", oldest.ID)
	return cloneJob(oldest), nil
}

// AppendProgress appends one timestamped line to the job's progress log.
func (s *MemoryStore) AppendProgress(_ context.Context, id uuid.UUID, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	line := fmt.Sprintf("%s %s", time.Now().UTC().Format(time.RFC3339), msg)
	job.ProgressLog = append(job.ProgressLog, line)
	return nil
}

// Complete transitions the job to completed and attaches its records in the
// same critical section, so status and records always change together.
func (s *MemoryStore) Complete(_ context.Context, id uuid.UUID, records []domain.ExtractedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if err := job.UpdateStatus(domain.JobStatusCompleted); err != nil {
		return err
	}
	job.Records = append([]domain.ExtractedRecord(nil), records...)

	s.logger.Info("job completed", "job_id", id, "records", len(records))
	return nil
}

// Fail transitions the job to failed and records the error message.
func (s *MemoryStore) Fail(_ context.Context, id uuid.UUID, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if err := job.UpdateStatus(domain.JobStatusFailed); err != nil {
		return err
	}
	job.ErrorMessage = errMsg

	s.logger.Info("job failed", "job_id", id, "error", errMsg)
	return nil
}

// EvictExpired removes every job older than ttl, regardless of status.
func (s *MemoryStore) EvictExpired(_ context.Context, ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("evicted expired jobs", "count", removed, "ttl", ttl)
	}
	return removed
}

// Len reports how many jobs are currently tracked.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// cloneJob deep-copies a job so store internals never escape.
func cloneJob(job *domain.Job) *domain.Job {
	clone := *job
	clone.Document.Data = append([]byte(nil), job.Document.Data...)
	clone.Records = append([]domain.ExtractedRecord(nil), job.Records...)
	clone.ProgressLog = append([]string(nil), job.ProgressLog...)
	clone.Options.Assignees = append([]string(nil), job.Options.Assignees...)
	clone.Options.Groups = append([]string(nil), job.Options.Groups...)
	clone.Options.Categories = append([]string(nil), job.Options.Categories...)
	return &clone
}
