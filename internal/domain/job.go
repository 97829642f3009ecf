package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of an extraction job.
type JobStatus string

// Possible job status values.
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ExtractionOptions carries the candidate context embedded in the extraction
// prompt plus the model-tier selection.
type ExtractionOptions struct {
	Assignees        []string `json:"assignees,omitempty"`
	Groups           []string `json:"groups,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	UseAdvancedModel bool     `json:"use_advanced_model,omitempty"`
}

// Job represents one asynchronous extraction request and its tracked
// lifecycle. A job is created pending at submission, claimed and mutated by
// exactly one background worker, read by polling callers, and deleted by the
// TTL sweep regardless of status.
type Job struct {
	ID           uuid.UUID
	Status       JobStatus
	Document     Document
	Options      ExtractionOptions
	Records      []ExtractedRecord
	ErrorMessage string
	ProgressLog  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewJob creates a pending Job for the given document and options.
// It validates the document and returns an error if the submission is
// malformed.
func NewJob(doc Document, opts ExtractionOptions) (*Job, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New(),
		Status:    JobStatusPending,
		Document:  doc,
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateStatus transitions the job to the given status, enforcing the
// pending → processing → completed|failed lifecycle. Terminal states accept
// no further transitions.
func (j *Job) UpdateStatus(status JobStatus) error {
	if !isValidJobStatus(status) {
		return ErrInvalidJobStatus
	}

	allowed := false
	switch j.Status {
	case JobStatusPending:
		allowed = status == JobStatusProcessing || status == JobStatusFailed
	case JobStatusProcessing:
		allowed = status == JobStatusCompleted || status == JobStatusFailed
	}
	if !allowed {
		return ErrInvalidStatusTransition
	}

	j.Status = status
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}
