package api

import (
	"time"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/jobstore"
)

// Common request/response structures

// SubmitExtractionRequest defines the payload for the extraction submission
// endpoints. The document travels base64-encoded in JSON.
type SubmitExtractionRequest struct {
	Document   []byte   `json:"document"   validate:"required"`
	MediaType  string   `json:"media_type" validate:"required"`
	Assignees  []string `json:"assignees,omitempty"`
	Groups     []string `json:"groups,omitempty"`
	Categories []string `json:"categories,omitempty"`

	// UseAdvancedModel selects the higher-capability model tier with
	// schema-constrained output.
	UseAdvancedModel bool `json:"use_advanced_model,omitempty"`
}

// SubmitExtractionResponse defines the successful response for an accepted
// asynchronous submission.
type SubmitExtractionResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobStatusResponse defines the response for the job polling endpoint.
// Records are present only for completed jobs; Error only for failed ones.
type JobStatusResponse struct {
	ID             string                   `json:"id"`
	Status         string                   `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	ElapsedSeconds float64                  `json:"elapsed_seconds"`
	Progress       []string                 `json:"progress"`
	Records        []domain.ExtractedRecord `json:"records,omitempty"`
	Error          string                   `json:"error,omitempty"`
}

// snapshotToResponse converts a jobstore.Snapshot to a JobStatusResponse.
func snapshotToResponse(snap jobstore.Snapshot) JobStatusResponse {
	return JobStatusResponse{
		ID:             snap.ID.String(),
		Status:         string(snap.Status),
		CreatedAt:      snap.CreatedAt,
		ElapsedSeconds: snap.Elapsed.Seconds(),
		Progress:       snap.ProgressLog,
		Records:        snap.Records,
		Error:          snap.ErrorMessage,
	}
}
