package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/complyloop/extract-api/internal/api/shared"
	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/platform/logger"
	"github.com/complyloop/extract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ExtractionHandler handles extraction-related HTTP requests
type ExtractionHandler struct {
	extractionService service.ExtractionService
	validator         *validator.Validate
	logger            *slog.Logger
}

// NewExtractionHandler creates a new ExtractionHandler
func NewExtractionHandler(extractionService service.ExtractionService, logger *slog.Logger) *ExtractionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionHandler{
		extractionService: extractionService,
		validator:         validator.New(),
		logger:            logger.With("component", "extraction_handler"),
	}
}

// decodeSubmission parses and validates the shared submission payload.
// It writes the error response itself and reports whether decoding succeeded.
func (h *ExtractionHandler) decodeSubmission(
	w http.ResponseWriter,
	r *http.Request,
) (domain.Document, domain.ExtractionOptions, bool) {
	var req SubmitExtractionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return domain.Document{}, domain.ExtractionOptions{}, false
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return domain.Document{}, domain.ExtractionOptions{}, false
	}

	doc := domain.Document{
		Data:     req.Document,
		MIMEType: req.MediaType,
	}
	opts := domain.ExtractionOptions{
		Assignees:        req.Assignees,
		Groups:           req.Groups,
		Categories:       req.Categories,
		UseAdvancedModel: req.UseAdvancedModel,
	}
	return doc, opts, true
}

// SubmitExtraction handles POST /api/extractions requests.
// Accepted submissions return 202 immediately; processing happens in the
// background and is observed through the polling endpoint.
func (h *ExtractionHandler) SubmitExtraction(w http.ResponseWriter, r *http.Request) {
	doc, opts, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	job, err := h.extractionService.SubmitJob(r.Context(), doc, opts)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	response := SubmitExtractionResponse{
		JobID:  job.ID.String(),
		Status: string(job.Status),
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, response)
}

// GetExtraction handles GET /api/extractions/{id} requests.
func (h *ExtractionHandler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	snap, err := h.extractionService.GetJob(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// StreamExtraction handles POST /api/extractions/stream requests.
// The pipeline runs inline and the response body is a live text channel:
// raw model output interleaved with bracketed progress markers, then a
// fenced JSON block with the final records and a one-line summary. Closing
// the body is the completion signal; mid-stream failures surface as an
// inline error annotation before the close.
func (h *ExtractionHandler) StreamExtraction(w http.ResponseWriter, r *http.Request) {
	doc, opts, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	// Malformed input must fail fast with a real status code. Once the
	// stream opens the header is gone, so validate before committing to 200.
	if err := doc.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	flusher, flushable := w.(http.Flusher)
	if !flushable {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sink := newFlushingSink(w, flusher)

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	records, err := h.extractionService.ExtractSync(r.Context(), doc, opts, sink)
	if err != nil {
		log.Error("streaming extraction failed", "error", err)
		// Headers are gone; the error has to travel in-band.
		_ = sink.Marker(fmt.Sprintf("error: %s", err.Error()))
		return
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Error("failed to serialize final records", "error", err)
		_ = sink.Marker(fmt.Sprintf("error: %s", err.Error()))
		return
	}

	fmt.Fprintf(w, "\n```json\n%s\n```\n", payload)
	fmt.Fprintf(w, "Extracted %d records.\n", len(records))
	flusher.Flush()
}
