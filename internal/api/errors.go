package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/complyloop/extract-api/internal/api/shared"
	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/extraction"
	"github.com/complyloop/extract-api/internal/service"
	"github.com/complyloop/extract-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrJobNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrEmptyDocument),
		errors.Is(err, domain.ErrDocumentTooLarge),
		errors.Is(err, domain.ErrUnsupportedMediaType),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Capacity errors: the bounded task queue rejected the submission
	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	// Model refused the content
	case errors.Is(err, extraction.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Upstream model unreachable
	case errors.Is(err, extraction.ErrTransport):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrJobNotFound):
		return "Job not found"

	case errors.Is(err, domain.ErrEmptyDocument):
		return "Document is required"

	case errors.Is(err, domain.ErrDocumentTooLarge):
		return "Document exceeds the size limit"

	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return "Unsupported document media type"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return "Service is at capacity, try again later"

	case errors.Is(err, extraction.ErrContentBlocked):
		return "Document was rejected by the model's safety filters"

	case errors.Is(err, extraction.ErrTransport):
		return "Model service is unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes a sanitized error response for the given error.
// When defaultMsg is non-empty it overrides the mapped safe message; the
// detailed error is only ever logged, never returned to the client.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := defaultMsg
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'SubmitExtractionRequest.MediaType' Error:Field validation for 'MediaType' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
