// Package service provides the application-level operations for submitting
// and observing document extraction jobs.
package service

import (
	"errors"
	"fmt"

	"github.com/complyloop/extract-api/internal/jobstore"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions that callers may want to check for with
// errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrJobNotFound indicates that the job does not exist, either because the
	// ID was never issued or because the TTL sweep already removed it.
	// API layer should map this to HTTP 404 Not Found.
	ErrJobNotFound = errors.New("job not found")
)

// ExtractionServiceError wraps errors from the extraction service with context.
type ExtractionServiceError struct {
	// Operation is the operation that failed (e.g., "submit_job", "get_job")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ExtractionServiceError.
func (e *ExtractionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("extraction service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ExtractionServiceError) Unwrap() error {
	return e.Err
}

// NewExtractionServiceError creates a new ExtractionServiceError.
// It returns known sentinel errors directly without wrapping.
func NewExtractionServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrJobNotFound) {
		return ErrJobNotFound
	}

	// Map store-level sentinels to service-level ones
	if errors.Is(err, jobstore.ErrNotFound) {
		return ErrJobNotFound
	}

	return &ExtractionServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
