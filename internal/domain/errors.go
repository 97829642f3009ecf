package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyDocument is returned when a submission carries no document bytes.
	ErrEmptyDocument = errors.New("document cannot be empty")

	// ErrDocumentTooLarge is returned when a document exceeds the size cap.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")

	// ErrUnsupportedMediaType is returned when a document's media type is not
	// one of the accepted extraction inputs.
	ErrUnsupportedMediaType = errors.New("unsupported document media type")

	// ErrEmptyJobID is returned when a job ID is missing.
	ErrEmptyJobID = errors.New("job ID cannot be empty")

	// ErrInvalidJobStatus is returned when a job status is not valid.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrInvalidStatusTransition is returned when a job status change is not
	// allowed from the current status.
	ErrInvalidStatusTransition = errors.New("invalid job status transition")
)
