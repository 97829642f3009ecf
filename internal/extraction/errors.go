package extraction

import "errors"

// Common errors returned by the extraction package.
var (
	// ErrTransport is returned when the model call fails (network/auth/quota)
	// at any turn. The job is marked failed with the raw message captured
	// verbatim; the pipeline is not retried automatically.
	ErrTransport = errors.New("model transport error")

	// ErrNoRecords is returned when the recovery cascade yields zero records
	// from the final accumulated text. This is fatal for the job.
	ErrNoRecords = errors.New("no records extracted from model output")

	// ErrContentBlocked is returned when the model blocks the content due to
	// safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidResponse is returned when the model reply is structurally
	// unusable (no candidates, empty content).
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrInvalidConfig is returned when the orchestrator or model client
	// configuration is invalid.
	ErrInvalidConfig = errors.New("invalid extraction configuration")
)
