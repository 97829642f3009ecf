// Package recovery turns raw, possibly-malformed model output into
// structured extraction records. It contains the completeness heuristic used
// by the conversation orchestrator to decide whether to request continuation,
// and the staged cascade of parsing strategies used once a conversation has
// finished.
//
// Everything in this package is a pure function with no shared state; it is
// safe to call concurrently across jobs without coordination.
package recovery
