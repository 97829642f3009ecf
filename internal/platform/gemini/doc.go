// Package gemini implements the extraction model client on top of Google's
// Gemini API. It owns transport details: conversation history, per-turn
// retry with exponential backoff, streaming delivery, and the mapping of
// API failure modes onto the extraction package's sentinel errors.
package gemini
