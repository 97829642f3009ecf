// Package extraction drives the multi-turn exchange with the generative
// model that turns an uploaded document into structured records. It owns the
// conversation orchestrator, the consolidation pass, and the interfaces the
// model transport must satisfy, serving as the boundary between the
// application core and the external LLM service.
package extraction
