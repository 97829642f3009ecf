package extraction

import (
	"context"

	"github.com/complyloop/extract-api/internal/domain"
)

// ConversationConfig selects the model tier and output mode for one
// conversation. The advanced tier may additionally request schema-constrained
// JSON output.
type ConversationConfig struct {
	// Advanced selects the higher-capability model tier.
	Advanced bool

	// Structured requests schema-constrained JSON output. Only honored on
	// the advanced tier.
	Structured bool

	// SystemInstruction frames every turn of the conversation.
	SystemInstruction string
}

// ModelClient opens conversations with the generative model. Implementations
// live under internal/platform and own transport details such as timeouts
// and per-turn retry.
type ModelClient interface {
	// StartConversation begins a new multi-turn exchange. The returned
	// conversation carries the full turn history; turns within it are
	// strictly sequential.
	StartConversation(ctx context.Context, cfg ConversationConfig) (Conversation, error)
}

// Conversation is one ordered exchange with the model. A document may be
// attached to the first turn only.
type Conversation interface {
	// Send issues one turn and blocks until the full reply text is
	// available.
	Send(ctx context.Context, prompt string, doc *domain.Document) (string, error)

	// SendStream issues one turn, forwarding reply chunks to sink as they
	// arrive, and returns the full buffered reply text. Sink write failures
	// must not abort the turn; the reply is always accumulated server-side.
	SendStream(ctx context.Context, prompt string, doc *domain.Document, sink StreamSink) (string, error)
}

// StreamSink receives live output during a streaming submission. The channel
// is one-directional; nothing written by the client can influence
// orchestration.
type StreamSink interface {
	// Chunk forwards a piece of raw model text.
	Chunk(text string) error

	// Marker forwards a synthetic phase marker (e.g. "requesting
	// continuation").
	Marker(text string) error
}
