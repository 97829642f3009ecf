package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/recovery"
)

// conversationState labels the orchestrator's position in the turn-taking
// state machine. It exists for logging and progress reporting; transitions
// are driven by the extraction loop itself.
type conversationState string

const (
	stateInit                 conversationState = "INIT"
	stateAwaitingInitial      conversationState = "AWAITING_INITIAL"
	stateAwaitingContinuation conversationState = "AWAITING_CONTINUATION"
	stateDone                 conversationState = "DONE"
	stateAborted              conversationState = "ABORTED"
)

// OrchestratorConfig holds tuning for the conversation orchestrator.
type OrchestratorConfig struct {
	// MaxContinuationRounds bounds how many explicit continuation turns are
	// issued when the completeness heuristic keeps reporting truncated
	// output.
	MaxContinuationRounds int

	// RequestReasoning adds an explain-your-reasoning turn on the advanced
	// tier. The reply is accumulated in the buffer but excluded from the
	// structured parse by the recovery cascade's JSON-focused scanning.
	RequestReasoning bool
}

// DefaultOrchestratorConfig returns an OrchestratorConfig with the observed
// defaults.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		MaxContinuationRounds: 2,
		RequestReasoning:      false,
	}
}

// Hooks carries the optional observers of one orchestrator invocation: a
// progress callback appended to the job's progress log and a stream sink for
// live forwarding. Either may be nil.
type Hooks struct {
	Progress func(msg string)
	Sink     StreamSink
}

func (h Hooks) progress(msg string) {
	if h.Progress != nil {
		h.Progress(msg)
	}
}

func (h Hooks) marker(msg string) {
	if h.Sink != nil {
		_ = h.Sink.Marker(msg)
	}
}

// Orchestrator drives the multi-turn extraction conversation for one job:
// first turn with the document attached, continuation turns while the
// completeness heuristic reports truncation, then the recovery cascade on
// the accumulated buffer.
type Orchestrator struct {
	client ModelClient
	config OrchestratorConfig
	logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator with the provided dependencies.
func NewOrchestrator(client ModelClient, config OrchestratorConfig, logger *slog.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: model client cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}
	if config.MaxContinuationRounds < 0 {
		return nil, fmt.Errorf("%w: continuation rounds cannot be negative", ErrInvalidConfig)
	}

	return &Orchestrator{
		client: client,
		config: config,
		logger: logger.With("component", "orchestrator"),
	}, nil
}

// Extract runs the full conversation for one document and returns the
// recovered records.
//
// Failure semantics: any transport or model error at any turn aborts the
// conversation and is returned wrapped in ErrTransport (sentinel model
// errors pass through unchanged). An exhausted continuation budget is not
// fatal; the pipeline proceeds to recovery with whatever text accumulated.
// Zero recovered records returns ErrNoRecords, which the caller must map to
// job failure.
func (o *Orchestrator) Extract(
	ctx context.Context,
	doc domain.Document,
	opts domain.ExtractionOptions,
	hooks Hooks,
) ([]domain.ExtractedRecord, error) {
	state := stateInit
	logger := o.logger.With("advanced_tier", opts.UseAdvancedModel)

	prompt, err := buildExtractionPrompt(opts)
	if err != nil {
		return nil, err
	}

	conv, err := o.client.StartConversation(ctx, ConversationConfig{
		Advanced:          opts.UseAdvancedModel,
		Structured:        opts.UseAdvancedModel,
		SystemInstruction: extractionSystemPrompt,
	})
	if err != nil {
		return nil, o.abort(logger, &state, err)
	}

	send := func(prompt string, doc *domain.Document) (string, error) {
		if hooks.Sink != nil {
			return conv.SendStream(ctx, prompt, doc, hooks.Sink)
		}
		return conv.Send(ctx, prompt, doc)
	}

	var buf strings.Builder

	state = stateAwaitingInitial
	hooks.progress("sending document to model")
	text, err := send(prompt, &doc)
	if err != nil {
		return nil, o.abort(logger, &state, err)
	}
	buf.WriteString(text)

	// Continuation loop: keep asking while the buffer looks truncated and
	// rounds remain.
	rounds := 0
	for !recovery.IsComplete(buf.String()) && rounds < o.config.MaxContinuationRounds {
		rounds++
		logger.Info("model output incomplete, requesting continuation",
			"state", state,
			"round", rounds,
			"buffer_len", buf.Len())
		hooks.progress(fmt.Sprintf("output incomplete, requesting continuation (round %d)", rounds))
		hooks.marker("requesting continuation")

		state = stateAwaitingContinuation
		text, err = send(continuationPrompt, nil)
		if err != nil {
			return nil, o.abort(logger, &state, err)
		}
		buf.WriteString(text)
	}

	// The lower tier gets one explicit wrap-up turn before giving up.
	if !recovery.IsComplete(buf.String()) && !opts.UseAdvancedModel && rounds > 0 {
		logger.Info("still incomplete after continuation, requesting wrap-up", "state", state)
		hooks.progress("requesting final wrap-up")
		hooks.marker("requesting wrap-up")

		text, err = send(wrapUpPrompt, nil)
		if err != nil {
			return nil, o.abort(logger, &state, err)
		}
		buf.WriteString(text)
	}

	if !recovery.IsComplete(buf.String()) {
		// Not fatal: proceed to recovery with whatever accumulated.
		logger.Warn("continuation budget exhausted, proceeding with accumulated output",
			"rounds", rounds,
			"buffer_len", buf.Len())
		hooks.progress("continuation budget exhausted, attempting recovery on partial output")
	}

	if opts.UseAdvancedModel && o.config.RequestReasoning {
		hooks.progress("requesting model reasoning")
		text, err = send(reasoningPrompt, nil)
		if err != nil {
			return nil, o.abort(logger, &state, err)
		}
		// Prose only; the JSON-focused recovery scan leaves it out of the
		// structured parse.
		buf.WriteString("\n")
		buf.WriteString(text)
	}

	state = stateDone
	records := recovery.Records(buf.String())
	if len(records) == 0 {
		logger.Error("recovery yielded no records", "buffer_len", buf.Len())
		return nil, ErrNoRecords
	}

	logger.Info("extraction conversation finished",
		"state", state,
		"records", len(records),
		"continuation_rounds", rounds)
	hooks.progress(fmt.Sprintf("extracted %d records", len(records)))
	return records, nil
}

// abort marks the conversation aborted and wraps the turn error. Sentinel
// model errors pass through so callers can distinguish them; everything else
// is a transport failure whose message is preserved verbatim.
func (o *Orchestrator) abort(logger *slog.Logger, state *conversationState, err error) error {
	logger.Error("conversation aborted", "state", *state, "error", err)
	*state = stateAborted

	if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidResponse) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
