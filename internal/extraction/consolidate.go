package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/recovery"
)

// Consolidator runs the optional second model pass that deduplicates and
// merges near-duplicate records. It is always best-effort: on any failure at
// any stage it returns the original input unchanged, so this pass can never
// cause a job to fail.
type Consolidator struct {
	client ModelClient
	logger *slog.Logger
}

// NewConsolidator creates a Consolidator with the provided dependencies.
func NewConsolidator(client ModelClient, logger *slog.Logger) (*Consolidator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: model client cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}

	return &Consolidator{
		client: client,
		logger: logger.With("component", "consolidator"),
	}, nil
}

// Consolidate sends the record list to the model for deduplication and
// merging, then applies the array-restricted recovery subset to the reply.
// An empty input skips the pass entirely. The advanced flag selects the same
// model tier the job was extracted with.
func (c *Consolidator) Consolidate(
	ctx context.Context,
	records []domain.ExtractedRecord,
	advanced bool,
	hooks Hooks,
) []domain.ExtractedRecord {
	if len(records) == 0 {
		return records
	}

	serialized, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("failed to serialize records for consolidation, keeping original list", "error", err)
		return records
	}

	hooks.progress(fmt.Sprintf("optimizing %d records", len(records)))
	hooks.marker(fmt.Sprintf("optimizing %d records", len(records)))

	conv, err := c.client.StartConversation(ctx, ConversationConfig{
		Advanced:          advanced,
		SystemInstruction: consolidationSystemPrompt,
	})
	if err != nil {
		c.logger.Warn("consolidation conversation failed to start, keeping original list", "error", err)
		return records
	}

	prompt := buildConsolidationPrompt(serialized)
	var reply string
	if hooks.Sink != nil {
		reply, err = conv.SendStream(ctx, prompt, nil, hooks.Sink)
	} else {
		reply, err = conv.Send(ctx, prompt, nil)
	}
	if err != nil {
		c.logger.Warn("consolidation turn failed, keeping original list", "error", err)
		hooks.progress("consolidation failed, keeping original records")
		return records
	}

	merged := recovery.RecordArray(reply)
	if len(merged) == 0 {
		c.logger.Warn("consolidation reply unparseable or empty, keeping original list",
			"reply_len", len(reply))
		hooks.progress("consolidation reply unusable, keeping original records")
		return records
	}

	c.logger.Info("consolidation finished", "before", len(records), "after", len(merged))
	hooks.progress(fmt.Sprintf("consolidated %d records into %d", len(records), len(merged)))
	return merged
}
