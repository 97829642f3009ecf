package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/complyloop/extract-api/internal/config"
	"github.com/complyloop/extract-api/internal/extraction"
	"google.golang.org/genai"
)

// Client implements extraction.ModelClient using the Gemini API.
type Client struct {
	genai  *genai.Client
	cfg    config.LLMConfig
	logger *slog.Logger
}

// NewClient creates a Gemini-backed model client.
//
// Parameters:
//   - ctx: Context for initialization, which may include timeouts or cancellation
//   - cfg: LLM configuration containing the API key, model names, and retry settings
//   - logger: A structured logger for operation logging
//
// Returns:
//   - A properly initialized Client or an error if initialization fails
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", extraction.ErrInvalidConfig)
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", extraction.ErrInvalidConfig)
	}
	if cfg.StandardModel == "" {
		return nil, fmt.Errorf("%w: standard model name cannot be empty", extraction.ErrInvalidConfig)
	}
	if cfg.AdvancedModel == "" {
		return nil, fmt.Errorf("%w: advanced model name cannot be empty", extraction.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", extraction.ErrInvalidConfig, err)
	}

	return &Client{
		genai:  client,
		cfg:    cfg,
		logger: logger.With("component", "gemini_client"),
	}, nil
}

// StartConversation begins a new multi-turn exchange. The model tier and
// output mode are fixed for the conversation's lifetime.
func (c *Client) StartConversation(
	_ context.Context,
	convCfg extraction.ConversationConfig,
) (extraction.Conversation, error) {
	model := c.cfg.StandardModel
	if convCfg.Advanced {
		model = c.cfg.AdvancedModel
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}
	if convCfg.SystemInstruction != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: convCfg.SystemInstruction}},
		}
	}
	// Schema-constrained output is an advanced-tier capability.
	if convCfg.Advanced && convCfg.Structured {
		genCfg.ResponseMIMEType = "application/json"
		genCfg.ResponseSchema = recordListSchema
	}

	c.logger.Debug("starting conversation",
		"model", model,
		"structured", genCfg.ResponseSchema != nil)

	return &conversation{
		client: c,
		model:  model,
		genCfg: genCfg,
		logger: c.logger.With("model", model),
	}, nil
}

// Ensure Client implements extraction.ModelClient
var _ extraction.ModelClient = (*Client)(nil)
