package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/complyloop/extract-api/internal/config"
	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-api-key",
		StandardModel:     "gemini-2.0-flash",
		AdvancedModel:     "gemini-2.5-pro",
		MaxRetries:        3,
		RetryDelaySeconds: 2,
	}
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects nil logger", func(t *testing.T) {
		_, err := NewClient(ctx, validLLMConfig(), nil)
		assert.ErrorIs(t, err, extraction.ErrInvalidConfig)
	})

	t.Run("rejects empty API key", func(t *testing.T) {
		cfg := validLLMConfig()
		cfg.GeminiAPIKey = ""
		_, err := NewClient(ctx, cfg, testLogger())
		assert.ErrorIs(t, err, extraction.ErrInvalidConfig)
	})

	t.Run("rejects empty standard model", func(t *testing.T) {
		cfg := validLLMConfig()
		cfg.StandardModel = ""
		_, err := NewClient(ctx, cfg, testLogger())
		assert.ErrorIs(t, err, extraction.ErrInvalidConfig)
	})

	t.Run("rejects empty advanced model", func(t *testing.T) {
		cfg := validLLMConfig()
		cfg.AdvancedModel = ""
		_, err := NewClient(ctx, cfg, testLogger())
		assert.ErrorIs(t, err, extraction.ErrInvalidConfig)
	})

	t.Run("accepts a valid config", func(t *testing.T) {
		client, err := NewClient(ctx, validLLMConfig(), testLogger())
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestStartConversationTierSelection(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, validLLMConfig(), testLogger())
	require.NoError(t, err)

	t.Run("standard tier uses the standard model without a schema", func(t *testing.T) {
		conv, err := client.StartConversation(ctx, extraction.ConversationConfig{})
		require.NoError(t, err)

		impl, ok := conv.(*conversation)
		require.True(t, ok)
		assert.Equal(t, "gemini-2.0-flash", impl.model)
		assert.Nil(t, impl.genCfg.ResponseSchema)
	})

	t.Run("advanced structured tier constrains the output schema", func(t *testing.T) {
		conv, err := client.StartConversation(ctx, extraction.ConversationConfig{
			Advanced:   true,
			Structured: true,
		})
		require.NoError(t, err)

		impl, ok := conv.(*conversation)
		require.True(t, ok)
		assert.Equal(t, "gemini-2.5-pro", impl.model)
		assert.Equal(t, "application/json", impl.genCfg.ResponseMIMEType)
		assert.NotNil(t, impl.genCfg.ResponseSchema)
	})

	t.Run("structured flag alone does not constrain the standard tier", func(t *testing.T) {
		conv, err := client.StartConversation(ctx, extraction.ConversationConfig{Structured: true})
		require.NoError(t, err)

		impl, ok := conv.(*conversation)
		require.True(t, ok)
		assert.Nil(t, impl.genCfg.ResponseSchema)
	})

	t.Run("system instruction is applied", func(t *testing.T) {
		conv, err := client.StartConversation(ctx, extraction.ConversationConfig{
			SystemInstruction: "you extract tasks",
		})
		require.NoError(t, err)

		impl, ok := conv.(*conversation)
		require.True(t, ok)
		require.NotNil(t, impl.genCfg.SystemInstruction)
		require.Len(t, impl.genCfg.SystemInstruction.Parts, 1)
		assert.Equal(t, "you extract tasks", impl.genCfg.SystemInstruction.Parts[0].Text)
	})
}

func TestWithUserTurnAttachesDocumentOnce(t *testing.T) {
	conv := &conversation{logger: testLogger()}

	doc := &domain.Document{Data: []byte("%PDF-1.4"), MIMEType: "application/pdf"}
	contents := conv.withUserTurn("extract tasks", doc)
	require.Len(t, contents, 1)
	require.Len(t, contents[0].Parts, 2)
	assert.Equal(t, "extract tasks", contents[0].Parts[0].Text)
	require.NotNil(t, contents[0].Parts[1].InlineData)
	assert.Equal(t, "application/pdf", contents[0].Parts[1].InlineData.MIMEType)

	// Later turns carry history but no new attachment.
	conv.commitTurn(contents, `{"tasks": []}`)
	next := conv.withUserTurn("continue", nil)
	require.Len(t, next, 3)
	assert.Equal(t, "model", next[1].Role)
	require.Len(t, next[2].Parts, 1)
}
