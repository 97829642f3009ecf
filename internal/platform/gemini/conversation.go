package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/complyloop/extract-api/internal/extraction"
	"google.golang.org/genai"
)

// conversation is one ordered exchange with a fixed model and generation
// config. Turns are strictly sequential; the full history travels with
// every request because the Gemini API is stateless across calls.
type conversation struct {
	client  *Client
	model   string
	genCfg  *genai.GenerateContentConfig
	history []*genai.Content
	logger  *slog.Logger
}

// Send issues one turn and blocks until the full reply text is available.
// Transient API failures are retried with exponential backoff and jitter;
// safety blocks and structurally empty replies are permanent and returned
// immediately.
func (c *conversation) Send(ctx context.Context, prompt string, doc *domain.Document) (string, error) {
	contents := c.withUserTurn(prompt, doc)

	resp, err := c.generateWithRetry(ctx, contents)
	if err != nil {
		return "", err
	}

	text, err := replyText(resp)
	if err != nil {
		return "", err
	}

	c.commitTurn(contents, text)
	return text, nil
}

// SendStream issues one turn, forwarding reply chunks to sink as they
// arrive. The reply is always accumulated server-side; sink write failures
// are logged and ignored so a slow client cannot abort the turn. Streaming
// turns are not retried: by the time a failure surfaces, partial output may
// already have reached the client.
func (c *conversation) SendStream(
	ctx context.Context,
	prompt string,
	doc *domain.Document,
	sink extraction.StreamSink,
) (string, error) {
	contents := c.withUserTurn(prompt, doc)

	var buf strings.Builder
	for resp, err := range c.client.genai.Models.GenerateContentStream(ctx, c.model, contents, c.genCfg) {
		if err != nil {
			return "", err
		}
		if blocked(resp) {
			return "", fmt.Errorf("%w: content blocked by safety filters", extraction.ErrContentBlocked)
		}

		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		buf.WriteString(chunk)

		if sink != nil {
			if sinkErr := sink.Chunk(chunk); sinkErr != nil {
				c.logger.Warn("stream sink write failed, continuing", "error", sinkErr)
				sink = nil
			}
		}
	}

	if buf.Len() == 0 {
		return "", fmt.Errorf("%w: no content generated", extraction.ErrInvalidResponse)
	}

	text := buf.String()
	c.commitTurn(contents, text)
	return text, nil
}

// withUserTurn returns the history plus a new user turn. The document, when
// present, rides along as an inline blob; the orchestrator only attaches it
// on the first turn.
func (c *conversation) withUserTurn(prompt string, doc *domain.Document) []*genai.Content {
	parts := []*genai.Part{{Text: prompt}}
	if doc != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     doc.Data,
				MIMEType: doc.MIMEType,
			},
		})
	}

	contents := make([]*genai.Content, len(c.history), len(c.history)+1)
	copy(contents, c.history)
	return append(contents, &genai.Content{Role: "user", Parts: parts})
}

// commitTurn records the user turn and the model's reply in the history.
func (c *conversation) commitTurn(contents []*genai.Content, reply string) {
	c.history = append(contents, &genai.Content{
		Role:  "model",
		Parts: []*genai.Part{{Text: reply}},
	})
}

// generateWithRetry calls the Gemini API with exponential backoff retry
// logic. Up to MaxRetries additional attempts are made for transient errors;
// permanent failures (safety blocks, empty replies) return immediately.
func (c *conversation) generateWithRetry(
	ctx context.Context,
	contents []*genai.Content,
) (*genai.GenerateContentResponse, error) {
	maxRetries := c.client.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelaySeconds := c.client.cfg.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		c.logger.Debug("calling model", "attempt", attempt+1, "max_attempts", maxRetries+1)

		resp, err := c.client.genai.Models.GenerateContent(ctx, c.model, contents, c.genCfg)
		if err == nil {
			if blocked(resp) {
				return nil, fmt.Errorf("%w: content blocked by safety filters", extraction.ErrContentBlocked)
			}
			return resp, nil
		}
		lastErr = err

		c.logger.Warn("model call failed",
			"attempt", attempt+1,
			"error", err)

		if attempt >= maxRetries {
			break
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("model call cancelled during retry delay: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("model call failed after %d attempts: %w", maxRetries+1, lastErr)
}

// blocked reports whether the response was cut off by safety filters.
func blocked(resp *genai.GenerateContentResponse) bool {
	return resp != nil &&
		len(resp.Candidates) > 0 &&
		resp.Candidates[0].FinishReason == genai.FinishReasonSafety
}

// replyText extracts the concatenated text of the first candidate.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", extraction.ErrInvalidResponse)
	}
	if resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty content in response", extraction.ErrInvalidResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty reply text", extraction.ErrInvalidResponse)
	}
	return text, nil
}
