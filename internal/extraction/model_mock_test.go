package extraction

import (
	"context"
	"sync"

	"github.com/complyloop/extract-api/internal/domain"
)

// turnReply scripts one model turn for tests.
type turnReply struct {
	text string
	err  error
}

// scriptedConversation replays canned replies and records every prompt and
// document it receives.
type scriptedConversation struct {
	mu      sync.Mutex
	replies []turnReply
	prompts []string
	docs    []*domain.Document
}

func (c *scriptedConversation) Send(_ context.Context, prompt string, doc *domain.Document) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	c.docs = append(c.docs, doc)
	if len(c.replies) == 0 {
		return "", nil
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply.text, reply.err
}

func (c *scriptedConversation) SendStream(
	ctx context.Context,
	prompt string,
	doc *domain.Document,
	sink StreamSink,
) (string, error) {
	text, err := c.Send(ctx, prompt, doc)
	if err == nil && sink != nil {
		_ = sink.Chunk(text)
	}
	return text, err
}

// scriptedClient hands out a single scripted conversation.
type scriptedClient struct {
	conv     *scriptedConversation
	startErr error
	starts   int
}

func (c *scriptedClient) StartConversation(_ context.Context, _ ConversationConfig) (Conversation, error) {
	c.starts++
	if c.startErr != nil {
		return nil, c.startErr
	}
	return c.conv, nil
}

// recordingSink captures chunks and markers written during streaming.
type recordingSink struct {
	mu      sync.Mutex
	chunks  []string
	markers []string
}

func (s *recordingSink) Chunk(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, text)
	return nil
}

func (s *recordingSink) Marker(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append(s.markers, text)
	return nil
}
