package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/complyloop/extract-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duplicatedRecords() []domain.ExtractedRecord {
	return []domain.ExtractedRecord{
		{Title: "Reset password for Alice", Details: "portal locked", Priority: domain.PriorityMedium},
		{Title: "Please reset Alice's password", Details: "she is locked out", Priority: domain.PriorityMedium},
	}
}

func newTestConsolidator(t *testing.T, client ModelClient) *Consolidator {
	t.Helper()
	c, err := NewConsolidator(client, testLogger())
	require.NoError(t, err)
	return c
}

func TestConsolidateEmptyInputSkips(t *testing.T) {
	client := &scriptedClient{conv: &scriptedConversation{}}
	c := newTestConsolidator(t, client)

	out := c.Consolidate(context.Background(), nil, false, Hooks{})
	assert.Empty(t, out)
	assert.Zero(t, client.starts, "empty input must not open a conversation")
}

func TestConsolidateMergesDuplicates(t *testing.T) {
	conv := &scriptedConversation{replies: []turnReply{
		{text: `[{"title": "Reset password for Alice", "details": "portal locked; she is locked out", "priority": "Medium"}]`},
	}}
	c := newTestConsolidator(t, &scriptedClient{conv: conv})

	out := c.Consolidate(context.Background(), duplicatedRecords(), false, Hooks{})
	require.Len(t, out, 1)
	assert.Equal(t, "Reset password for Alice", out[0].Title)

	require.Len(t, conv.prompts, 1)
	assert.Contains(t, conv.prompts[0], "Reset password for Alice", "prompt embeds the serialized records")
}

func TestConsolidateTransportErrorKeepsOriginal(t *testing.T) {
	conv := &scriptedConversation{replies: []turnReply{
		{err: errors.New("deadline exceeded")},
	}}
	c := newTestConsolidator(t, &scriptedClient{conv: conv})

	in := duplicatedRecords()
	out := c.Consolidate(context.Background(), in, false, Hooks{})
	assert.Equal(t, in, out, "consolidation failure must fall back to the input list")
}

func TestConsolidateStartErrorKeepsOriginal(t *testing.T) {
	client := &scriptedClient{startErr: errors.New("auth failure")}
	c := newTestConsolidator(t, client)

	in := duplicatedRecords()
	out := c.Consolidate(context.Background(), in, false, Hooks{})
	assert.Equal(t, in, out)
}

func TestConsolidateUnparseableReplyKeepsOriginal(t *testing.T) {
	conv := &scriptedConversation{replies: []turnReply{
		{text: "I merged them for you! Much better now."},
	}}
	c := newTestConsolidator(t, &scriptedClient{conv: conv})

	in := duplicatedRecords()
	out := c.Consolidate(context.Background(), in, false, Hooks{})
	assert.Equal(t, in, out)
}

func TestConsolidateStreamingVariant(t *testing.T) {
	conv := &scriptedConversation{replies: []turnReply{
		{text: `[{"title": "merged", "details": ""}]`},
	}}
	c := newTestConsolidator(t, &scriptedClient{conv: conv})

	sink := &recordingSink{}
	out := c.Consolidate(context.Background(), duplicatedRecords(), false, Hooks{Sink: sink})
	require.Len(t, out, 1)

	assert.Contains(t, sink.markers, "optimizing 2 records")
	assert.NotEmpty(t, sink.chunks, "raw reply chunks are forwarded while still buffered for parsing")
}
