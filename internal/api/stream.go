package api

import (
	"fmt"
	"io"
	"net/http"
	"sync"
)

// flushingSink adapts an HTTP response writer to the streaming sink consumed
// by the conversation pipeline. Raw model text is forwarded as-is; synthetic
// phase markers are framed as bracketed lines so clients can tell them apart
// from model output. Every write is flushed immediately.
type flushingSink struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
}

func newFlushingSink(w io.Writer, flusher http.Flusher) *flushingSink {
	return &flushingSink{w: w, flusher: flusher}
}

// Chunk forwards one fragment of raw model text.
func (s *flushingSink) Chunk(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, text); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Marker writes one synthetic progress marker on its own line.
func (s *flushingSink) Marker(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "\n[%s]\n", msg); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
