package domain

import "fmt"

// MaxDocumentSize is the upper bound for uploaded document payloads.
const MaxDocumentSize = 10 << 20 // 10 MiB

// acceptedMediaTypes lists the document media types the extraction pipeline
// knows how to hand to the model.
var acceptedMediaTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
	"text/markdown":   true,
}

// Document is the opaque uploaded payload attached to the first model turn.
type Document struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// Validate checks the document is present, under the size cap, and of an
// accepted media type. Submission fails fast on any of these.
func (d Document) Validate() error {
	if len(d.Data) == 0 {
		return ErrEmptyDocument
	}
	if len(d.Data) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, len(d.Data), MaxDocumentSize)
	}
	if !acceptedMediaTypes[d.MIMEType] {
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, d.MIMEType)
	}
	return nil
}
