package driven

import (
	"context"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// DocumentProcessor turns raw PDF uploads into documents.
// Validation, metadata extraction and text extraction are separate
// operations so callers can report failures per stage.
type DocumentProcessor interface {
	// Validate reports whether the bytes are a readable PDF.
	Validate(content []byte) bool

	// ExtractMetadata reads the PDF information dictionary.
	// It never fails: unreadable fields fall back to defaults and the
	// content hash is always computed.
	ExtractMetadata(content []byte, filename string) domain.DocumentMetadata

	// ExtractText pulls the full text from the PDF.
	// Returns domain.ErrNoExtractableText when the PDF parses but
	// yields no text.
	ExtractText(ctx context.Context, content []byte) (string, error)
}
