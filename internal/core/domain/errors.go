package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPDF indicates the uploaded bytes are not a readable PDF.
	// The file is skipped; the rest of the batch continues.
	ErrInvalidPDF = errors.New("invalid PDF")

	// ErrNoExtractableText indicates a valid PDF yielded no text.
	// Scanned image-only PDFs typically trigger this.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrTooManyFiles indicates a batch exceeded the configured file limit.
	// The whole batch is rejected before any file is processed.
	ErrTooManyFiles = errors.New("too many files")

	// ErrFileTooLarge indicates a single upload exceeded the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrIndexUnavailable indicates the vector index is not configured
	// or failed to initialise. Index operations fail fast with this.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
