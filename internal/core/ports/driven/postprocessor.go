package driven

import (
	"context"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// PostProcessor processes document text to produce segments.
// PostProcessors are chained in a pipeline (e.g., chunking, cleaning).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns segments.
	// If the processor modifies segments (e.g., cleaning), it receives and returns segments.
	// If the processor creates segments (e.g., chunker), it receives nil and returns new ones.
	Process(ctx context.Context, doc *domain.Document, segments []domain.Segment) ([]domain.Segment, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final segments after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Segment, error)
}
