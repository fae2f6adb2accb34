package driving

import (
	"context"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// IndexService embeds segments and serves similarity retrieval.
type IndexService interface {
	// AddSegments embeds and stores segments atomically. When any
	// embedding fails, nothing is written.
	AddSegments(ctx context.Context, segments []domain.Segment) error

	// Search embeds the query and returns the k nearest segments with
	// relevance scores, optionally restricted by exact metadata filters.
	Search(ctx context.Context, query string, k int, filters map[string]any) ([]domain.ScoredSegment, error)

	// SegmentsByFile returns every stored segment for a source file,
	// in chunk order.
	SegmentsByFile(ctx context.Context, filename string) ([]domain.ScoredSegment, error)

	// Clear removes all indexed segments.
	Clear(ctx context.Context) error

	// Stats reports the index state.
	Stats(ctx context.Context) domain.IndexStats

	// Available is true when both the store and the embedder are usable.
	Available() bool
}
