package driven

import "context"

// VectorStore persists embeddings and serves similarity search.
// Backed by SQLite with brute-force distance scans; collections are
// independent namespaces within one database.
type VectorStore interface {
	// Add inserts entries atomically. Either every entry is stored or
	// none are.
	Add(ctx context.Context, entries []VectorEntry) error

	// Search finds the k nearest neighbours to the query vector,
	// ordered by ascending distance. Filters, when non-nil, restrict
	// candidates to entries whose metadata matches every key exactly.
	Search(ctx context.Context, query []float32, k int, filters map[string]any) ([]VectorHit, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Clear removes every entry in the collection.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorEntry is one stored embedding with its source text.
type VectorEntry struct {
	// ID is the unique entry identifier.
	ID string

	// Content is the original segment text.
	Content string

	// Embedding is the vector representation.
	Embedding []float32

	// Metadata carries provenance as flat key-value pairs.
	Metadata map[string]any
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ID is the matched entry.
	ID string

	// Content is the stored segment text.
	Content string

	// Metadata is the stored provenance.
	Metadata map[string]any

	// Distance is the squared L2 distance to the query (lower is closer).
	Distance float64
}
