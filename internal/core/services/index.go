package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driving"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService composes the embedding service and the vector store
// into one retrieval surface. Every operation fails fast with
// ErrIndexUnavailable when either half is missing.
type IndexService struct {
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	collection string
}

// NewIndexService creates a new index service.
func NewIndexService(embedder driven.EmbeddingService, store driven.VectorStore, collection string) *IndexService {
	return &IndexService{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Available is true when both the store and the embedder are usable.
func (s *IndexService) Available() bool {
	return s.embedder != nil && s.store != nil
}

// AddSegments embeds and stores segments atomically. When any
// embedding fails, nothing is written.
func (s *IndexService) AddSegments(ctx context.Context, segments []domain.Segment) error {
	if !s.Available() {
		return domain.ErrIndexUnavailable
	}
	if len(segments) == 0 {
		return nil
	}

	logger.Section("Indexing")
	logger.Debug("embedding %d segments with %s", len(segments), s.embedder.ModelName())

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed segments: %w", err)
	}
	if len(embeddings) != len(segments) {
		return fmt.Errorf("embed segments: got %d embeddings for %d segments",
			len(embeddings), len(segments))
	}

	entries := make([]driven.VectorEntry, len(segments))
	for i, seg := range segments {
		if len(embeddings[i]) == 0 {
			return fmt.Errorf("embed segments: empty embedding for segment %s", seg.ID)
		}
		entries[i] = driven.VectorEntry{
			ID:        seg.ID,
			Content:   seg.Content,
			Embedding: embeddings[i],
			Metadata:  segmentMetadata(seg),
		}
	}

	if err := s.store.Add(ctx, entries); err != nil {
		return fmt.Errorf("store segments: %w", err)
	}

	logger.Debug("indexed %d segments", len(entries))
	return nil
}

// Search embeds the query and returns the k nearest segments with
// relevance scores, optionally restricted by exact metadata filters.
func (s *IndexService) Search(ctx context.Context, query string, k int, filters map[string]any) ([]domain.ScoredSegment, error) {
	if !s.Available() {
		return nil, domain.ErrIndexUnavailable
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, vector, k, filters)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	scored := make([]domain.ScoredSegment, len(hits))
	for i, hit := range hits {
		scored[i] = domain.ScoredSegment{
			Content:   hit.Content,
			Metadata:  hit.Metadata,
			Distance:  hit.Distance,
			Relevance: relevanceScore(hit.Distance),
		}
	}
	return scored, nil
}

// SegmentsByFile returns every stored segment of a source file.
// The zero vector ranks nothing meaningfully, so results come back in
// stored chunk order via the metadata filter alone.
func (s *IndexService) SegmentsByFile(ctx context.Context, filename string) ([]domain.ScoredSegment, error) {
	if !s.Available() {
		return nil, domain.ErrIndexUnavailable
	}

	// A zero query vector with an unbounded k turns the scan into a
	// pure metadata fetch.
	zero := make([]float32, s.embedder.Dimensions())
	hits, err := s.store.Search(ctx, zero, math.MaxInt, map[string]any{"source_file": filename})
	if err != nil {
		return nil, fmt.Errorf("fetch segments for %s: %w", filename, err)
	}

	scored := make([]domain.ScoredSegment, len(hits))
	for i, hit := range hits {
		scored[i] = domain.ScoredSegment{
			Content:  hit.Content,
			Metadata: hit.Metadata,
			Distance: hit.Distance,
		}
	}
	sortByChunkIndex(scored)
	return scored, nil
}

// Clear removes all indexed segments.
func (s *IndexService) Clear(ctx context.Context) error {
	if !s.Available() {
		return domain.ErrIndexUnavailable
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

// Stats reports the index state. Failures degrade to a zero count
// rather than erroring, since Stats feeds status displays.
func (s *IndexService) Stats(ctx context.Context) domain.IndexStats {
	stats := domain.IndexStats{
		Collection: s.collection,
		Available:  s.Available(),
	}
	if !stats.Available {
		return stats
	}

	stats.Model = s.embedder.ModelName()
	count, err := s.store.Count(ctx)
	if err != nil {
		logger.Warn("index count failed: %v", err)
		return stats
	}
	stats.Count = count
	return stats
}

// relevanceScore converts a distance into a score in (0, 1].
// Identical vectors score 1; the score decays towards 0 with distance
// and never goes negative.
func relevanceScore(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	score := 1 / (1 + distance)
	if score < 0 {
		return 0
	}
	return score
}

// segmentMetadata flattens a segment's provenance for storage.
func segmentMetadata(seg domain.Segment) map[string]any {
	m := seg.Metadata
	return map[string]any{
		"source_file":  m.SourceFile,
		"chunk_index":  m.ChunkIndex,
		"total_chunks": m.TotalChunks,
		"title":        m.Title,
		"author":       m.Author,
		"page_count":   m.PageCount,
		"file_hash":    m.FileHash,
	}
}

// sortByChunkIndex orders segments by their stored chunk index.
func sortByChunkIndex(segments []domain.ScoredSegment) {
	sort.Slice(segments, func(i, j int) bool {
		return chunkIndex(segments[i]) < chunkIndex(segments[j])
	})
}

// chunkIndex reads the stored chunk index, tolerating the float64
// representation JSON decoding produces.
func chunkIndex(seg domain.ScoredSegment) int {
	switch v := seg.Metadata["chunk_index"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
