package services

import (
	"context"
	"fmt"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockProcessor implements driven.DocumentProcessor.
// The zero value accepts everything and extracts the raw content as text.
type mockProcessor struct {
	validateFn func(content []byte) bool
	textFn     func(content []byte) (string, error)
	metadata   domain.DocumentMetadata
}

func (m *mockProcessor) Validate(content []byte) bool {
	if m.validateFn != nil {
		return m.validateFn(content)
	}
	return true
}

func (m *mockProcessor) ExtractMetadata(_ []byte, filename string) domain.DocumentMetadata {
	md := m.metadata
	md.Filename = filename
	if md.Title == "" {
		md.Title = filename
	}
	if md.Author == "" {
		md.Author = "Unknown"
	}
	return md
}

func (m *mockProcessor) ExtractText(_ context.Context, content []byte) (string, error) {
	if m.textFn != nil {
		return m.textFn(content)
	}
	return string(content), nil
}

// mockPipeline implements driven.PostProcessorPipeline by emitting one
// segment holding the whole document text.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Segment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Segment{{
		ID:      doc.Filename + "-0",
		Content: doc.Text,
		Metadata: domain.SegmentMetadata{
			DocumentMetadata: doc.Metadata,
			SourceFile:       doc.Filename,
			ChunkIndex:       0,
			TotalChunks:      1,
		},
	}}, nil
}

// mockEmbedder implements driven.EmbeddingService.
type mockEmbedder struct {
	dims     int
	embedErr error
	batchErr error
	short    bool // return one embedding fewer than requested
	empty    bool // return zero-length embeddings
}

func (m *mockEmbedder) vector() []float32 {
	if m.empty {
		return nil
	}
	v := make([]float32, m.dims)
	for i := range v {
		v[i] = 0.1
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	n := len(texts)
	if m.short && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = m.vector()
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dims }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockStore implements driven.VectorStore. Add appends to entries;
// Search returns the preconfigured hits and records its arguments.
type mockStore struct {
	entries []driven.VectorEntry
	hits    []driven.VectorHit

	addErr    error
	searchErr error
	countErr  error
	clearErr  error

	lastK       int
	lastFilters map[string]any
}

func (m *mockStore) Add(_ context.Context, entries []driven.VectorEntry) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockStore) Search(_ context.Context, _ []float32, k int, filters map[string]any) ([]driven.VectorHit, error) {
	m.lastK = k
	m.lastFilters = filters
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockStore) Count(_ context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.entries), nil
}

func (m *mockStore) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.entries = nil
	return nil
}

func (m *mockStore) Close() error { return nil }

// mockProvider implements driven.Provider and records what it was
// asked to generate.
type mockProvider struct {
	name     string
	max      int
	response string
	pingErr  error
	genErr   error

	calls       int
	lastPrompt  string
	lastContext string
}

func (m *mockProvider) Generate(_ context.Context, prompt, docContext string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastContext = docContext
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.response, nil
}

func (m *mockProvider) Name() string         { return m.name }
func (m *mockProvider) MaxContextChars() int { return m.max }

func (m *mockProvider) Ping(_ context.Context) error { return m.pingErr }
func (m *mockProvider) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore over a plain map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("prompt %q not found", name)
}

func (m *mockPromptStore) Reload() {}
