package domain

const unknownDescription = "Unknown"

// Provider identifies a text-generation backend.
type Provider string

// Available providers.
const (
	// ProviderOllama is a local Ollama instance.
	ProviderOllama Provider = "ollama"

	// ProviderOpenAI is the OpenAI cloud API.
	ProviderOpenAI Provider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOllama, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p Provider) RequiresAPIKey() bool {
	return p == ProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p Provider) IsLocal() bool {
	return p == ProviderOllama
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderOllama:
		return "Ollama (local)"
	case ProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingDimensions maps known embedding models to their vector size.
// The index schema and the embedding service must agree on this.
var EmbeddingDimensions = map[string]int{
	"nomic-embed-text":       768,
	"all-minilm":             384,
	"mxbai-embed-large":      1024,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Ingestion limits and chunking defaults.
const (
	// DefaultMaxFiles is the per-batch upload cap.
	DefaultMaxFiles = 5

	// DefaultMaxFileSizeMB is the per-file size cap in megabytes.
	DefaultMaxFileSizeMB = 50

	// DefaultChunkSize is the chunker target size in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the chunker overlap in characters.
	DefaultChunkOverlap = 200
)

// Retrieval policy defaults.
const (
	// DefaultRetrievalK is how many candidates to pull from the index.
	DefaultRetrievalK = 5

	// DefaultRelevanceThreshold filters out weak candidates.
	// Only hits with Relevance strictly above this survive.
	DefaultRelevanceThreshold = 0.1

	// DefaultContextSegments caps how many surviving segments are
	// assembled into the prompt context.
	DefaultContextSegments = 3

	// DefaultCompareSampleChunks is how many leading segments per
	// document the comparison strategy samples.
	DefaultCompareSampleChunks = 3
)

// PipelineConfig holds the document processing knobs.
type PipelineConfig struct {
	// ChunkSize is the target segment size in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between adjacent segments.
	ChunkOverlap int

	// MaxFiles is the per-batch upload cap.
	MaxFiles int

	// MaxFileSizeMB is the per-file size cap in megabytes.
	MaxFileSizeMB int
}

// DefaultPipelineConfig returns the standard processing configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ChunkSize:     DefaultChunkSize,
		ChunkOverlap:  DefaultChunkOverlap,
		MaxFiles:      DefaultMaxFiles,
		MaxFileSizeMB: DefaultMaxFileSizeMB,
	}
}

// RetrievalConfig holds the context retrieval knobs.
type RetrievalConfig struct {
	// K is how many candidates to pull from the index.
	K int

	// RelevanceThreshold filters weak candidates.
	RelevanceThreshold float64

	// ContextSegments caps how many segments reach the prompt.
	ContextSegments int

	// CompareSampleChunks is the per-document sample size for
	// comparisons.
	CompareSampleChunks int
}

// DefaultRetrievalConfig returns the standard retrieval policy.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		K:                   DefaultRetrievalK,
		RelevanceThreshold:  DefaultRelevanceThreshold,
		ContextSegments:     DefaultContextSegments,
		CompareSampleChunks: DefaultCompareSampleChunks,
	}
}
