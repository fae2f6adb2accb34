// Package config loads application configuration from the environment.
// A .env file in the working directory is honoured when present, so
// local setups don't need to export anything.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Config is the full application configuration.
type Config struct {
	// Provider is the preferred generation backend at startup.
	Provider domain.Provider

	// OpenAIAPIKey enables the OpenAI provider when set.
	OpenAIAPIKey string

	// OpenAIModel overrides the OpenAI chat model.
	OpenAIModel string

	// OllamaBaseURL overrides the local Ollama endpoint.
	OllamaBaseURL string

	// OllamaModel overrides the Ollama generation model.
	OllamaModel string

	// EmbeddingsModel is the embedding model name.
	EmbeddingsModel string

	// IndexPersistDir is where the vector database lives.
	IndexPersistDir string

	// IndexCollection is the vector collection name.
	IndexCollection string

	// Pipeline holds the ingestion knobs.
	Pipeline domain.PipelineConfig

	// Retrieval holds the context retrieval knobs.
	Retrieval domain.RetrievalConfig

	// Debug enables verbose pipeline logging.
	Debug bool
}

// Load reads the configuration from the environment, applying defaults
// for everything unset. A missing .env file is not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env: %v", err)
	}

	cfg := Config{
		Provider:        domain.ProviderOllama,
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		OllamaBaseURL:   os.Getenv("OLLAMA_BASE_URL"),
		OllamaModel:     os.Getenv("OLLAMA_MODEL"),
		EmbeddingsModel: getEnv("EMBEDDINGS_MODEL", "nomic-embed-text"),
		IndexPersistDir: os.Getenv("INDEX_PERSIST_DIR"),
		IndexCollection: getEnv("INDEX_COLLECTION", "pdf_documents"),
		Pipeline:        domain.DefaultPipelineConfig(),
		Retrieval:       domain.DefaultRetrievalConfig(),
		Debug:           getBool("DEBUG", false),
	}

	if p := domain.Provider(os.Getenv("DOCUCHAT_PROVIDER")); p.IsValid() {
		cfg.Provider = p
	}

	cfg.Pipeline.ChunkSize = getInt("CHUNK_SIZE", cfg.Pipeline.ChunkSize)
	cfg.Pipeline.ChunkOverlap = getInt("CHUNK_OVERLAP", cfg.Pipeline.ChunkOverlap)
	cfg.Pipeline.MaxFiles = getInt("MAX_PDF_FILES", cfg.Pipeline.MaxFiles)
	cfg.Pipeline.MaxFileSizeMB = getInt("MAX_FILE_SIZE_MB", cfg.Pipeline.MaxFileSizeMB)
	cfg.Retrieval.CompareSampleChunks = getInt("COMPARE_SAMPLE_CHUNKS", cfg.Retrieval.CompareSampleChunks)

	return cfg
}

// getEnv returns the variable's value, or fallback when unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt parses an integer variable, keeping fallback on absence or
// parse failure. Non-positive values are rejected.
func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logger.Warn("ignoring %s=%q: not a positive integer", key, v)
		return fallback
	}
	return n
}

// getBool parses a boolean variable, keeping fallback on absence or
// parse failure.
func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
