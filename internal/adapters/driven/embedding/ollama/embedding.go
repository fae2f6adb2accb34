// Package ollama embeds document segments through a local Ollama
// instance. Vector dimensions are resolved from the model name and
// re-negotiated against what the model actually returns, so the index
// schema and the embedder never drift apart.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

// Config holds the Ollama embedding settings.
type Config struct {
	// BaseURL is the Ollama endpoint (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model (default: nomic-embed-text).
	Model string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// Dimensions overrides the vector size. When zero it is looked up
	// from the known-model table and corrected from live responses.
	Dimensions int
}

// EmbeddingService generates segment embeddings via Ollama.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	model      string
	dimensions int
}

type embeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewEmbeddingService creates the Ollama embedding adapter.
// Unknown models start from the default model's dimensions and are
// corrected after the first embedding comes back.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		if known, ok := domain.EmbeddingDimensions[cfg.Model]; ok {
			cfg.Dimensions = known
		} else {
			cfg.Dimensions = domain.EmbeddingDimensions[DefaultModel]
			logger.Warn("embedding model %s has no known dimension, assuming %d until the first response",
				cfg.Model, cfg.Dimensions)
		}
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates the vector for one segment text.
// A response whose size disagrees with the expected dimension is
// adopted as the new dimension, since the model is the authority.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingsRequest{Model: s.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("encoding embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama embeddings: status %d: %s", resp.StatusCode, detail)
	}

	var decoded embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(decoded.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embeddings: model %s returned an empty vector", s.model)
	}

	vector := make([]float32, len(decoded.Embedding))
	for i, v := range decoded.Embedding {
		vector[i] = float32(v)
	}

	if len(vector) != s.dimensions {
		logger.Warn("embedding model %s returns %d dimensions, expected %d; adopting %d",
			s.model, len(vector), s.dimensions, len(vector))
		s.dimensions = len(vector)
	}
	return vector, nil
}

// EmbedBatch embeds segment texts one by one; the Ollama embeddings
// endpoint has no batch form.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding segment %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	logger.Debug("embedded %d segment(s) with %s", len(texts), s.model)
	return vectors, nil
}

// Dimensions returns the current vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the embedding model name.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks reachability against the tags endpoint, which answers
// without loading a model.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama embeddings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama embeddings: status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources. The shared HTTP client needs none.
func (s *EmbeddingService) Close() error {
	return nil
}
