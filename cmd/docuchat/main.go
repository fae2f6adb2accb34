// Command docuchat is a terminal chat over local PDF documents.
// It wires the driven adapters into the core services and hands the
// result to the CLI adapter.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docuchat/docuchat-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/docuchat/docuchat-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docuchat/docuchat-cli/internal/adapters/driven/embedding/openai"
	"github.com/docuchat/docuchat-cli/internal/adapters/driven/index/sqlite"
	ollamallm "github.com/docuchat/docuchat-cli/internal/adapters/driven/provider/ollama"
	openaillm "github.com/docuchat/docuchat-cli/internal/adapters/driven/provider/openai"
	"github.com/docuchat/docuchat-cli/internal/adapters/driving/cli"
	"github.com/docuchat/docuchat-cli/internal/config"
	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/core/services"
	"github.com/docuchat/docuchat-cli/internal/logger"
	"github.com/docuchat/docuchat-cli/internal/normalisers/pdf"
	"github.com/docuchat/docuchat-cli/internal/postprocessors"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docuchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if cfg.Debug {
		logger.SetVerbose(true)
	}

	ctx := context.Background()

	// Ingestion pipeline. Processors are built through the registry so
	// the construction path is the same one user configuration takes.
	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	chunkerProc, err := processors.Build("chunker", map[string]any{
		"chunk_size": cfg.Pipeline.ChunkSize,
		"overlap":    cfg.Pipeline.ChunkOverlap,
	})
	if err != nil {
		return fmt.Errorf("building ingestion pipeline: %w", err)
	}
	pipeline := postprocessors.NewPipeline(chunkerProc)
	ingest := services.NewIngestService(pdf.New(), pipeline, cfg.Pipeline)

	// Vector index.
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()
	store, err := sqlite.NewStore(cfg.IndexPersistDir, cfg.IndexCollection)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer store.Close()
	index := services.NewIndexService(embedder, store, cfg.IndexCollection)

	// Generation providers. Ollama is always registered; OpenAI only
	// when a key is configured.
	providers := []driven.Provider{
		ollamallm.New(ollamallm.Config{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
		}),
	}
	var unconfigured []string
	if cfg.OpenAIAPIKey != "" {
		openaiProvider, err := openaillm.New(openaillm.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
		if err != nil {
			logger.Warn("openai provider disabled: %v", err)
			unconfigured = append(unconfigured, domain.ProviderOpenAI.String())
		} else {
			providers = append(providers, openaiProvider)
		}
	} else {
		unconfigured = append(unconfigured, domain.ProviderOpenAI.String())
	}

	registry := services.NewProviderManager(ctx, cfg.Provider.String(), providers...)
	for _, name := range unconfigured {
		registry.RegisterUnconfigured(name)
	}

	// Session orchestration.
	opts := []services.OrchestratorOption{services.WithRetrievalConfig(cfg.Retrieval)}
	prompts, err := file.NewPromptStore("")
	if err != nil {
		logger.Warn("prompt store unavailable, using built-in prompts: %v", err)
	} else {
		opts = append(opts, services.WithPromptStore(prompts))
	}
	conversation := services.NewOrchestrator(ingest, index, registry, opts...)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Conversation: conversation,
		Providers:    registry,
		Index:        index,
	})
	return cli.Execute()
}

// newEmbedder picks the embedding backend from the configured model
// name. OpenAI embedding models route to the OpenAI adapter and need
// an API key; everything else goes through Ollama.
func newEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	if strings.HasPrefix(cfg.EmbeddingsModel, "text-embedding-") {
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("embedding model %s requires OPENAI_API_KEY", cfg.EmbeddingsModel)
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.EmbeddingsModel,
			Dimensions: domain.EmbeddingDimensions[cfg.EmbeddingsModel],
		})
	}
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    cfg.OllamaBaseURL,
		Model:      cfg.EmbeddingsModel,
		Dimensions: domain.EmbeddingDimensions[cfg.EmbeddingsModel],
	}), nil
}
