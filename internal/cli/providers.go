package cli

import (
	"fmt"

	"vaultsearch/config"
	"vaultsearch/internal/adapter/embedding"
	"vaultsearch/internal/port"
)

// buildEmbedder creates the configured embedding provider.
func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// buildCrossEncoder creates the configured reranking provider.
func buildCrossEncoder(cfg *config.Config) (port.CrossEncoder, error) {
	switch cfg.Rerank.Provider {
	case "cohere":
		return embedding.NewCohereCrossEncoder(cfg.Rerank.APIKeyEnv, cfg.Rerank.Model)
	case "mock":
		return embedding.NewMockCrossEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported rerank provider: %s", cfg.Rerank.Provider)
	}
}
