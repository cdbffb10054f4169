package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"vaultsearch/config"
	"vaultsearch/internal/domain"
)

// ComputeConfigHash hashes the index-relevant configuration. A stored build
// whose hash differs from the current config is stale and must be rebuilt.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		Stemming       bool    `json:"stemming"`
		ChunkSize      int     `json:"chunk_size"`
		ChunkOverlap   int     `json:"chunk_overlap"`
		ChunkThreshold int     `json:"chunk_threshold"`
		K1             float64 `json:"k1"`
		B              float64 `json:"b"`
		EmbProvider    string  `json:"emb_provider"`
		EmbModel       string  `json:"emb_model"`
	}{
		Stemming:       cfg.Index.Stemming,
		ChunkSize:      cfg.Index.ChunkSize,
		ChunkOverlap:   cfg.Index.ChunkOverlap,
		ChunkThreshold: cfg.Index.ChunkThreshold,
		K1:             cfg.Index.K1,
		B:              cfg.Index.B,
		EmbProvider:    cfg.Embedding.Provider,
		EmbModel:       cfg.Embedding.Model,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// NeedsRebuild reports whether the stored build is unusable with the current
// configuration and embedding model, with a human-readable reason.
func NeedsRebuild(manifest domain.Manifest, cfg *config.Config, modelID string) (bool, string) {
	if manifest.ModelID != modelID {
		return true, fmt.Sprintf("index built with model %q, configured model is %q", manifest.ModelID, modelID)
	}
	if hash := ComputeConfigHash(cfg); manifest.ConfigHash != hash {
		return true, "index configuration changed"
	}
	return false, ""
}
