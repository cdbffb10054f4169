package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"vaultsearch/internal/domain"
)

// Config holds all configuration for vaultsearch.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Boost     BoostConfig     `yaml:"boost"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Rerank    RerankConfig    `yaml:"rerank"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IndexConfig holds indexing and chunking configuration.
type IndexConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Stemming bool     `yaml:"stemming"`
	// ChunkSize is the window width in characters; Overlap is how many
	// characters consecutive windows share. Documents at or below
	// ChunkThreshold are indexed as a single chunk.
	ChunkSize      int `yaml:"chunk_size"`
	ChunkOverlap   int `yaml:"chunk_overlap"`
	ChunkThreshold int `yaml:"chunk_threshold"`
	Workers        int `yaml:"workers"`
	K1             float64 `yaml:"k1"`
	B              float64 `yaml:"b"`
}

// RetrieveConfig holds query-time configuration.
type RetrieveConfig struct {
	TopK       int     `yaml:"top_k"`
	CandidateK int     `yaml:"candidate_k"` // per-index candidate pool size
	RRFK       int     `yaml:"rrf_k"`       // RRF smoothing constant
	RerankTopK int     `yaml:"rerank_top_k"`
	MinScore   float64 `yaml:"min_score"` // filter results below this final score (0 = disabled)
	CacheSize  int     `yaml:"cache_size"`
	CacheTTL   int     `yaml:"cache_ttl_seconds"`
}

// BoostConfig holds recency and tag boost configuration. These are tuning
// inputs, not constants; the defaults below are starting points.
type BoostConfig struct {
	HalfLifeDays float64 `yaml:"half_life_days"` // age at which the time boost halves
	TimeFloor    float64 `yaml:"time_floor"`     // minimum time multiplier, never zero
	TagWeight    float64 `yaml:"tag_weight"`     // additive bonus per matching tag
}

// EmbeddingConfig holds embedding model configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "openai", "ollama", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// RerankConfig holds cross-encoder configuration.
type RerankConfig struct {
	Provider    string `yaml:"provider"` // "cohere", "mock"
	Model       string `yaml:"model"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Concurrency int    `yaml:"concurrency"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Includes:       []string{"**/*.md", "**/*.txt", "**/*.org"},
			Excludes:       []string{"**/.git/**", "**/.vaultsearch/**", "**/node_modules/**"},
			Stemming:       true,
			ChunkSize:      2000,
			ChunkOverlap:   400,
			ChunkThreshold: 4000,
			Workers:        4,
			K1:             1.2,
			B:              0.75,
		},
		Retrieve: RetrieveConfig{
			TopK:       10,
			CandidateK: 100,
			RRFK:       60,
			RerankTopK: 50,
			MinScore:   0,
			CacheSize:  64,
			CacheTTL:   300,
		},
		Boost: BoostConfig{
			HalfLifeDays: 90,
			TimeFloor:    0.2,
			TagWeight:    0.05,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Rerank: RerankConfig{
			Provider:    "cohere",
			Model:       "rerank-english-v3.0",
			APIKeyEnv:   "COHERE_API_KEY",
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the parameters the pipeline depends on for termination and
// correctness. It runs before any indexing or query work begins.
func (c *Config) Validate() error {
	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", domain.ErrConfig, c.Index.ChunkSize)
	}
	if c.Index.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk_overlap must not be negative, got %d", domain.ErrConfig, c.Index.ChunkOverlap)
	}
	if c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap (%d) must be smaller than chunk_size (%d)",
			domain.ErrConfig, c.Index.ChunkOverlap, c.Index.ChunkSize)
	}
	if c.Index.ChunkThreshold <= c.Index.ChunkSize {
		return fmt.Errorf("%w: chunk_threshold (%d) must be larger than chunk_size (%d)",
			domain.ErrConfig, c.Index.ChunkThreshold, c.Index.ChunkSize)
	}
	if c.Boost.TimeFloor <= 0 || c.Boost.TimeFloor > 1 {
		return fmt.Errorf("%w: time_floor must be in (0, 1], got %g", domain.ErrConfig, c.Boost.TimeFloor)
	}
	if c.Boost.HalfLifeDays <= 0 {
		return fmt.Errorf("%w: half_life_days must be positive, got %g", domain.ErrConfig, c.Boost.HalfLifeDays)
	}
	return nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a vault directory (looks for
// vaultsearch.yaml, then .vaultsearch/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "vaultsearch.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".vaultsearch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the index artifact.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".vaultsearch", "index.db")
}

// LastQueryPath returns where the query command drops raw scores for remix.
func LastQueryPath(dir string) string {
	return filepath.Join(dir, ".vaultsearch", "last_query.json")
}

// EnsureDataDir ensures the .vaultsearch directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".vaultsearch"), 0755)
}
