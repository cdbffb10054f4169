package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vaultsearch/internal/domain"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadChunking(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.Index.ChunkSize = 0 }},
		{"negative overlap", func(c *Config) { c.Index.ChunkOverlap = -1 }},
		{"overlap equals chunk size", func(c *Config) { c.Index.ChunkOverlap = c.Index.ChunkSize }},
		{"threshold below chunk size", func(c *Config) { c.Index.ChunkThreshold = c.Index.ChunkSize }},
		{"zero time floor", func(c *Config) { c.Boost.TimeFloor = 0 }},
		{"time floor above one", func(c *Config) { c.Boost.TimeFloor = 1.5 }},
		{"zero half life", func(c *Config) { c.Boost.HalfLifeDays = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), domain.ErrConfig)
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultsearch.yaml")
	content := `
index:
  chunk_size: 1000
  chunk_overlap: 200
retrieve:
  top_k: 5
boost:
  half_life_days: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1000, cfg.Index.ChunkSize)
	require.Equal(t, 200, cfg.Index.ChunkOverlap)
	require.Equal(t, 5, cfg.Retrieve.TopK)
	require.Equal(t, 30.0, cfg.Boost.HalfLifeDays)

	// Untouched sections keep their defaults.
	require.Equal(t, "openai", cfg.Embedding.Provider)
	require.Equal(t, 1.2, cfg.Index.K1)
}

func TestLoadFromDirPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".vaultsearch"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".vaultsearch", "config.yaml"),
		[]byte("retrieve:\n  top_k: 3\n"), 0644))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Retrieve.TopK)

	// A root-level file wins over the data-dir file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vaultsearch.yaml"),
		[]byte("retrieve:\n  top_k: 7\n"), 0644))

	cfg, err = LoadFromDir(dir)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Retrieve.TopK)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := DefaultConfig()
	cfg.Retrieve.TopK = 42
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
