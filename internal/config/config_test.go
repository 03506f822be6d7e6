package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/codebase", cfg.Search.CodebaseRoot)
	assert.Equal(t, 5000, cfg.Search.ChunkSize)
	assert.Equal(t, 1000, cfg.Search.TruncateLength)
	assert.Equal(t, 10, cfg.Search.TopK)
	assert.Equal(t, 3, cfg.Blog.PageSize)
	assert.Equal(t, "amazon.titan-embed-text-v2:0", cfg.Embedding.Model)
	assert.Equal(t, 256, cfg.Embedding.Dimensions)
	assert.Equal(t, "0.0.0.0:5001", cfg.HTTPAddr())
	assert.Equal(t, "0.0.0.0:5000", cfg.BlogAddr())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[search]
codebase_root = "/src"
top_k = 4

[blog]
storage = "mysql"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SEARCH_TOP_K", "7")
	t.Setenv("SEARCH_INDEX_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/src", cfg.Search.CodebaseRoot)
	assert.Equal(t, 7, cfg.Search.TopK)
	assert.True(t, cfg.Search.IndexOnStart)
	assert.Equal(t, "mysql", cfg.Blog.Storage)
	// untouched keys keep their defaults
	assert.Equal(t, 5000, cfg.Search.ChunkSize)
}

func TestLoadIgnoresMalformedEnvNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("SEARCH_TOP_K", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Search.TopK)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "ollama" }, "embedding provider"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "s3" }, "cache backend"},
		{"unknown storage", func(c *Config) { c.Blog.Storage = "sqlite" }, "blog storage"},
		{"zero chunk size", func(c *Config) { c.Search.ChunkSize = 0 }, "chunk_size"},
		{"zero page size", func(c *Config) { c.Blog.PageSize = 0 }, "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
