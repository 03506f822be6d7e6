package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesearch/internal/bootstrap"
	"codesearch/internal/config"
	"codesearch/internal/metrics"
	"codesearch/internal/model"
)

type lengthEmbedder struct{}

func (lengthEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = lengthEmbedder{}.EmbedQuery(ctx, t)
	}
	return out, nil
}

func (lengthEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(strings.Count(text, "x")) + 0.1, float32(strings.Count(text, "y")) + 0.1}, nil
}

func testFactory(ctx context.Context, cfg *config.Config) (*bootstrap.SearchApp, error) {
	reg := prometheus.NewRegistry()
	return bootstrap.NewSearchAppWithEmbedder(cfg, lengthEmbedder{}, reg, metrics.New(reg), nil)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(testFactory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIndexThenSearch(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.txt"), []byte("xxxx"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "y.txt"), []byte("yyyy"), 0o644))
	store := filepath.Join(t.TempDir(), "index.gob")

	out, err := run(t, "index", "--root", root, "--store", store)
	require.NoError(t, err)
	assert.Contains(t, out, "Chunks:  2")

	out, err = run(t, "index", "--root", root, "--store", store)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = run(t, "search", "--root", root, "--store", store, "-k", "1", "yy")
	require.NoError(t, err)
	var results []model.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(root, "y.txt"), results[0].Source)
	assert.Equal(t, "yyyy", results[0].Content)
}

func TestSearchWithoutIndexFails(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := run(t, "search", "--root", t.TempDir(), "--store", filepath.Join(t.TempDir(), "none.gob"), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index the codebase first")
}
