package cache

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesearch/internal/metrics"
)

type countingEmbedder struct {
	seen []string
}

func (c *countingEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	c.seen = append(c.seen, texts...)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 0.5}
	}
	return out, nil
}

func (c *countingEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	c.seen = append(c.seen, text)
	return []float32{float32(len(text))}, nil
}

func TestCachedEmbedderSkipsKnownText(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	inner := &countingEmbedder{}
	m := metrics.New(prometheus.NewRegistry())
	embedder := NewCachedEmbedder(inner, store, "", m, nil)
	ctx := context.Background()

	first, err := embedder.EmbedDocuments(ctx, []string{"alpha", "beta", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, inner.seen)
	assert.Equal(t, first[0], first[2])

	second, err := embedder.EmbedDocuments(ctx, []string{"beta", "gamma", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, inner.seen)
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])
	assert.Equal(t, []float32{5, 0.5}, second[1])

	assert.Equal(t, 3.0, testutil.ToFloat64(m.EmbeddingCacheHits))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EmbeddingCacheMisses))
}

func TestCachedEmbedderPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	_, err = NewCachedEmbedder(&countingEmbedder{}, store, "ns-", nil, nil).EmbedDocuments(ctx, []string{"hello"})
	require.NoError(t, err)

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	inner := &countingEmbedder{}
	vectors, err := NewCachedEmbedder(inner, reopened, "ns-", nil, nil).EmbedDocuments(ctx, []string{"hello"})
	require.NoError(t, err)
	assert.Empty(t, inner.seen)
	assert.Equal(t, []float32{5, 0.5}, vectors[0])
}

func TestCachedEmbedderKeyIsContentAddressed(t *testing.T) {
	embedder := NewCachedEmbedder(&countingEmbedder{}, nil, "ns-", nil, nil)

	assert.Equal(t, embedder.Key("same"), embedder.Key("same"))
	assert.NotEqual(t, embedder.Key("same"), embedder.Key("other"))
	assert.Equal(t,
		"ns-2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		embedder.Key("hello"))
}

func TestCachedEmbedderQueryBypassesCache(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	inner := &countingEmbedder{}
	embedder := NewCachedEmbedder(inner, store, "", nil, nil)

	for i := 0; i < 2; i++ {
		_, err := embedder.EmbedQuery(context.Background(), "q")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"q", "q"}, inner.seen)
}
