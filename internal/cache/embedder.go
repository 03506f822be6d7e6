package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"codesearch/internal/ai"
	"codesearch/internal/metrics"
)

// CachedEmbedder wraps a provider so that identical document text is embedded once.
// Query embeddings are not cached.
type CachedEmbedder struct {
	inner     ai.Embedder
	store     ByteStore
	namespace string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewCachedEmbedder(inner ai.Embedder, store ByteStore, namespace string, m *metrics.Metrics, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		inner:     inner,
		store:     store,
		namespace: namespace,
		metrics:   m,
		logger:    logger,
	}
}

// Key returns the content address of text.
func (e *CachedEmbedder) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return e.namespace + hex.EncodeToString(sum[:])
}

func (e *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.inner.EmbedQuery(ctx, text)
}

func (e *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ai.ErrEmptyInput
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = e.Key(text)
	}

	cached, err := e.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("lookup embedding cache failed: %w", err)
	}

	vectors := make([][]float32, len(texts))
	pending := make(map[string][]int)
	var missKeys, missTexts []string
	for i, key := range keys {
		if raw := cached[i]; raw != nil {
			var vec []float32
			if err := json.Unmarshal(raw, &vec); err == nil && len(vec) > 0 {
				vectors[i] = vec
				continue
			}
			e.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
		}
		if _, seen := pending[key]; !seen {
			missKeys = append(missKeys, key)
			missTexts = append(missTexts, texts[i])
		}
		pending[key] = append(pending[key], i)
	}

	e.metrics.CacheLookup(len(texts)-len(missTexts), len(missTexts))
	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := e.inner.EmbedDocuments(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missTexts), len(fresh))
	}

	entries := make(map[string][]byte, len(missKeys))
	for j, key := range missKeys {
		raw, err := json.Marshal(fresh[j])
		if err != nil {
			return nil, fmt.Errorf("marshal embedding failed: %w", err)
		}
		entries[key] = raw
		for _, i := range pending[key] {
			vectors[i] = fresh[j]
		}
	}
	if err := e.store.MSet(ctx, entries); err != nil {
		return nil, fmt.Errorf("write embedding cache failed: %w", err)
	}

	e.logger.Debug("embedded uncached texts",
		zap.Int("requested", len(texts)),
		zap.Int("embedded", len(missTexts)),
	)
	return vectors, nil
}
