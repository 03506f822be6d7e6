// Package metrics defines the Prometheus collectors shared by the services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "codesearch"

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	EmbeddingCacheHits   prometheus.Counter
	EmbeddingCacheMisses prometheus.Counter
	SearchRequests       *prometheus.CounterVec
	SearchDuration       prometheus.Histogram
	IndexedChunks        prometheus.Gauge
	IndexedFiles         *prometheus.CounterVec
	PostsCreated         prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EmbeddingCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_hits_total",
			Help:      "Texts whose embedding was served from the cache.",
		}),
		EmbeddingCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_misses_total",
			Help:      "Texts sent to the embeddings provider.",
		}),
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search calls by outcome.",
		}, []string{"status"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search latency including query embedding.",
			Buckets:   prometheus.DefBuckets,
		}),
		IndexedChunks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_chunks",
			Help:      "Chunks held by the vector store.",
		}),
		IndexedFiles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexed_files_total",
			Help:      "Files visited during indexing by outcome.",
		}, []string{"status"}),
		PostsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blog_posts_created_total",
			Help:      "Posts appended through the API.",
		}),
	}
}

func (m *Metrics) CacheLookup(hits, misses int) {
	if m == nil {
		return
	}
	m.EmbeddingCacheHits.Add(float64(hits))
	m.EmbeddingCacheMisses.Add(float64(misses))
}

func (m *Metrics) ObserveSearch(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchRequests.WithLabelValues(status).Inc()
	m.SearchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) SetIndexedChunks(n int) {
	if m == nil {
		return
	}
	m.IndexedChunks.Set(float64(n))
}

func (m *Metrics) FileVisited(status string) {
	if m == nil {
		return
	}
	m.IndexedFiles.WithLabelValues(status).Inc()
}

func (m *Metrics) PostCreated() {
	if m == nil {
		return
	}
	m.PostsCreated.Inc()
}
