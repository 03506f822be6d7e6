package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"codesearch/internal/ai"
	"codesearch/internal/app"
	"codesearch/internal/config"
	"codesearch/internal/loader"
	"codesearch/internal/metrics"
)

// SearchApp owns everything the search server and the CLI need.
type SearchApp struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Redis    *redis.Client
	Search   *app.SearchService
	// Breaker is nil when the embedder was supplied without a resilience layer.
	Breaker *ai.ResilientEmbedder

	StartedAt time.Time
}

func NewSearchApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*SearchApp, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := newRegistry()
	m := metrics.New(registry)

	chain, err := NewEmbedder(ctx, cfg, m, logger)
	if err != nil {
		return nil, err
	}

	a, err := NewSearchAppWithEmbedder(cfg, chain.Embedder, registry, m, logger)
	if err != nil {
		if chain.Redis != nil {
			_ = chain.Redis.Close()
		}
		return nil, err
	}
	a.Redis = chain.Redis
	a.Breaker = chain.Resilient
	return a, nil
}

// NewSearchAppWithEmbedder wires the search service around an already built embedder.
func NewSearchAppWithEmbedder(
	cfg *config.Config,
	embedder ai.Embedder,
	registry *prometheus.Registry,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*SearchApp, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc, err := app.NewSearchService(
		app.SearchConfig{
			Root:      cfg.Search.CodebaseRoot,
			StorePath: cfg.Search.StorePath,
			TopK:      cfg.Search.TopK,
		},
		loader.New(cfg.Search.TruncateLength, logger.Named("loader")),
		loader.NewSplitter(cfg.Search.ChunkSize),
		embedder,
		m,
		logger.Named("search"),
	)
	if err != nil {
		return nil, fmt.Errorf("create search service failed: %w", err)
	}

	return &SearchApp{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Metrics:   m,
		Search:    svc,
		StartedAt: time.Now(),
	}, nil
}

func (a *SearchApp) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	_ = a.Logger.Sync()
	return closeErr
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}
