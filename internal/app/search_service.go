package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"codesearch/internal/ai"
	"codesearch/internal/loader"
	"codesearch/internal/metrics"
	"codesearch/internal/model"
	"codesearch/internal/vectorstore"
)

type SearchConfig struct {
	Root      string
	StorePath string
	TopK      int
}

// SearchService owns the codebase index. The store is built at most once: if a store
// file exists at construction time it is loaded and IndexCodebase becomes a no-op.
// There is no staleness detection.
type SearchService struct {
	cfg      SearchConfig
	loader   *loader.Loader
	splitter *loader.Splitter
	embedder ai.Embedder
	metrics  *metrics.Metrics
	logger   *zap.Logger

	indexMu sync.Mutex
	mu      sync.RWMutex
	store   *vectorstore.Store
	report  *model.IndexReport
}

func NewSearchService(
	cfg SearchConfig,
	l *loader.Loader,
	splitter *loader.Splitter,
	embedder ai.Embedder,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*SearchService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	s := &SearchService{
		cfg:      cfg,
		loader:   l,
		splitter: splitter,
		embedder: embedder,
		metrics:  m,
		logger:   logger,
	}

	if vectorstore.Exists(cfg.StorePath) {
		logger.Info("loading existing vector store", zap.String("path", cfg.StorePath))
		store, err := vectorstore.Load(cfg.StorePath, embedder)
		if err != nil {
			return nil, err
		}
		s.store = store
		m.SetIndexedChunks(store.Count())
	}
	return s, nil
}

// Ready reports whether a store is available for search.
func (s *SearchService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store != nil
}

// ChunkCount is 0 when no store exists.
func (s *SearchService) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return 0
	}
	return s.store.Count()
}

// LastReport returns the report of the most recent IndexCodebase call, or nil.
func (s *SearchService) LastReport() *model.IndexReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// IndexCodebase loads, truncates, splits, embeds and stores the codebase, then persists
// the store. Unreadable files are recorded in the report; embedding failures abort.
func (s *SearchService) IndexCodebase(ctx context.Context) (*model.IndexReport, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	report := &model.IndexReport{Root: s.cfg.Root, StartedAt: time.Now()}
	if s.Ready() {
		s.logger.Info("vector store already exists, skipping indexing")
		report.Skipped = true
		report.Chunks = s.ChunkCount()
		report.FinishedAt = time.Now()
		s.setReport(report)
		return report, nil
	}

	docs, outcomes, err := s.loader.Load(ctx, s.cfg.Root)
	report.Outcomes = outcomes
	if err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		s.metrics.FileVisited(string(o.Status))
	}
	report.Documents = len(docs)

	chunks, err := s.splitter.Split(docs)
	if err != nil {
		return nil, err
	}

	store, err := vectorstore.New(s.embedder)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks failed: %w", err)
		}
		if err := store.AddChunks(ctx, chunks, embeddings); err != nil {
			return nil, err
		}
	}

	s.logger.Info("creating new vector store",
		zap.String("root", s.cfg.Root),
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
		zap.Int("skipped_files", report.SkippedFiles()),
	)
	if err := store.Save(s.cfg.StorePath); err != nil {
		return nil, err
	}

	report.Chunks = store.Count()
	report.FinishedAt = time.Now()

	s.mu.Lock()
	s.store = store
	s.report = report
	s.mu.Unlock()
	s.metrics.SetIndexedChunks(report.Chunks)
	return report, nil
}

// SearchCodebase returns the k chunks nearest to query. k <= 0 uses the configured default.
func (s *SearchService) SearchCodebase(ctx context.Context, query string, k int) (results []model.SearchResult, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		switch {
		case errors.Is(err, ErrIndexNotBuilt):
			status = "not_indexed"
		case err != nil:
			status = "error"
		}
		s.metrics.ObserveSearch(status, time.Since(start))
	}()

	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, ErrIndexNotBuilt
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = s.cfg.TopK
	}

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}
	return store.Search(ctx, vec, k)
}

func (s *SearchService) setReport(r *model.IndexReport) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}
