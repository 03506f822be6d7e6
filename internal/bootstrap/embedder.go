package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"codesearch/internal/ai"
	"codesearch/internal/cache"
	"codesearch/internal/config"
	"codesearch/internal/credential"
	"codesearch/internal/metrics"
	redisClient "codesearch/internal/platform/redis"
)

// newProvider builds the raw embeddings provider selected by cfg.Provider.
func newProvider(ctx context.Context, cfg config.EmbeddingConfig) (ai.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return ai.NewOpenAICompatibleEmbedder(ai.OpenAICompatibleConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BatchSize: cfg.BatchSize,
		}), nil
	case "bedrock":
		attendanceID, err := credential.LoadAttendanceID(cfg.AttendancePath)
		if err != nil {
			return nil, err
		}
		return ai.NewBedrockEmbedder(ctx, ai.BedrockConfig{
			Model:       cfg.Model,
			Endpoint:    cfg.Endpoint,
			Region:      cfg.Region,
			Dimensions:  cfg.Dimensions,
			AccessKeyID: attendanceID,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func resilienceConfig(cfg config.ResilienceConfig) ai.ResilienceConfig {
	minimum := cfg.BreakerMinimumRequests
	if minimum < 0 {
		minimum = 0
	}
	return ai.ResilienceConfig{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: time.Duration(cfg.InitialIntervalMillis) * time.Millisecond,
		MaxInterval:     time.Duration(cfg.MaxIntervalMillis) * time.Millisecond,
		BreakerTimeout:  time.Duration(cfg.BreakerTimeoutSeconds) * time.Second,
		FailureRatio:    cfg.BreakerFailureRatio,
		MinimumRequests: uint32(minimum),
	}
}

// newByteStore returns the cache backend, optionally fronted by an in-memory LRU. The
// redis client is returned so the caller can close it.
func newByteStore(ctx context.Context, cfg *config.Config) (cache.ByteStore, *redis.Client, error) {
	var (
		backend cache.ByteStore
		client  *redis.Client
	)
	switch cfg.Cache.Backend {
	case "redis":
		c, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		client = c
		backend = cache.NewRedisStore(c, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	case "file":
		fs, err := cache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		backend = fs
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	if cfg.Cache.LRUSize <= 0 {
		return backend, client, nil
	}
	lru, err := cache.NewLRUStore(cfg.Cache.LRUSize, backend)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, nil, err
	}
	return lru, client, nil
}

// EmbedderChain is provider -> resilience -> cache, with handles on the parts callers
// need after construction.
type EmbedderChain struct {
	Embedder  ai.Embedder
	Resilient *ai.ResilientEmbedder
	Redis     *redis.Client
}

func NewEmbedder(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*EmbedderChain, error) {
	provider, err := newProvider(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embeddings provider failed: %w", err)
	}
	resilient := ai.NewResilientEmbedder(provider, resilienceConfig(cfg.Resilience), logger.Named("embedder"))

	store, client, err := newByteStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache failed: %w", err)
	}

	return &EmbedderChain{
		Embedder:  cache.NewCachedEmbedder(resilient, store, cfg.Cache.Namespace, m, logger.Named("cache")),
		Resilient: resilient,
		Redis:     client,
	}, nil
}
