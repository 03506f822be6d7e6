package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ResilienceConfig tunes retries and the circuit breaker around a provider.
type ResilienceConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	BreakerTimeout  time.Duration
	FailureRatio    float64
	MinimumRequests uint32
}

func (c *ResilienceConfig) applyDefaults() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 200 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Second
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = 0.5
	}
	if c.MinimumRequests == 0 {
		c.MinimumRequests = 5
	}
}

// ResilientEmbedder retries transient provider failures with exponential backoff and
// stops calling the provider while its circuit is open.
type ResilientEmbedder struct {
	inner   Embedder
	breaker *gobreaker.CircuitBreaker
	cfg     ResilienceConfig
	logger  *zap.Logger
}

func NewResilientEmbedder(inner Embedder, cfg ResilienceConfig, logger *zap.Logger) *ResilientEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.applyDefaults()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "embeddings",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinimumRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &ResilientEmbedder{
		inner:   inner,
		breaker: breaker,
		cfg:     cfg,
		logger:  logger,
	}
}

func (e *ResilientEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := e.do(ctx, func() (interface{}, error) {
		return e.inner.EmbedDocuments(ctx, texts)
	}, func(v interface{}) { out = v.([][]float32) })
	if err != nil {
		return nil, fmt.Errorf("embed documents failed: %w", err)
	}
	return out, nil
}

func (e *ResilientEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := e.do(ctx, func() (interface{}, error) {
		return e.inner.EmbedQuery(ctx, text)
	}, func(v interface{}) { out = v.([]float32) })
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}
	return out, nil
}

// State reports the breaker state; /healthz shows it as embedder_circuit.
func (e *ResilientEmbedder) State() gobreaker.State {
	return e.breaker.State()
}

func (e *ResilientEmbedder) do(ctx context.Context, call func() (interface{}, error), keep func(interface{})) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.cfg.InitialInterval
	b.MaxInterval = e.cfg.MaxInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithMaxRetries(b, uint64(e.cfg.MaxRetries))

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		v, err := e.breaker.Execute(call)
		if err == nil {
			keep(v)
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		e.logger.Debug("embedding call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, backoff.WithContext(policy, ctx))
}

func isPermanent(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
