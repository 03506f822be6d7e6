// Package cache stores embedding vectors keyed by a hash of the embedded text.
package cache

import (
	"context"
	"errors"
)

var ErrInvalidKey = errors.New("invalid cache key")

// ByteStore is a key/value store for serialized vectors. MGet returns one entry per key
// in order; a nil entry is a miss.
type ByteStore interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	MSet(ctx context.Context, entries map[string][]byte) error
}
