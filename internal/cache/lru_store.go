package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUStore keeps recently used entries in memory in front of a slower store.
type LRUStore struct {
	memory  *lru.Cache[string, []byte]
	backend ByteStore
}

func NewLRUStore(size int, backend ByteStore) (*LRUStore, error) {
	memory, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache failed: %w", err)
	}
	return &LRUStore{memory: memory, backend: backend}, nil
}

func (s *LRUStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	values := make([][]byte, len(keys))
	var missKeys []string
	var missIdx []int
	for i, key := range keys {
		if v, ok := s.memory.Get(key); ok {
			values[i] = v
			continue
		}
		missKeys = append(missKeys, key)
		missIdx = append(missIdx, i)
	}
	if len(missKeys) == 0 {
		return values, nil
	}

	fetched, err := s.backend.MGet(ctx, missKeys)
	if err != nil {
		return nil, err
	}
	for j, v := range fetched {
		if v == nil {
			continue
		}
		values[missIdx[j]] = v
		s.memory.Add(missKeys[j], v)
	}
	return values, nil
}

func (s *LRUStore) MSet(ctx context.Context, entries map[string][]byte) error {
	if err := s.backend.MSet(ctx, entries); err != nil {
		return err
	}
	for key, value := range entries {
		s.memory.Add(key, value)
	}
	return nil
}
