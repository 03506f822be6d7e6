package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var validFileKey = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// FileStore keeps one file per key under root.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir failed: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	values := make([][]byte, len(keys))
	for i, key := range keys {
		path, err := s.path(key)
		if err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read cache entry failed: %w", err)
		}
		values[i] = raw
	}
	return values, nil
}

func (s *FileStore) MSet(_ context.Context, entries map[string][]byte) error {
	for key, value := range entries {
		path, err := s.path(key)
		if err != nil {
			return err
		}
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, value, 0o644); err != nil {
			return fmt.Errorf("write cache entry failed: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("commit cache entry failed: %w", err)
		}
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "." || key == ".." || !validFileKey.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, key), nil
}
