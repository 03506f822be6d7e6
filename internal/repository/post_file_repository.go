package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codesearch/internal/model"
)

// PostFileRepository keeps every post in one JSON array file and rewrites the whole
// file on each append. The mutex only serializes writers inside this process.
type PostFileRepository struct {
	path string
	mu   sync.Mutex
}

func NewPostFileRepository(path string) *PostFileRepository {
	return &PostFileRepository{path: path}
}

// EnsureFile creates the file holding an empty array if it does not exist yet.
func (r *PostFileRepository) EnsureFile() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat posts file failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create posts dir failed: %w", err)
	}
	if err := os.WriteFile(r.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("create posts file failed: %w", err)
	}
	return nil
}

func (r *PostFileRepository) List(_ context.Context, offset, limit int) ([]model.Post, error) {
	r.mu.Lock()
	posts, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if offset < 0 || offset >= len(posts) || limit <= 0 {
		return []model.Post{}, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (r *PostFileRepository) Append(_ context.Context, post model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load()
	if err != nil {
		return err
	}
	posts = append(posts, post)

	payload, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal posts failed: %w", err)
	}
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		return fmt.Errorf("write posts file failed: %w", err)
	}
	return nil
}

func (r *PostFileRepository) load() ([]model.Post, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read posts file failed: %w", err)
	}
	var posts []model.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("decode posts file failed: %w", err)
	}
	return posts, nil
}
