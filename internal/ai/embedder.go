// Package ai holds the embeddings providers used to vectorize codebase chunks.
package ai

import (
	"context"
	"errors"
)

var ErrEmptyInput = errors.New("embedding input is empty")

// Embedder turns text into vectors. EmbedDocuments returns one vector per input, in order.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
