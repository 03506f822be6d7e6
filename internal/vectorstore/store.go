// Package vectorstore keeps chunk embeddings in memory and answers k-nearest-neighbour
// queries. The whole store persists to, and loads from, a single file.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"codesearch/internal/ai"
	"codesearch/internal/model"
)

const (
	collectionName = "codebase"
	sourceKey      = "source"
)

var (
	ErrInvalidK          = errors.New("k must be positive")
	ErrLengthMismatch    = errors.New("chunks and embeddings differ in length")
	ErrMissingCollection = errors.New("store file holds no codebase collection")
)

type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// New returns an empty store. The embedder only serves text queries chromem issues on
// its own; callers pass precomputed vectors.
func New(embedder ai.Embedder) (*Store, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection failed: %w", err)
	}
	return &Store{db: db, collection: collection}, nil
}

// Load imports a store previously written by Save.
func Load(path string, embedder ai.Embedder) (*Store, error) {
	db := chromem.NewDB()
	if err := db.ImportFromFile(path, ""); err != nil {
		return nil, fmt.Errorf("import vector store failed: %w", err)
	}
	collection := db.GetCollection(collectionName, embeddingFunc(embedder))
	if collection == nil {
		return nil, ErrMissingCollection
	}
	return &Store{db: db, collection: collection}, nil
}

// Exists reports whether a store file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create store dir failed: %w", err)
	}
	if err := s.db.ExportToFile(path, false, ""); err != nil {
		return fmt.Errorf("export vector store failed: %w", err)
	}
	return nil
}

func (s *Store) Count() int {
	return s.collection.Count()
}

// AddChunks inserts chunks with their precomputed embeddings.
func (s *Store) AddChunks(ctx context.Context, chunks []model.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks, %d embeddings", ErrLengthMismatch, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        c.ID,
			Content:   c.Text,
			Metadata:  map[string]string{sourceKey: c.Source},
			Embedding: embeddings[i],
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("add documents failed: %w", err)
	}
	return nil
}

// Search returns up to k chunks ordered by non-increasing cosine similarity.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]model.SearchResult, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	count := s.collection.Count()
	if count == 0 {
		return []model.SearchResult{}, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection failed: %w", err)
	}

	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		out[i] = model.SearchResult{
			Content: r.Content,
			Source:  r.Metadata[sourceKey],
			Score:   r.Similarity,
		}
	}
	return out, nil
}

func embeddingFunc(embedder ai.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		if embedder == nil {
			return nil, errors.New("vector store has no embedder")
		}
		return embedder.EmbedQuery(ctx, text)
	}
}
