package loader

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"codesearch/internal/model"
)

const DefaultChunkSize = 5000

// Splitter cuts documents into chunks of at most chunkSize characters with no overlap.
type Splitter struct {
	chunkSize int
	recursive textsplitter.RecursiveCharacter
}

func NewSplitter(chunkSize int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Splitter{
		chunkSize: chunkSize,
		recursive: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(0),
		),
	}
}

// Split keeps each chunk's source path. Chunk IDs are stable for a given source and position.
func (s *Splitter) Split(docs []model.Document) ([]model.Chunk, error) {
	var chunks []model.Chunk
	for _, doc := range docs {
		parts, err := s.recursive.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("split %s failed: %w", doc.Source, err)
		}
		n := 0
		for _, part := range parts {
			for _, piece := range chunkText(part, s.chunkSize) {
				if piece == "" {
					continue
				}
				chunks = append(chunks, model.Chunk{
					ID:     chunkID(doc.Source, n),
					Text:   piece,
					Source: doc.Source,
				})
				n++
			}
		}
	}
	return chunks, nil
}

func chunkID(source string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("file://%s#%d", source, n))).String()
}

// chunkText hard-splits text by rune count; the recursive splitter can emit an
// oversized piece when a run of text has no separator.
func chunkText(text string, size int) []string {
	if utf8.RuneCountInString(text) <= size {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
