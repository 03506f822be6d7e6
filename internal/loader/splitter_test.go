package loader

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesearch/internal/model"
)

func TestSplitSmallDocumentsOneChunkEach(t *testing.T) {
	docs := []model.Document{
		{Content: "first file", Source: "/code/a.txt"},
		{Content: "second file", Source: "/code/b.txt"},
		{Content: "third file", Source: "/code/c.txt"},
	}

	chunks, err := NewSplitter(5000).Split(docs)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, docs[i].Source, c.Source)
		assert.Equal(t, docs[i].Content, c.Text)
		assert.NotEmpty(t, c.ID)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	words := strings.Repeat("lorem ipsum dolor ", 100)
	unbroken := strings.Repeat("x", 250)
	docs := []model.Document{
		{Content: words, Source: "words.txt"},
		{Content: unbroken, Source: "unbroken.txt"},
	}

	chunks, err := NewSplitter(100).Split(docs)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	var unbrokenTotal int
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), 100)
		if c.Source == "unbroken.txt" {
			unbrokenTotal += utf8.RuneCountInString(c.Text)
		}
	}
	// no overlap: the pieces add up to the input
	assert.Equal(t, 250, unbrokenTotal)
}

func TestChunkIDsAreStableAndDistinct(t *testing.T) {
	docs := []model.Document{{Content: strings.Repeat("y", 30), Source: "s.txt"}}
	s := NewSplitter(10)

	first, err := s.Split(docs)
	require.NoError(t, err)
	second, err := s.Split(docs)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestChunkText(t *testing.T) {
	assert.Equal(t, []string{"abc"}, chunkText("abc", 5))
	assert.Equal(t, []string{"ab", "cd", "e"}, chunkText("abcde", 2))
}
