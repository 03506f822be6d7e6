package model

// Document is one loaded file, its content already clipped to the truncation length.
type Document struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Chunk is the unit of embedding and retrieval.
type Chunk struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// SearchResult is a chunk matched by a query, scored by cosine similarity.
type SearchResult struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float32 `json:"score"`
}
