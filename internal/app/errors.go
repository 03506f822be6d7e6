package app

import "errors"

var (
	ErrIndexNotBuilt = errors.New("vector store not initialized, index the codebase first")
	ErrEmptyQuery    = errors.New("search query is empty")
	ErrInvalidPost   = errors.New("post must be a JSON object")
)
