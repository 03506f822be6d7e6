// Package loader turns a directory tree into truncated documents and length-bounded chunks.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"codesearch/internal/model"
)

const DefaultTruncateLength = 1000

var (
	errBinary               = errors.New("binary content")
	errEmpty                = errors.New("empty content")
	errEmptyAfterTruncation = errors.New("empty after truncation")
)

type Loader struct {
	truncateLength int
	logger         *zap.Logger
}

func New(truncateLength int, logger *zap.Logger) *Loader {
	if truncateLength <= 0 {
		truncateLength = DefaultTruncateLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{truncateLength: truncateLength, logger: logger}
}

// Load walks root and returns every readable file as a Document together with one
// outcome per visited file. Unreadable files are skipped and reported, never fatal.
// Hidden files and directories (leading dot) and symlinks are not visited.
func (l *Loader) Load(ctx context.Context, root string) ([]model.Document, []model.LoadOutcome, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat codebase root failed: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("codebase root %s is not a directory", root)
	}

	var docs []model.Document
	var outcomes []model.LoadOutcome

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			outcomes = append(outcomes, l.skip(path, walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		content, err := l.read(path)
		if err != nil {
			outcomes = append(outcomes, l.skip(path, err))
			return nil
		}
		content = truncate(content, l.truncateLength)
		if strings.TrimSpace(content) == "" {
			outcomes = append(outcomes, l.skip(path, errEmptyAfterTruncation))
			return nil
		}
		docs = append(docs, model.Document{Content: content, Source: path})
		outcomes = append(outcomes, model.LoadOutcome{Path: path, Status: model.LoadStatusLoaded})
		return nil
	})
	if err != nil {
		return nil, outcomes, fmt.Errorf("walk codebase failed: %w", err)
	}
	return docs, outcomes, nil
}

// read loads JSON as plain text so structured parsing never drops it. Text files are
// read only as far as truncation can reach.
func (l *Loader) read(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		text, err := readPDF(path)
		if err != nil {
			return "", fmt.Errorf("extract pdf text failed: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", errEmpty
		}
		return text, nil
	}

	raw, limited, err := readPrefix(path, int64(l.truncateLength)*utf8.UTFMax)
	if err != nil {
		return "", err
	}
	if limited {
		raw = trimPartialRune(raw)
	}
	if bytes.IndexByte(raw, 0) >= 0 || !utf8.Valid(raw) {
		return "", errBinary
	}
	if strings.TrimSpace(string(raw)) == "" {
		if limited {
			return "", errEmptyAfterTruncation
		}
		return "", errEmpty
	}
	return string(raw), nil
}

// readPrefix reads at most limit bytes; limited reports whether the file is longer.
func readPrefix(path string, limit int64) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(raw)) > limit {
		return raw[:limit], true, nil
	}
	return raw, false, nil
}

// trimPartialRune drops a multi-byte rune cut off by the read limit.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}

func (l *Loader) skip(path string, reason error) model.LoadOutcome {
	l.logger.Debug("skipping file", zap.String("path", path), zap.Error(reason))
	return model.LoadOutcome{
		Path:   path,
		Status: model.LoadStatusSkipped,
		Reason: reason.Error(),
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
