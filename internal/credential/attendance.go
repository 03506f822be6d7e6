// Package credential reads the attendance id used as the embeddings provider access key.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmptyAttendanceID = errors.New("attendance id is empty")

// LoadAttendanceID returns the trimmed contents of the file at path.
func LoadAttendanceID(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read attendance id failed: %w", err)
	}
	id := strings.TrimSpace(string(raw))
	if id == "" {
		return "", ErrEmptyAttendanceID
	}
	return id, nil
}
