package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAttendanceID(t *testing.T) {
	dir := t.TempDir()

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		path := filepath.Join(dir, "attendance_id")
		require.NoError(t, os.WriteFile(path, []byte("  abc-123\n"), 0o600))

		id, err := LoadAttendanceID(path)
		require.NoError(t, err)
		assert.Equal(t, "abc-123", id)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty")
		require.NoError(t, os.WriteFile(path, []byte("\n\t"), 0o600))

		_, err := LoadAttendanceID(path)
		assert.ErrorIs(t, err, ErrEmptyAttendanceID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAttendanceID(filepath.Join(dir, "nope"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
