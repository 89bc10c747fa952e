package receipts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "receipts")
	s := New(dir)

	path, err := s.Save(555, []byte("jpeg"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filepath.Base(path), "555_"))
	require.True(t, strings.HasSuffix(path, ".jpg"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg"), data)
}

func TestSave_NoCollisions(t *testing.T) {
	t.Parallel()
	s := New(t.TempDir())

	p1, err := s.Save(1, []byte("a"))
	require.NoError(t, err)
	p2, err := s.Save(1, []byte("b"))
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "a", "b", "receipts")
	s := New(dir)

	_, err := s.Save(2, []byte("x"))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
