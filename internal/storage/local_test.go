package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestLocalStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/media/files/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, "abc.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/media/files/abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, "abc.png"))
	_, err = os.Stat(filepath.Join(dir, "abc.png"))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "abc.png"))
}

func TestLocalStorage_PutFailureLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/media/files")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "broken.ogg", "audio/ogg", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_RejectsPathTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/media/files")
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "a/b.png", `a\b.png`, ".hidden"} {
		_, err := s.Put(context.Background(), key, "image/png", strings.NewReader("x"))
		assert.Error(t, err, key)
	}
}
