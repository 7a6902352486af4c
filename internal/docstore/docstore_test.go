package docstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	err = s.Upload(ctx, "abc123.txt", strings.NewReader("study notes"), 11, "text/plain")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "abc123.txt"))
	require.NoError(t, err)
	assert.Equal(t, "study notes", string(data))

	require.NoError(t, s.Delete(ctx, "abc123.txt"))
	_, err = os.Stat(filepath.Join(dir, "abc123.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewLocalCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "blobs")
	_, err := NewLocal(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
