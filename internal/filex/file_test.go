package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestCollectFiles_FilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "docs", "b.pdf")
	c := filepath.Join(dir, "docs", "nested", "c.md")
	writeFile(t, a, "a")
	writeFile(t, b, "b")
	writeFile(t, c, "c")

	got, err := CollectFiles([]string{a, filepath.Join(dir, "docs"), b})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, got)
}

func TestCollectFiles_MissingPath(t *testing.T) {
	_, err := CollectFiles([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestCollectFiles_EmptyDirectory(t *testing.T) {
	_, err := CollectFiles([]string{t.TempDir()})
	require.ErrorIs(t, err, ErrNoFiles)
}

func TestEnsureParentDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "state", "deep", "state.db")
	require.NoError(t, EnsureParentDir(file))

	fi, err := os.Stat(filepath.Dir(file))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	require.NoError(t, EnsureParentDir(file), "must be idempotent")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.docupload/state.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docupload", "state.db"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
