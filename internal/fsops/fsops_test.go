package fsops_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/fskit/internal/fsops"
)

// TestDirExists tests the directory existence predicate
func TestDirExists(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	assert.True(t, ops.DirExists(dir))
	assert.False(t, ops.DirExists(filepath.Join(dir, "missing")))
}

// TestDirExistsOnFile tests that a regular file does not count as a directory
func TestDirExistsOnFile(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	assert.False(t, ops.DirExists(path))
	assert.True(t, ops.FileExists(path))
}

// TestFileExists tests the file existence predicate
func TestFileExists(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "f.txt")
	assert.False(t, ops.FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, ops.FileExists(path))
}

// TestFileExistsOnDirectory tests that a directory does not count as a file
func TestFileExistsOnDirectory(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	assert.False(t, ops.FileExists(dir))
}
