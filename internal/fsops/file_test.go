package fsops_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/fskit/internal/fsops"
)

// TestWriteReadText tests a text round-trip including multi-byte UTF-8
func TestWriteReadText(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "greeting.txt")
	content := "héllo wörld 日本語"

	require.NoError(t, ops.WriteText(path, content))

	got, err := ops.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

// TestWriteReadBinary tests a binary round-trip with non-UTF-8 bytes
func TestWriteReadBinary(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "blob.bin")
	payload := []byte{0x00, 0xff, 0xfe, 0x7f, 0x80}

	require.NoError(t, ops.WriteFile(path, payload))

	got, err := ops.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// TestReadTextRejectsInvalidUTF8 tests that text reads fail on binary data
func TestReadTextRejectsInvalidUTF8(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644))

	_, err := ops.ReadText(path)
	require.Error(t, err)
	assert.Equal(t, fsops.KindRead, fsops.KindOf(err))
}

// TestWriteFileCreatesParents tests that writing auto-creates the parent chain
func TestWriteFileCreatesParents(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "deep", "deeper", "leaf.txt")
	require.NoError(t, ops.WriteText(path, "nested"))

	assert.True(t, ops.DirExists(filepath.Join(dir, "deep", "deeper")))

	got, err := ops.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "nested", got)
}

// TestWriteFileOverwrites tests that a second write replaces the content
func TestWriteFileOverwrites(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "f.txt")
	require.NoError(t, ops.WriteText(path, "first version"))
	require.NoError(t, ops.WriteText(path, "second"))

	got, err := ops.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

// TestWriteFileWithMode tests that mode options apply to written files
func TestWriteFileWithMode(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "secret.txt")
	require.NoError(t, ops.WriteText(path, "x", fsops.WithMode(0o600)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// TestReadFileMissing tests the not-found error on read
func TestReadFileMissing(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	_, err := ops.ReadFile(filepath.Join(dir, "nope.txt"))
	require.Error(t, err)
	assert.True(t, fsops.IsNotFound(err))

	_, err = ops.ReadText(filepath.Join(dir, "nope.txt"))
	require.Error(t, err)
	assert.True(t, fsops.IsNotFound(err))
}

// TestRemoveFile tests file deletion
func TestRemoveFile(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, ops.RemoveFile(path))
	assert.False(t, ops.FileExists(path))
}

// TestRemoveFileMissing tests that removing a missing file fails
func TestRemoveFileMissing(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	err := ops.RemoveFile(filepath.Join(dir, "ghost.txt"))
	require.Error(t, err)
	assert.True(t, fsops.IsNotFound(err))
}

// TestRenameFile tests a successful file rename
func TestRenameFile(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

	require.NoError(t, ops.RenameFile(src, dst))

	assert.False(t, ops.FileExists(src))
	got, err := ops.ReadText(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", got)
}

// TestRenameFileConflict tests that rename refuses an existing destination
// and leaves both files untouched
func TestRenameFileConflict(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("aaa"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("bbb"), 0o644))

	err := ops.RenameFile(src, dst)
	require.Error(t, err)
	assert.True(t, fsops.IsExists(err))

	srcData, _ := os.ReadFile(src)
	dstData, _ := os.ReadFile(dst)
	assert.Equal(t, "aaa", string(srcData))
	assert.Equal(t, "bbb", string(dstData))
}

// TestMoveFileOverwrites tests that move, unlike rename, follows the host
// primitive and replaces an existing destination
func TestMoveFileOverwrites(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("winner"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("loser"), 0o644))

	require.NoError(t, ops.MoveFile(src, dst))

	assert.False(t, ops.FileExists(src))
	got, err := ops.ReadText(dst)
	require.NoError(t, err)
	assert.Equal(t, "winner", got)
}

// TestMoveFileMissingSource tests move with a missing source
func TestMoveFileMissingSource(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	err := ops.MoveFile(filepath.Join(dir, "none.txt"), filepath.Join(dir, "dst.txt"))
	require.Error(t, err)
	assert.True(t, fsops.IsNotFound(err))
}

// TestCopyFile tests copying with content and mode preserved
func TestCopyFile(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	src := filepath.Join(dir, "orig.txt")
	dst := filepath.Join(dir, "copy.txt")
	require.NoError(t, os.WriteFile(src, []byte("duplicate me"), 0o640))

	require.NoError(t, ops.CopyFile(src, dst))

	// Both sides intact
	for _, p := range []string{src, dst} {
		got, err := ops.ReadText(p)
		require.NoError(t, err)
		assert.Equal(t, "duplicate me", got)
	}

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

// TestCopyFileConflict tests that copy refuses an existing destination
func TestCopyFileConflict(t *testing.T) {
	ops := fsops.New(nil)
	dir := t.TempDir()

	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("b"), 0o644))

	err := ops.CopyFile(src, dst)
	require.Error(t, err)
	assert.True(t, fsops.IsExists(err))
}
