package fsops_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelworks/fskit/internal/fsops"
)

// TestErrorMessage tests the error string formats
func TestErrorMessage(t *testing.T) {
	single := &fsops.Error{
		Op:   "read_file",
		Kind: fsops.KindNotFound,
		Path: "/data/missing.txt",
		Err:  fsops.ErrNotFound,
	}
	assert.Equal(t, "read_file /data/missing.txt: not found", single.Error())

	pair := &fsops.Error{
		Op:   "rename_dir",
		Kind: fsops.KindExists,
		Path: "/data/src",
		Dest: "/data/dst",
		Err:  fsops.ErrExists,
	}
	assert.Equal(t, "rename_dir /data/src -> /data/dst: already exists", pair.Error())
}

// TestErrorUnwrap tests errors.Is classification through wrapping
func TestErrorUnwrap(t *testing.T) {
	err := &fsops.Error{
		Op:   "list_dir",
		Kind: fsops.KindNotFound,
		Path: "/x",
		Err:  fsops.ErrNotFound,
	}

	assert.True(t, errors.Is(err, fsops.ErrNotFound))
	assert.False(t, errors.Is(err, fsops.ErrExists))
	assert.True(t, fsops.IsNotFound(err))
	assert.False(t, fsops.IsExists(err))

	// Still classifiable through further wrapping
	wrapped := fmt.Errorf("request failed: %w", err)
	assert.True(t, fsops.IsNotFound(wrapped))
	assert.Equal(t, fsops.KindNotFound, fsops.KindOf(wrapped))
}

// TestKindOf tests kind extraction on foreign errors
func TestKindOf(t *testing.T) {
	assert.Equal(t, fsops.Kind(0), fsops.KindOf(errors.New("plain")))
	assert.Equal(t, fsops.Kind(0), fsops.KindOf(nil))
}

// TestKindString tests the stable kind identifiers
func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", fsops.KindNotFound.String())
	assert.Equal(t, "already_exists", fsops.KindExists.String())
	assert.Equal(t, "parse_error", fsops.KindParse.String())
	assert.Equal(t, "serialize_error", fsops.KindSerialize.String())
	assert.Equal(t, "unknown_error", fsops.Kind(0).String())
}
