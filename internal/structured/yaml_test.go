package structured_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/fskit/internal/fsops"
	"github.com/kestrelworks/fskit/internal/structured"
)

func newStore(t *testing.T) (string, *structured.Store) {
	t.Helper()
	dir := t.TempDir()
	return dir, structured.NewStore(fsops.New(nil), nil)
}

// TestMappingRoundTrip tests saving and loading a YAML mapping
func TestMappingRoundTrip(t *testing.T) {
	dir, store := newStore(t)
	path := filepath.Join(dir, "config.yaml")

	in := structured.Mapping{
		"key":     "value",
		"number":  42,
		"enabled": true,
	}
	require.NoError(t, store.SaveMapping(path, in))

	out := store.LoadMapping(path)
	assert.Equal(t, "value", out["key"])
	assert.EqualValues(t, 42, out["number"])
	assert.Equal(t, true, out["enabled"])
}

// TestSaveMappingCreatesParents tests that saving auto-creates directories
func TestSaveMappingCreatesParents(t *testing.T) {
	dir, store := newStore(t)
	path := filepath.Join(dir, "conf.d", "nested", "app.yaml")

	require.NoError(t, store.SaveMapping(path, structured.Mapping{"a": 1}))

	out := store.LoadMapping(path)
	assert.Len(t, out, 1)
}

// TestLoadMappingMissingFile tests the lenient collapse to an empty mapping
func TestLoadMappingMissingFile(t *testing.T) {
	dir, store := newStore(t)

	out := store.LoadMapping(filepath.Join(dir, "absent.yaml"))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

// TestLoadMappingEmptyFile tests that empty content yields an empty mapping
func TestLoadMappingEmptyFile(t *testing.T) {
	dir, store := newStore(t)
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	out := store.LoadMapping(path)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

// TestLoadMappingNullDocument tests that an explicit null document
// normalizes to an empty mapping
func TestLoadMappingNullDocument(t *testing.T) {
	dir, store := newStore(t)
	path := filepath.Join(dir, "null.yaml")
	require.NoError(t, os.WriteFile(path, []byte("null\n"), 0o644))

	out := store.LoadMapping(path)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

// TestLoadMappingMalformed tests that a parse failure collapses to an
// empty mapping instead of an error
func TestLoadMappingMalformed(t *testing.T) {
	dir, store := newStore(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: [unclosed\n  bad indent: ]]"), 0o644))

	out := store.LoadMapping(path)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

// TestLoadMappingNested tests nested structures survive the round-trip
func TestLoadMappingNested(t *testing.T) {
	dir, store := newStore(t)
	path := filepath.Join(dir, "nested.yaml")

	in := structured.Mapping{
		"server": map[string]any{
			"host": "localhost",
			"tags": []any{"a", "b"},
		},
	}
	require.NoError(t, store.SaveMapping(path, in))

	out := store.LoadMapping(path)
	server, ok := out["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "localhost", server["host"])
}
