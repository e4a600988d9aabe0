// Package structured provides file-backed load/save helpers for structured
// documents (YAML, JSON, TOML) layered on top of fsops. It owns parse and
// serialize handling only; all I/O goes through fsops.
package structured

import (
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/kestrelworks/fskit/internal/fsops"
	"github.com/kestrelworks/fskit/internal/logging"
)

// Mapping is a string-keyed document as produced by the parsers here.
type Mapping = map[string]any

// Store reads and writes structured documents through a fsops.Ops.
type Store struct {
	fs  *fsops.Ops
	log *logging.Logger
}

// NewStore creates a Store. A nil logger is replaced with a no-op one.
func NewStore(fs *fsops.Ops, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{fs: fs, log: log}
}

// LoadMapping loads a YAML mapping from path.
//
// This is deliberately lenient: a missing or unreadable file, empty
// content, a parse failure, or a document that is explicitly null all
// collapse to an empty mapping. Callers cannot distinguish those cases;
// the failures are logged, not returned. Use SaveMapping's strict
// counterpart semantics when the distinction matters.
func (s *Store) LoadMapping(path string) Mapping {
	content, err := s.fs.ReadText(path)
	if err != nil || content == "" {
		s.log.Error("yaml file is empty or could not be read",
			zap.String("path", path), zap.Error(err))
		return Mapping{}
	}

	var data Mapping
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		s.log.Error("failed to parse yaml file",
			zap.String("path", path), zap.Error(err))
		return Mapping{}
	}
	if data == nil {
		return Mapping{}
	}

	s.log.Debug("yaml mapping loaded",
		zap.String("path", path), zap.Int("keys", len(data)))
	return data
}

// SaveMapping serializes data as block-style YAML and writes it to path
// via fsops, auto-creating the parent directory. Serialization failures
// return before anything is written; write failures propagate.
func (s *Store) SaveMapping(path string, data Mapping) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		s.log.Error("failed to serialize yaml mapping",
			zap.String("path", path), zap.Error(err))
		return &fsops.Error{Op: "save_mapping", Kind: fsops.KindSerialize, Path: path, Err: err}
	}

	if err := s.fs.WriteText(path, string(out)); err != nil {
		s.log.Error("failed to write yaml mapping",
			zap.String("path", path), zap.Error(err))
		return err
	}

	s.log.Debug("yaml mapping saved",
		zap.String("path", path), zap.Int("keys", len(data)))
	return nil
}
