package structured

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/kestrelworks/fskit/internal/fsops"
)

// sonicThreshold is the payload size above which sonic takes over from
// encoding/json.
const sonicThreshold = 10 * 1024

// ReadJSON loads a JSON document from path. Unlike LoadMapping this is
// strict: missing files and parse failures are returned to the caller.
func (s *Store) ReadJSON(path string) (Mapping, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed Mapping
	if len(data) > sonicThreshold {
		err = sonic.Unmarshal(data, &parsed)
	} else {
		err = json.Unmarshal(data, &parsed)
	}
	if err != nil {
		s.log.Error("failed to parse json file",
			zap.String("path", path), zap.Error(err))
		return nil, &fsops.Error{Op: "read_json", Kind: fsops.KindParse, Path: path, Err: err}
	}

	s.log.Debug("json read", zap.String("path", path), zap.Int("keys", len(parsed)))
	return parsed, nil
}

// WriteJSON serializes data as indented JSON and writes it to path.
func (s *Store) WriteJSON(path string, data Mapping) error {
	var (
		out []byte
		err error
	)
	if len(data) > 100 {
		out, err = sonic.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		s.log.Error("failed to serialize json",
			zap.String("path", path), zap.Error(err))
		return &fsops.Error{Op: "write_json", Kind: fsops.KindSerialize, Path: path, Err: err}
	}

	if err := s.fs.WriteFile(path, out); err != nil {
		return err
	}

	s.log.Debug("json written", zap.String("path", path), zap.Int("size", len(out)))
	return nil
}

// ReadTOML loads a TOML document from path, strict contract.
func (s *Store) ReadTOML(path string) (Mapping, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed Mapping
	if err := toml.Unmarshal(data, &parsed); err != nil {
		s.log.Error("failed to parse toml file",
			zap.String("path", path), zap.Error(err))
		return nil, &fsops.Error{Op: "read_toml", Kind: fsops.KindParse, Path: path, Err: err}
	}

	s.log.Debug("toml read", zap.String("path", path), zap.Int("keys", len(parsed)))
	return parsed, nil
}

// WriteTOML serializes data as TOML and writes it to path.
func (s *Store) WriteTOML(path string, data Mapping) error {
	out, err := toml.Marshal(data)
	if err != nil {
		s.log.Error("failed to serialize toml",
			zap.String("path", path), zap.Error(err))
		return &fsops.Error{Op: "write_toml", Kind: fsops.KindSerialize, Path: path, Err: err}
	}

	if err := s.fs.WriteFile(path, out); err != nil {
		return err
	}

	s.log.Debug("toml written", zap.String("path", path), zap.Int("size", len(out)))
	return nil
}
