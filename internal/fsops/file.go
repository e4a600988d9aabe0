package fsops

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"
)

// WriteFile writes data to path, fully replacing any previous content.
// A missing parent directory chain is created first, with the same mode
// and owner options; failure to create it aborts before any write. After
// a successful write the options are applied to the file itself.
func (o *Ops) WriteFile(path string, data []byte, opts ...Option) error {
	return o.writeFile("write_file", path, data, opts)
}

// WriteText writes text content to path with WriteFile semantics. The
// payload is UTF-8 encoded text; Go strings carry it as-is.
func (o *Ops) WriteText(path string, text string, opts ...Option) error {
	return o.writeFile("write_text", path, []byte(text), opts)
}

func (o *Ops) writeFile(op, path string, data []byte, opts []Option) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." && !o.DirExists(dir) {
		o.log.Info("parent directory missing, creating it",
			zap.String("path", path), zap.String("dir", dir))
		if err := o.CreateDir(dir, opts...); err != nil {
			return opError(op, KindCreate, path, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		o.log.Error("failed to write file", zap.String("path", path), zap.Error(err))
		return opError(op, KindWrite, path, err)
	}
	if err := collectOpts(opts).apply(path); err != nil {
		o.log.Error("failed to apply file attributes", zap.String("path", path), zap.Error(err))
		return opError(op, KindWrite, path, err)
	}

	o.log.Debug("file written", zap.String("path", path), zap.Int("size", len(data)))
	return nil
}

// ReadFile returns the raw contents of path.
func (o *Ops) ReadFile(path string) ([]byte, error) {
	if !o.FileExists(path) {
		o.log.Error("file not found", zap.String("path", path))
		return nil, notFound("read_file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		o.log.Error("failed to read file", zap.String("path", path), zap.Error(err))
		return nil, opError("read_file", KindRead, path, err)
	}

	o.log.Debug("file read", zap.String("path", path), zap.Int("size", len(data)))
	return data, nil
}

// ReadText returns the contents of path as UTF-8 text. A payload that is
// not well-formed UTF-8 is a read failure, not silently mangled text.
func (o *Ops) ReadText(path string) (string, error) {
	if !o.FileExists(path) {
		o.log.Error("file not found", zap.String("path", path))
		return "", notFound("read_text", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		o.log.Error("failed to read file", zap.String("path", path), zap.Error(err))
		return "", opError("read_text", KindRead, path, err)
	}
	if !utf8.Valid(data) {
		o.log.Error("file is not valid UTF-8 text", zap.String("path", path))
		return "", opError("read_text", KindRead, path, errInvalidUTF8)
	}

	o.log.Debug("text file read", zap.String("path", path), zap.Int("size", len(data)))
	return string(data), nil
}

// RemoveFile deletes path.
func (o *Ops) RemoveFile(path string) error {
	if !o.FileExists(path) {
		o.log.Error("file does not exist", zap.String("path", path))
		return notFound("remove_file", path)
	}

	if err := os.Remove(path); err != nil {
		o.log.Error("failed to remove file", zap.String("path", path), zap.Error(err))
		return opError("remove_file", KindRemove, path, err)
	}

	o.log.Debug("file removed", zap.String("path", path))
	return nil
}

// RenameFile renames src to dst, refusing to overwrite an existing file.
func (o *Ops) RenameFile(src, dst string) error {
	if !o.FileExists(src) {
		o.log.Error("source file does not exist", zap.String("src", src))
		return notFound("rename_file", src)
	}
	if o.FileExists(dst) {
		o.log.Error("destination file already exists", zap.String("dst", dst))
		return alreadyExists("rename_file", src, dst)
	}

	if err := os.Rename(src, dst); err != nil {
		o.log.Error("failed to rename file",
			zap.String("src", src), zap.String("dst", dst), zap.Error(err))
		return pairError("rename_file", KindRename, src, dst, err)
	}

	o.log.Debug("file renamed", zap.String("src", src), zap.String("dst", dst))
	return nil
}

// MoveFile moves src to dst. As with MoveDir, dst is not pre-checked;
// overwrite behavior is the host primitive's.
func (o *Ops) MoveFile(src, dst string) error {
	if !o.FileExists(src) {
		o.log.Error("source file does not exist", zap.String("src", src))
		return notFound("move_file", src)
	}

	if err := os.Rename(src, dst); err != nil {
		o.log.Error("failed to move file",
			zap.String("src", src), zap.String("dst", dst), zap.Error(err))
		return pairError("move_file", KindMove, src, dst, err)
	}

	o.log.Debug("file moved", zap.String("src", src), zap.String("dst", dst))
	return nil
}

// CopyFile copies src to dst, preserving mode and modification time. It
// refuses to overwrite an existing destination file.
func (o *Ops) CopyFile(src, dst string) error {
	if !o.FileExists(src) {
		o.log.Error("source file does not exist", zap.String("src", src))
		return notFound("copy_file", src)
	}
	if o.FileExists(dst) {
		o.log.Error("destination file already exists", zap.String("dst", dst))
		return alreadyExists("copy_file", src, dst)
	}

	if err := copyFileContents(src, dst); err != nil {
		o.log.Error("failed to copy file",
			zap.String("src", src), zap.String("dst", dst), zap.Error(err))
		return pairError("copy_file", KindCopy, src, dst, err)
	}

	o.log.Debug("file copied", zap.String("src", src), zap.String("dst", dst))
	return nil
}
