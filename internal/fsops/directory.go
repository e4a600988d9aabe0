package fsops

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// CreateDir creates path and any missing parents. Idempotent: an existing
// directory is success, and its mode and owner are left untouched. Options
// apply only to a directory this call actually creates.
func (o *Ops) CreateDir(path string, opts ...Option) error {
	if o.DirExists(path) {
		o.log.Debug("directory already exists", zap.String("path", path))
		return nil
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		o.log.Error("failed to create directory", zap.String("path", path), zap.Error(err))
		return opError("create_dir", KindCreate, path, err)
	}
	if err := collectOpts(opts).apply(path); err != nil {
		o.log.Error("failed to apply directory attributes", zap.String("path", path), zap.Error(err))
		return opError("create_dir", KindCreate, path, err)
	}

	o.log.Debug("directory created", zap.String("path", path))
	return nil
}

// ListDir lists path. Non-recursive: names of immediate children, files
// and subdirectories alike, in OS enumeration order. Recursive: paths of
// all files in the subtree relative to path, host separator; directories
// themselves are not listed. Any traversal error aborts the whole call.
func (o *Ops) ListDir(path string, recursive bool) ([]string, error) {
	if !o.DirExists(path) {
		o.log.Error("directory does not exist", zap.String("path", path))
		return nil, notFound("list_dir", path)
	}

	if !recursive {
		entries, err := os.ReadDir(path)
		if err != nil {
			o.log.Error("failed to list directory", zap.String("path", path), zap.Error(err))
			return nil, opError("list_dir", KindList, path, err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		o.log.Debug("listed directory",
			zap.String("path", path), zap.Int("count", len(names)))
		return names, nil
	}

	files := []string{}
	conf := fastwalk.Config{Follow: false, NumWorkers: 1}
	err := fastwalk.Walk(&conf, path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		o.log.Error("failed to walk directory", zap.String("path", path), zap.Error(err))
		return nil, opError("list_dir", KindList, path, err)
	}

	o.log.Debug("listed directory recursively",
		zap.String("path", path), zap.Int("count", len(files)))
	return files, nil
}

// RemoveDir removes path and all its contents.
func (o *Ops) RemoveDir(path string) error {
	if !o.DirExists(path) {
		o.log.Error("directory does not exist", zap.String("path", path))
		return notFound("remove_dir", path)
	}

	if err := os.RemoveAll(path); err != nil {
		o.log.Error("failed to remove directory", zap.String("path", path), zap.Error(err))
		return opError("remove_dir", KindRemove, path, err)
	}

	o.log.Debug("directory removed", zap.String("path", path))
	return nil
}

// RenameDir renames src to dst. Fails if dst is already a directory; it
// never overwrites or merges.
func (o *Ops) RenameDir(src, dst string) error {
	if !o.DirExists(src) {
		o.log.Error("source directory does not exist", zap.String("src", src))
		return notFound("rename_dir", src)
	}
	if o.DirExists(dst) {
		o.log.Error("destination directory already exists", zap.String("dst", dst))
		return alreadyExists("rename_dir", src, dst)
	}

	if err := os.Rename(src, dst); err != nil {
		o.log.Error("failed to rename directory",
			zap.String("src", src), zap.String("dst", dst), zap.Error(err))
		return pairError("rename_dir", KindRename, src, dst, err)
	}

	o.log.Debug("directory renamed", zap.String("src", src), zap.String("dst", dst))
	return nil
}

// MoveDir moves src to dst. Unlike RenameDir there is no precondition on
// dst: conflict semantics are whatever the host rename primitive does.
func (o *Ops) MoveDir(src, dst string) error {
	if !o.DirExists(src) {
		o.log.Error("source directory does not exist", zap.String("src", src))
		return notFound("move_dir", src)
	}

	if err := os.Rename(src, dst); err != nil {
		o.log.Error("failed to move directory",
			zap.String("src", src), zap.String("dst", dst), zap.Error(err))
		return pairError("move_dir", KindMove, src, dst, err)
	}

	o.log.Debug("directory moved", zap.String("src", src), zap.String("dst", dst))
	return nil
}

// CopyDir recursively copies the tree at src to dst, preserving file mode
// and modification times. It never merges into an existing destination.
func (o *Ops) CopyDir(src, dst string) error {
	if !o.DirExists(src) {
		o.log.Error("source directory does not exist", zap.String("src", src))
		return notFound("copy_dir", src)
	}
	if o.DirExists(dst) {
		o.log.Error("destination directory already exists", zap.String("dst", dst))
		return alreadyExists("copy_dir", src, dst)
	}

	if err := copyTree(src, dst); err != nil {
		o.log.Error("failed to copy directory",
			zap.String("src", src), zap.String("dst", dst), zap.Error(err))
		return pairError("copy_dir", KindCopy, src, dst, err)
	}

	o.log.Debug("directory copied", zap.String("src", src), zap.String("dst", dst))
	return nil
}

// copyTree duplicates src under dst. dst must not exist yet.
func copyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		switch {
		case entry.IsDir():
			if err := copyTree(from, to); err != nil {
				return err
			}
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(from)
			if err != nil {
				return err
			}
			if err := os.Symlink(target, to); err != nil {
				return err
			}
		default:
			if err := copyFileContents(from, to); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFileContents copies a single regular file, carrying over mode and
// modification time.
func copyFileContents(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
