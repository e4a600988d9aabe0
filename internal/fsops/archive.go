package fsops

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// CreateZip packs the tree at src into a ZIP archive at out. The usual
// copy preconditions hold: src must be a directory and out must not
// already exist as a file.
func (o *Ops) CreateZip(src, out string) error {
	if !o.DirExists(src) {
		o.log.Error("source directory does not exist", zap.String("src", src))
		return notFound("create_zip", src)
	}
	if o.FileExists(out) {
		o.log.Error("archive already exists", zap.String("dst", out))
		return alreadyExists("create_zip", src, out)
	}

	f, err := os.Create(out)
	if err != nil {
		return pairError("create_zip", KindCreate, src, out, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	conf := fastwalk.Config{Follow: false, NumWorkers: 1}
	err = fastwalk.Walk(&conf, src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == src || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		in, err := os.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		zw.Close()
		o.log.Error("failed to create zip",
			zap.String("src", src), zap.String("dst", out), zap.Error(err))
		return pairError("create_zip", KindCreate, src, out, err)
	}
	if err := zw.Close(); err != nil {
		return pairError("create_zip", KindCreate, src, out, err)
	}

	o.log.Debug("zip created", zap.String("src", src), zap.String("dst", out))
	return nil
}

// ExtractZip unpacks the archive at path into dst, creating dst if needed.
func (o *Ops) ExtractZip(path, dst string) error {
	if !o.FileExists(path) {
		o.log.Error("archive not found", zap.String("path", path))
		return notFound("extract_zip", path)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return pairError("extract_zip", KindRead, path, dst, err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := securePath(dst, f.Name)
		if err != nil {
			return pairError("extract_zip", KindWrite, path, dst, err)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return pairError("extract_zip", KindWrite, path, dst, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return pairError("extract_zip", KindWrite, path, dst, err)
		}
		if err := extractZipFile(f, target); err != nil {
			o.log.Error("failed to extract zip entry",
				zap.String("path", path), zap.String("entry", f.Name), zap.Error(err))
			return pairError("extract_zip", KindWrite, path, dst, err)
		}
	}

	o.log.Debug("zip extracted", zap.String("path", path), zap.String("dst", dst))
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CreateTarGz packs the tree at src into a gzip-compressed tar archive.
func (o *Ops) CreateTarGz(src, out string) error {
	if !o.DirExists(src) {
		o.log.Error("source directory does not exist", zap.String("src", src))
		return notFound("create_targz", src)
	}
	if o.FileExists(out) {
		o.log.Error("archive already exists", zap.String("dst", out))
		return alreadyExists("create_targz", src, out)
	}

	f, err := os.Create(out)
	if err != nil {
		return pairError("create_targz", KindCreate, src, out, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	conf := fastwalk.Config{Follow: false, NumWorkers: 1}
	err = fastwalk.Walk(&conf, src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == src {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := os.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(tw, in)
		return err
	})
	if err == nil {
		err = tw.Close()
	} else {
		tw.Close()
	}
	if err == nil {
		err = gz.Close()
	} else {
		gz.Close()
	}
	if err != nil {
		o.log.Error("failed to create tar.gz",
			zap.String("src", src), zap.String("dst", out), zap.Error(err))
		return pairError("create_targz", KindCreate, src, out, err)
	}

	o.log.Debug("tar.gz created", zap.String("src", src), zap.String("dst", out))
	return nil
}

// ExtractTarGz unpacks a gzip-compressed tar archive at path into dst.
func (o *Ops) ExtractTarGz(path, dst string) error {
	if !o.FileExists(path) {
		o.log.Error("archive not found", zap.String("path", path))
		return notFound("extract_targz", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return pairError("extract_targz", KindRead, path, dst, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return pairError("extract_targz", KindRead, path, dst, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pairError("extract_targz", KindRead, path, dst, err)
		}

		target, err := securePath(dst, hdr.Name)
		if err != nil {
			return pairError("extract_targz", KindWrite, path, dst, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode).Perm()); err != nil {
				return pairError("extract_targz", KindWrite, path, dst, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return pairError("extract_targz", KindWrite, path, dst, err)
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return pairError("extract_targz", KindWrite, path, dst, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return pairError("extract_targz", KindWrite, path, dst, err)
			}
			if err := out.Close(); err != nil {
				return pairError("extract_targz", KindWrite, path, dst, err)
			}
		}
	}

	o.log.Debug("tar.gz extracted", zap.String("path", path), zap.String("dst", dst))
	return nil
}

// securePath joins an archive entry name under dst, rejecting entries
// that would escape it.
func securePath(dst, name string) (string, error) {
	target := filepath.Join(dst, filepath.FromSlash(name))
	if target != filepath.Clean(dst) && !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal entry path %q", name)
	}
	return target, nil
}
