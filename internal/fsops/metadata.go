package fsops

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// FileInfo is the metadata snapshot returned by Stat.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	IsDir     bool      `json:"is_dir"`
	Mode      string    `json:"mode"`
	Modified  time.Time `json:"modified"`
	Extension string    `json:"extension,omitempty"`
}

// Stat returns metadata for path, file or directory.
func (o *Ops) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			o.log.Error("path not found", zap.String("path", path))
			return FileInfo{}, notFound("stat", path)
		}
		o.log.Error("failed to stat path", zap.String("path", path), zap.Error(err))
		return FileInfo{}, opError("stat", KindRead, path, err)
	}

	fi := FileInfo{
		Name:     info.Name(),
		Path:     path,
		Size:     info.Size(),
		IsDir:    info.IsDir(),
		Mode:     info.Mode().String(),
		Modified: info.ModTime(),
	}
	if !info.IsDir() {
		fi.Extension = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	o.log.Debug("stat", zap.String("path", path), zap.Int64("size", fi.Size))
	return fi, nil
}

// MimeType detects the MIME type of path from its content.
func (o *Ops) MimeType(path string) (string, error) {
	if !o.FileExists(path) {
		o.log.Error("file not found", zap.String("path", path))
		return "", notFound("mime_type", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		o.log.Error("failed to detect mime type", zap.String("path", path), zap.Error(err))
		return "", opError("mime_type", KindRead, path, err)
	}

	o.log.Debug("detected mime type",
		zap.String("path", path), zap.String("mime", mtype.String()))
	return mtype.String(), nil
}
