// Package http exposes the filesystem operations over a REST API.
//
// Request paths are always relative to the configured storage root; the
// handlers refuse anything that would resolve outside it.
package http

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kestrelworks/fskit/internal/fsops"
	"github.com/kestrelworks/fskit/internal/logging"
	"github.com/kestrelworks/fskit/internal/monitoring"
	"github.com/kestrelworks/fskit/internal/structured"
)

// Handler serves the filesystem API.
type Handler struct {
	fs      *fsops.Ops
	store   *structured.Store
	metrics *monitoring.Metrics
	log     *logging.Logger
	root    string
}

// NewHandler creates a Handler rooted at root.
func NewHandler(fs *fsops.Ops, store *structured.Store, metrics *monitoring.Metrics, log *logging.Logger, root string) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{fs: fs, store: store, metrics: metrics, log: log, root: filepath.Clean(root)}
}

// Register wires the API routes onto r.
func (h *Handler) Register(r gin.IRouter) {
	fs := r.Group("/fs")
	{
		fs.GET("/exists", h.exists)

		fs.POST("/dir", h.createDir)
		fs.GET("/dir", h.listDir)
		fs.DELETE("/dir", h.removeDir)
		fs.POST("/dir/rename", h.pairOp("rename_dir", func(src, dst string) error { return h.fs.RenameDir(src, dst) }))
		fs.POST("/dir/move", h.pairOp("move_dir", func(src, dst string) error { return h.fs.MoveDir(src, dst) }))
		fs.POST("/dir/copy", h.pairOp("copy_dir", func(src, dst string) error { return h.fs.CopyDir(src, dst) }))

		fs.GET("/file", h.readFile)
		fs.POST("/file", h.writeFile)
		fs.DELETE("/file", h.removeFile)
		fs.POST("/file/rename", h.pairOp("rename_file", func(src, dst string) error { return h.fs.RenameFile(src, dst) }))
		fs.POST("/file/move", h.pairOp("move_file", func(src, dst string) error { return h.fs.MoveFile(src, dst) }))
		fs.POST("/file/copy", h.pairOp("copy_file", func(src, dst string) error { return h.fs.CopyFile(src, dst) }))

		fs.GET("/stat", h.stat)
		fs.GET("/mime", h.mimeType)
		fs.GET("/glob", h.glob)

		fs.POST("/archive/zip", h.pairOp("create_zip", func(src, dst string) error { return h.fs.CreateZip(src, dst) }))
		fs.POST("/archive/unzip", h.pairOp("extract_zip", func(src, dst string) error { return h.fs.ExtractZip(src, dst) }))
		fs.POST("/archive/targz", h.pairOp("create_targz", func(src, dst string) error { return h.fs.CreateTarGz(src, dst) }))
		fs.POST("/archive/untargz", h.pairOp("extract_targz", func(src, dst string) error { return h.fs.ExtractTarGz(src, dst) }))
	}

	mapping := r.Group("/mapping")
	{
		mapping.GET("", h.loadMapping)
		mapping.PUT("", h.saveMapping)
	}

	doc := r.Group("/doc")
	{
		doc.GET("", h.readDocument)
		doc.PUT("", h.writeDocument)
	}
}

// resolve joins a client-supplied relative path under the storage root,
// rejecting empty paths and escapes.
func (h *Handler) resolve(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}
	if filepath.IsAbs(rel) {
		return "", false
	}
	target := filepath.Join(h.root, filepath.FromSlash(rel))
	if target != h.root && !strings.HasPrefix(target, h.root+string(os.PathSeparator)) {
		return "", false
	}
	return target, true
}

func (h *Handler) resolveOrAbort(c *gin.Context, rel string) (string, bool) {
	path, ok := h.resolve(rel)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path", "path": rel})
	}
	return path, ok
}

// writeError maps an operation failure onto an HTTP status and body.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	kind := fsops.KindOf(err)
	h.metrics.RecordOpError(op, kind.String())

	status := http.StatusInternalServerError
	switch {
	case fsops.IsNotFound(err):
		status = http.StatusNotFound
	case fsops.IsExists(err):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind.String()})
}

type pathRequest struct {
	Path  string `json:"path" binding:"required"`
	Mode  string `json:"mode"`
	Owner string `json:"owner"`
}

type pairRequest struct {
	Src string `json:"src" binding:"required"`
	Dst string `json:"dst" binding:"required"`
}

type writeRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
	Binary  bool   `json:"binary"`
	Mode    string `json:"mode"`
	Owner   string `json:"owner"`
}

type mappingRequest struct {
	Path string             `json:"path" binding:"required"`
	Data structured.Mapping `json:"data"`
}

type documentRequest struct {
	Path   string             `json:"path" binding:"required"`
	Format string             `json:"format" binding:"required"`
	Data   structured.Mapping `json:"data"`
}

// parseOptions converts the optional mode/owner request fields.
func parseOptions(mode, owner string) ([]fsops.Option, error) {
	var opts []fsops.Option
	if mode != "" {
		bits, err := strconv.ParseUint(mode, 8, 32)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fsops.WithMode(os.FileMode(bits)))
	}
	if owner != "" {
		opts = append(opts, fsops.WithOwner(owner))
	}
	return opts, nil
}

func (h *Handler) exists(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}

	var exists bool
	if c.DefaultQuery("type", "file") == "dir" {
		exists = h.fs.DirExists(path)
	} else {
		exists = h.fs.FileExists(path)
	}
	c.JSON(http.StatusOK, gin.H{"path": c.Query("path"), "exists": exists})
}

func (h *Handler) createDir(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, ok := h.resolveOrAbort(c, req.Path)
	if !ok {
		return
	}
	opts, err := parseOptions(req.Mode, req.Owner)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode: " + req.Mode})
		return
	}

	timer := monitoring.NewTimer(h.metrics, "create_dir")
	if err := h.fs.CreateDir(path, opts...); err != nil {
		timer.Stop("error")
		h.writeError(c, "create_dir", err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"created": true, "path": req.Path})
}

func (h *Handler) listDir(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}
	recursive, _ := strconv.ParseBool(c.DefaultQuery("recursive", "false"))

	timer := monitoring.NewTimer(h.metrics, "list_dir")
	entries, err := h.fs.ListDir(path, recursive)
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "list_dir", err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{
		"path":    c.Query("path"),
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *Handler) removeDir(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}

	timer := monitoring.NewTimer(h.metrics, "remove_dir")
	if err := h.fs.RemoveDir(path); err != nil {
		timer.Stop("error")
		h.writeError(c, "remove_dir", err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"removed": true, "path": c.Query("path")})
}

// pairOp builds a handler for two-path operations (rename/move/copy and
// the archive endpoints).
func (h *Handler) pairOp(op string, fn func(src, dst string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pairRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		src, ok := h.resolveOrAbort(c, req.Src)
		if !ok {
			return
		}
		dst, ok := h.resolveOrAbort(c, req.Dst)
		if !ok {
			return
		}

		timer := monitoring.NewTimer(h.metrics, op)
		if err := fn(src, dst); err != nil {
			timer.Stop("error")
			h.writeError(c, op, err)
			return
		}
		timer.Stop("ok")
		c.JSON(http.StatusOK, gin.H{"done": true, "src": req.Src, "dst": req.Dst})
	}
}

func (h *Handler) readFile(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}
	binary, _ := strconv.ParseBool(c.DefaultQuery("binary", "false"))

	timer := monitoring.NewTimer(h.metrics, "read_file")
	if binary {
		data, err := h.fs.ReadFile(path)
		if err != nil {
			timer.Stop("error")
			h.writeError(c, "read_file", err)
			return
		}
		timer.Stop("ok")
		c.JSON(http.StatusOK, gin.H{
			"path":    c.Query("path"),
			"content": base64.StdEncoding.EncodeToString(data),
			"binary":  true,
			"size":    len(data),
		})
		return
	}

	text, err := h.fs.ReadText(path)
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "read_file", err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{
		"path":    c.Query("path"),
		"content": text,
		"binary":  false,
		"size":    len(text),
	})
}

func (h *Handler) writeFile(c *gin.Context) {
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, ok := h.resolveOrAbort(c, req.Path)
	if !ok {
		return
	}
	opts, err := parseOptions(req.Mode, req.Owner)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode: " + req.Mode})
		return
	}

	timer := monitoring.NewTimer(h.metrics, "write_file")
	if req.Binary {
		data, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			timer.Stop("error")
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is not valid base64"})
			return
		}
		err = h.fs.WriteFile(path, data, opts...)
		if err != nil {
			timer.Stop("error")
			h.writeError(c, "write_file", err)
			return
		}
	} else {
		if err := h.fs.WriteText(path, req.Content, opts...); err != nil {
			timer.Stop("error")
			h.writeError(c, "write_file", err)
			return
		}
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"written": true, "path": req.Path})
}

func (h *Handler) removeFile(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}

	timer := monitoring.NewTimer(h.metrics, "remove_file")
	if err := h.fs.RemoveFile(path); err != nil {
		timer.Stop("error")
		h.writeError(c, "remove_file", err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"removed": true, "path": c.Query("path")})
}

func (h *Handler) stat(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}

	info, err := h.fs.Stat(path)
	if err != nil {
		h.writeError(c, "stat", err)
		return
	}
	info.Path = c.Query("path")
	c.JSON(http.StatusOK, info)
}

func (h *Handler) mimeType(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}

	mime, err := h.fs.MimeType(path)
	if err != nil {
		h.writeError(c, "mime_type", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": c.Query("path"), "mime": mime})
}

func (h *Handler) glob(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}
	pattern := c.Query("pattern")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern parameter required"})
		return
	}

	timer := monitoring.NewTimer(h.metrics, "glob")
	matches, err := h.fs.Glob(path, pattern)
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "glob", err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{
		"path":    c.Query("path"),
		"pattern": pattern,
		"matches": matches,
		"count":   len(matches),
	})
}

func (h *Handler) loadMapping(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}

	timer := monitoring.NewTimer(h.metrics, "load_mapping")
	data := h.store.LoadMapping(path)
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"path": c.Query("path"), "data": data})
}

func (h *Handler) readDocument(c *gin.Context) {
	path, ok := h.resolveOrAbort(c, c.Query("path"))
	if !ok {
		return
	}
	format := c.Query("format")

	var (
		data structured.Mapping
		err  error
	)
	timer := monitoring.NewTimer(h.metrics, "read_"+format)
	switch format {
	case "json":
		data, err = h.store.ReadJSON(path)
	case "toml":
		data, err = h.store.ReadTOML(path)
	default:
		timer.Stop("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format: " + format})
		return
	}
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "read_"+format, err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"path": c.Query("path"), "format": format, "data": data})
}

func (h *Handler) writeDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, ok := h.resolveOrAbort(c, req.Path)
	if !ok {
		return
	}

	var err error
	timer := monitoring.NewTimer(h.metrics, "write_"+req.Format)
	switch req.Format {
	case "json":
		err = h.store.WriteJSON(path, req.Data)
	case "toml":
		err = h.store.WriteTOML(path, req.Data)
	default:
		timer.Stop("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format: " + req.Format})
		return
	}
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "write_"+req.Format, err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"saved": true, "path": req.Path, "format": req.Format})
}

func (h *Handler) saveMapping(c *gin.Context) {
	var req mappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, ok := h.resolveOrAbort(c, req.Path)
	if !ok {
		return
	}

	timer := monitoring.NewTimer(h.metrics, "save_mapping")
	if err := h.store.SaveMapping(path, req.Data); err != nil {
		timer.Stop("error")
		h.writeError(c, "save_mapping", err)
		return
	}
	timer.Stop("ok")
	c.JSON(http.StatusOK, gin.H{"saved": true, "path": req.Path})
}
