// Package fsops wraps host filesystem primitives behind a uniform,
// consistently-logged surface: existence checks, creation, listing,
// removal, rename, move and copy for directories and files.
//
// Every mutating operation checks its existence preconditions before
// touching the filesystem and fails fast with a classified *Error rather
// than relying on the OS call to report the violation. The check and the
// mutation are not transactional: a concurrent process can still win the
// race between them, and that window is accepted rather than locked away.
package fsops

import (
	"os"

	"go.uber.org/zap"

	"github.com/kestrelworks/fskit/internal/logging"
)

// Ops performs filesystem operations. It holds no state beyond the
// injected logger; every call observes the filesystem fresh.
type Ops struct {
	log *logging.Logger
}

// New creates an Ops with the given logger. A nil logger is replaced with
// a no-op one.
func New(log *logging.Logger) *Ops {
	if log == nil {
		log = logging.NewNop()
	}
	return &Ops{log: log}
}

// DirExists reports whether path resolves to a directory. Unreadable or
// unauthorized paths resolve to false; there is no error path.
func (o *Ops) DirExists(path string) bool {
	info, err := os.Stat(path)
	exists := err == nil && info.IsDir()
	o.log.Debug("checked directory existence",
		zap.String("path", path), zap.Bool("exists", exists))
	return exists
}

// FileExists reports whether path resolves to a regular file, with the
// same no-error-path policy as DirExists.
func (o *Ops) FileExists(path string) bool {
	info, err := os.Stat(path)
	exists := err == nil && info.Mode().IsRegular()
	o.log.Debug("checked file existence",
		zap.String("path", path), zap.Bool("exists", exists))
	return exists
}
