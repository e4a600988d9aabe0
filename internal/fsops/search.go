package fsops

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// Glob returns the files under root whose path relative to root matches
// pattern. Patterns support gitignore-style ** segments. Directories are
// not reported.
func (o *Ops) Glob(root, pattern string) ([]string, error) {
	if !o.DirExists(root) {
		o.log.Error("directory does not exist", zap.String("path", root))
		return nil, notFound("glob", root)
	}
	if !doublestar.ValidatePattern(pattern) {
		o.log.Error("invalid glob pattern",
			zap.String("path", root), zap.String("pattern", pattern))
		return nil, opError("glob", KindList, root, doublestar.ErrBadPattern)
	}

	matches := []string{}
	conf := fastwalk.Config{Follow: false, NumWorkers: 1}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		o.log.Error("glob walk failed", zap.String("path", root), zap.Error(err))
		return nil, opError("glob", KindList, root, err)
	}

	o.log.Debug("glob", zap.String("path", root),
		zap.String("pattern", pattern), zap.Int("count", len(matches)))
	return matches, nil
}
