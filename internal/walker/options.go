package walker

import (
	"io/fs"
	"log/slog"
	"os"
)

// FileSystem is the subset of filesystem operations the walker needs.
// Stat must follow symbolic links.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

// Option configures a Walker.
type Option func(*Walker)

// WithFS substitutes the filesystem used for status and listing calls.
func WithFS(fsys FileSystem) Option {
	return func(w *Walker) {
		if fsys != nil {
			w.fsys = fsys
		}
	}
}

// WithLogger enables debug tracing of individual walk steps.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
