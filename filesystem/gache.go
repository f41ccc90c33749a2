package filesystem

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// GacheFs stores gache cache files on an afero filesystem.
// The zero value follows the active backend, so caches move to memory under SetMemMapFs.
type GacheFs struct {
	// Fs pins the cache to a specific filesystem.
	Fs afero.Fs
}

func (g *GacheFs) fs() afero.Fs {
	if g.Fs != nil {
		return g.Fs
	}
	return API().Fs
}

func (g *GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return g.fs().OpenFile(name, flag, perm)
}

func (g *GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return g.fs().MkdirAll(path, perm)
}
