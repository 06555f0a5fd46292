package host

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Root is one place template sources are read from.
type Root interface {
	Name() string
	// ReadFile returns an error matching fs.ErrNotExist when the key is
	// absent.
	ReadFile(key string) ([]byte, error)
}

// ResourceRoot reads from a bundled fs.FS. Keys use host separators and are
// converted to slash form; absolute keys and keys escaping the bundle are
// reported as missing.
type ResourceRoot struct {
	fsys fs.FS
}

// NewResourceRoot wraps a bundled resource filesystem.
func NewResourceRoot(fsys fs.FS) *ResourceRoot {
	return &ResourceRoot{fsys: fsys}
}

func (r *ResourceRoot) Name() string {
	return "resources"
}

func (r *ResourceRoot) ReadFile(key string) ([]byte, error) {
	if filepath.IsAbs(key) {
		return nil, fs.ErrNotExist
	}
	name := filepath.ToSlash(key)
	if !fs.ValidPath(name) {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(r.fsys, name)
}

// FileSystemRoot reads from a billy filesystem. Relative keys are joined to
// the working directory, absolute keys are used as-is.
type FileSystemRoot struct {
	files   billy.Basic
	workDir string
}

// NewFileSystemRoot wraps files rooted at workDir.
func NewFileSystemRoot(files billy.Basic, workDir string) *FileSystemRoot {
	return &FileSystemRoot{files: files, workDir: workDir}
}

func (r *FileSystemRoot) Name() string {
	return fmt.Sprintf("filesystem(%s)", r.workDir)
}

func (r *FileSystemRoot) ReadFile(key string) ([]byte, error) {
	path := key
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.workDir, key)
	}
	return util.ReadFile(r.files, path)
}
