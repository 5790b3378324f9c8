package install

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/itsameandrea/muesliup/internal/fsutil"
)

// System abstracts the filesystem, environment, and command execution the
// installer and uninstaller touch. It is intentionally package-local; other
// packages define their own System interfaces with the operations they need.
type System interface {
	LookPath(file string) (string, error)
	LookupEnv(key string) (string, bool)
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	MkdirTemp(dir string, pattern string) (string, error)
	CreateTemp(dir string, pattern string) (*os.File, error)
	Remove(name string) error
	RemoveAll(path string) error
	CopyFile(src string, dst string, perm os.FileMode) error
	WalkDir(root string, fn fs.WalkDirFunc) error
	Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
	RunStreaming(ctx context.Context, dir string, stdout io.Writer, stderr io.Writer, name string, args ...string) error
}

// RealSystem implements System against the real host.
type RealSystem struct{}

// LookPath searches PATH for an executable.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// LookupEnv returns the value and presence of an environment variable.
func (RealSystem) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MkdirTemp creates a new temporary directory.
func (RealSystem) MkdirTemp(dir string, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// CreateTemp creates a new temporary file.
func (RealSystem) CreateTemp(dir string, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

// Remove removes the named file.
func (RealSystem) Remove(name string) error {
	return os.Remove(name)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// CopyFile copies src to dst atomically, staging in dst's directory so the
// final rename never crosses filesystems.
func (RealSystem) CopyFile(src string, dst string, perm os.FileMode) error {
	return fsutil.CopyFileAtomic(src, dst, perm)
}

// WalkDir walks the file tree rooted at root.
func (RealSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// Output runs a command in dir and returns its standard output.
func (RealSystem) Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// RunStreaming runs a command in dir with output streamed to the given writers.
func (RealSystem) RunStreaming(ctx context.Context, dir string, stdout io.Writer, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
