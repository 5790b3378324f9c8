package release

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/itsameandrea/muesliup/internal/fsutil"
)

// System abstracts the filesystem and process operations the release pipeline
// performs. The interface is intentionally package-local; other packages
// define their own System interfaces with operations specific to their needs.
type System interface {
	LookPath(file string) (string, error)
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
	// Chtimes touches a file's timestamps; the rebuild marker touch rides on it.
	Chtimes(name string, atime time.Time, mtime time.Time) error
	CopyFile(src string, dst string, perm os.FileMode) error
	// Output runs the command in dir and returns its stdout.
	Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
	// RunStreaming runs the command in dir with its output attached to the
	// given writers, so gate and build progress reaches the operator live.
	RunStreaming(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// RealSystem implements System using the os and os/exec packages.
type RealSystem struct{}

// LookPath searches for an executable on PATH.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFileAtomic writes data to a file atomically by writing to a temp file and renaming.
func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(filename, data, perm)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Chtimes changes the access and modification times of the named file.
func (RealSystem) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

// CopyFile copies src to dst atomically with the given permissions.
func (RealSystem) CopyFile(src string, dst string, perm os.FileMode) error {
	return fsutil.CopyFileAtomic(src, dst, perm)
}

// Output runs the command in dir and returns its stdout.
func (RealSystem) Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// RunStreaming runs the command in dir with stdout and stderr attached.
func (RealSystem) RunStreaming(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
