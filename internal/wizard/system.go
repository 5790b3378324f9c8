package wizard

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/itsameandrea/muesliup/internal/fsutil"
)

// System abstracts the filesystem and process operations the setup flow
// performs. The interface is intentionally package-local; other packages
// define their own System interfaces with the operations they need. Its
// method set covers the service, hyprland, and waybar System interfaces, so
// one implementation drives every step.
type System interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error
	LookPath(file string) (string, error)
	// Run executes a command discarding its output; only the exit status
	// matters.
	Run(ctx context.Context, name string, args ...string) error
	// RunStreaming executes a command with output attached to the given
	// writers so package installs show live progress.
	RunStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
}

// RealSystem implements System against the host.
type RealSystem struct{}

// Stat returns file info for the named path.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll creates a directory and any missing parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// ReadFile reads the named file.
func (RealSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFileAtomic writes data via a temp file and rename.
func (RealSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(path, data, perm)
}

// LookPath searches for an executable on PATH.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command with its output discarded.
func (RealSystem) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// RunStreaming executes a command with stdout and stderr attached. Stdin is
// passed through; sudo reads its password prompt from it.
func (RealSystem) RunStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
