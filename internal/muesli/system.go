package muesli

import (
	"context"
	"io"
	"os/exec"
)

// System abstracts process execution for the muesli client.
// The interface is intentionally package-local; other packages define their
// own System interfaces with operations specific to their needs.
type System interface {
	LookPath(file string) (string, error)
	// Output runs the command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// RunStreaming runs the command with its output attached to the given
	// writers, so download progress reaches the operator's terminal live.
	RunStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
}

// RealSystem implements System using os/exec.
type RealSystem struct{}

// LookPath searches for an executable on PATH.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output runs the command and returns its stdout.
func (RealSystem) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// RunStreaming runs the command with stdout and stderr attached.
func (RealSystem) RunStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
