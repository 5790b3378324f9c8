// Package service renders and installs the muesli systemd user unit.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/itsameandrea/muesliup/internal/fsutil"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/templates"
)

const unitTemplatePath = "muesli.service"

// System is the minimal interface needed for unit installation. It is
// intentionally package-local; other packages define their own System
// interfaces with the operations they need.
type System interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error
	Run(ctx context.Context, name string, args ...string) error
}

// RealSystem implements System using actual system calls.
type RealSystem struct{}

// MkdirAll creates a directory and all parent directories.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFileAtomic writes data to path atomically.
func (RealSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(path, data, perm)
}

// Run executes a command, discarding its output.
func (RealSystem) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// RenderUnit returns the systemd user unit with binaryPath substituted for
// the template placeholder.
func RenderUnit(binaryPath string) ([]byte, error) {
	data, err := templates.Read(unitTemplatePath)
	if err != nil {
		return nil, fmt.Errorf(messages.SystemReadFileFmt, unitTemplatePath, err)
	}
	return bytes.ReplaceAll(data, []byte(templates.BinaryPlaceholder), []byte(binaryPath)), nil
}

// WriteUnit renders the unit for binaryPath and writes it to unitPath,
// creating the systemd user directory if needed.
func WriteUnit(sys System, unitPath string, binaryPath string) error {
	data, err := RenderUnit(binaryPath)
	if err != nil {
		return err
	}
	dir := filepath.Dir(unitPath)
	if err := sys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.SystemCreateDirFmt, dir, err)
	}
	if err := sys.WriteFileAtomic(unitPath, data, 0o644); err != nil {
		return fmt.Errorf(messages.SystemWriteFileFmt, unitPath, err)
	}
	return nil
}

// Reload asks the user systemd instance to pick up unit changes.
func Reload(ctx context.Context, sys System) error {
	if err := sys.Run(ctx, "systemctl", "--user", "daemon-reload"); err != nil {
		return fmt.Errorf(messages.SystemRunCommandFmt, "systemctl --user daemon-reload", err)
	}
	return nil
}
