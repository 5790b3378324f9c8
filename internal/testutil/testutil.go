// Package testutil provides shell-stub helpers for exec-backed tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	writeStubScript(t, dir, name, fmt.Sprintf("#!/bin/sh\nexit %d\n", exitCode))
}

// WriteStubWithOutput writes an executable shell stub that prints output and exits 0.
func WriteStubWithOutput(t *testing.T, dir string, name string, output string) {
	t.Helper()
	writeStubScript(t, dir, name, fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' %q\nexit 0\n", output))
}

// WriteStubRecording writes an executable shell stub that appends its
// invocation (name and arguments) to logPath and exits 0.
func WriteStubRecording(t *testing.T, dir string, name string, logPath string) {
	t.Helper()
	writeStubScript(t, dir, name, fmt.Sprintf("#!/bin/sh\necho \"%s $@\" >> %q\nexit 0\n", name, logPath))
}

func writeStubScript(t *testing.T, dir string, name string, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}
