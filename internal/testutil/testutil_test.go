package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteStubCreatesExecutableThatSucceeds(t *testing.T) {
	dir := t.TempDir()
	stubPath := filepath.Join(dir, "ok-stub")
	WriteStub(t, dir, "ok-stub")

	info, err := os.Stat(stubPath)
	if err != nil {
		t.Fatalf("stat stub: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("expected mode 0755, got %#o", info.Mode().Perm())
	}

	cmd := exec.Command(stubPath)
	if err := cmd.Run(); err != nil {
		t.Fatalf("expected success exit, got %v", err)
	}
}

func TestWriteStubWithExitCreatesExecutableWithRequestedExitCode(t *testing.T) {
	dir := t.TempDir()
	stubPath := filepath.Join(dir, "exit-stub")
	WriteStubWithExit(t, dir, "exit-stub", 7)

	cmd := exec.Command(stubPath)
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected non-zero exit status")
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T", err)
	}
	if exitErr.ExitCode() != 7 {
		t.Fatalf("expected exit code 7, got %d", exitErr.ExitCode())
	}
}

func TestWriteStubWithOutputPrintsRequestedLine(t *testing.T) {
	dir := t.TempDir()
	WriteStubWithOutput(t, dir, "ver-stub", "muesli 1.2.3")

	out, err := exec.Command(filepath.Join(dir, "ver-stub")).Output()
	if err != nil {
		t.Fatalf("run stub: %v", err)
	}
	if string(out) != "muesli 1.2.3\n" {
		t.Fatalf("expected %q, got %q", "muesli 1.2.3\n", string(out))
	}
}

func TestWriteStubRecordingAppendsInvocations(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	WriteStubRecording(t, dir, "git", logPath)

	stubPath := filepath.Join(dir, "git")
	if err := exec.Command(stubPath, "status", "--porcelain").Run(); err != nil {
		t.Fatalf("first invocation: %v", err)
	}
	if err := exec.Command(stubPath, "push", "origin").Run(); err != nil {
		t.Fatalf("second invocation: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 recorded invocations, got %d: %q", len(lines), string(data))
	}
	if lines[0] != "git status --porcelain" {
		t.Fatalf("unexpected first record %q", lines[0])
	}
	if lines[1] != "git push origin" {
		t.Fatalf("unexpected second record %q", lines[1])
	}
}
