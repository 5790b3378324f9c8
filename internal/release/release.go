// Package release implements the muesli release pipeline: preconditions,
// version bump, quality gates, the per-backend build matrix, checksums, tag
// and push, the GitHub release entry, and the operator's local install.
package release

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/manifest"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
	"github.com/itsameandrea/muesliup/internal/procs"
	"github.com/itsameandrea/muesliup/internal/version"
)

// Stage names one pipeline stage; every failure is reported against the stage
// it happened in.
type Stage string

// Pipeline stages in execution order. Cleanup runs on every exit path.
const (
	StageCheckPreconditions Stage = "CheckPreconditions"
	StageBumpVersion        Stage = "BumpVersion"
	StageRunQualityGates    Stage = "RunQualityGates"
	StageBuildMatrix        Stage = "BuildMatrix"
	StagePublish            Stage = "Publish"
	StageTagAndPush         Stage = "TagAndPush"
	StageCreateRelease      Stage = "CreateRelease"
	StageLocalInstall       Stage = "LocalInstall"
	StageCleanup            Stage = "Cleanup"
)

var (
	// ErrPrecondition reports a release blocked before any mutation.
	ErrPrecondition = errors.New("release precondition failed")
	// ErrExternalTool reports a failed gate, build, git, or gh command.
	ErrExternalTool = errors.New("external tool failed")
)

// terminateDaemon is a seam for tests.
var terminateDaemon = procs.TerminateByPattern

// Options configure a pipeline run.
type Options struct {
	// RepoDir is the repository checkout to release.
	RepoDir string
	// Instruction is patch, minor, major, or an explicit X.Y.Z literal.
	Instruction string
	// AssumeYes releases from a non-release branch without prompting.
	AssumeYes bool
	// Confirm prompts the operator, consulted only for the non-release-branch
	// check when AssumeYes is unset. A nil Confirm declines.
	Confirm func(prompt string) (bool, error)
	// Out and Err receive progress output and warnings.
	Out io.Writer
	Err io.Writer
}

// Run executes the release pipeline described by the manifest. The staging
// directory is removed on every exit path; a failure before the release
// commit reverts the version file.
func Run(ctx context.Context, sys System, m *manifest.Manifest, opts Options) error {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	r := &run{sys: sys, m: m, opts: opts, runID: uuid.NewString()}

	stages := []struct {
		stage Stage
		fn    func(context.Context) error
	}{
		{StageCheckPreconditions, r.checkPreconditions},
		{StageBumpVersion, r.bumpVersion},
		{StageRunQualityGates, r.runQualityGates},
		{StageBuildMatrix, r.buildMatrix},
		{StagePublish, r.publish},
		{StageTagAndPush, r.tagAndPush},
		{StageCreateRelease, r.createRelease},
		{StageLocalInstall, r.localInstall},
	}

	defer r.cleanup()

	for _, s := range stages {
		_, _ = fmt.Fprintf(opts.Out, messages.ReleaseStageFmt, s.stage)
		if err := s.fn(ctx); err != nil {
			r.revertVersionFile()
			_, _ = fmt.Fprintf(opts.Err, messages.ReleaseRunHintFmt, r.runID)
			return fmt.Errorf(messages.ReleaseFailedFmt, s.stage, err)
		}
	}

	_, _ = fmt.Fprintf(opts.Out, messages.ReleaseDoneFmt, m.BinaryName, r.tag)
	return nil
}

type run struct {
	sys  System
	m    *manifest.Manifest
	opts Options

	runID      string
	stagingDir string
	current    string
	next       string
	tag        string
	bumped     bool
	artifacts  []stagedArtifact
}

type stagedArtifact struct {
	backend string
	name    string
	path    string
	sum     string
}

func (r *run) checkPreconditions(ctx context.Context) error {
	for _, tool := range []string{"git", "gh"} {
		if _, err := r.sys.LookPath(tool); err != nil {
			return fmt.Errorf("%w: "+messages.ReleaseToolMissingFmt, ErrPrecondition, tool)
		}
	}

	status, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf(messages.ReleaseGitStatusFmt, err)
	}
	if strings.TrimSpace(string(status)) != "" {
		return fmt.Errorf("%w: "+messages.ReleaseDirtyTree, ErrPrecondition)
	}

	branchOut, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return fmt.Errorf(messages.ReleaseGitBranchFmt, err)
	}
	branch := strings.TrimSpace(string(branchOut))
	if r.m.IsReleaseBranch(branch) || r.opts.AssumeYes {
		return nil
	}
	if r.opts.Confirm == nil {
		return fmt.Errorf("%w: "+messages.ReleaseBranchNeedsConfirm, ErrPrecondition)
	}
	prompt := fmt.Sprintf(messages.ReleaseBranchPromptFmt, branch, strings.Join(r.m.ReleaseBranches, ", "))
	ok, err := r.opts.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: "+messages.ReleaseBranchDeclined, ErrPrecondition)
	}
	return nil
}

func (r *run) bumpVersion(ctx context.Context) error {
	path := filepath.Join(r.opts.RepoDir, r.m.VersionFile)
	data, err := r.sys.ReadFile(path)
	if err != nil {
		return fmt.Errorf(messages.ReleaseReadVersionFileFmt, r.m.VersionFile, err)
	}
	current, err := readVersion(data)
	if err != nil {
		return fmt.Errorf(messages.ReleaseReadVersionFileFmt, r.m.VersionFile, err)
	}

	next, err := version.Resolve(current, r.opts.Instruction)
	if err != nil {
		return err
	}
	r.current = current
	r.next = next
	r.tag = "v" + next
	_, _ = fmt.Fprintf(r.opts.Out, messages.ReleaseStartedFmt, r.m.BinaryName, current, next, r.runID)

	tags, err := r.git(ctx, "tag", "--list", r.tag)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(tags)) != "" {
		return fmt.Errorf("%w: "+messages.ReleaseTagExistsFmt, ErrPrecondition, r.tag)
	}

	updated, err := rewriteVersion(data, next)
	if err != nil {
		return fmt.Errorf(messages.ReleaseWriteVersionFmt, next, r.m.VersionFile, err)
	}
	perm := os.FileMode(0o644)
	if fi, statErr := r.sys.Stat(path); statErr == nil {
		perm = fi.Mode().Perm()
	}
	if err := r.sys.WriteFileAtomic(path, updated, perm); err != nil {
		return fmt.Errorf(messages.ReleaseWriteVersionFmt, next, r.m.VersionFile, err)
	}
	r.bumped = true
	return nil
}

func (r *run) runQualityGates(ctx context.Context) error {
	for _, gate := range []string{r.m.Gates.Fmt, r.m.Gates.Lint, r.m.Gates.Test} {
		_, _ = fmt.Fprintf(r.opts.Out, messages.ReleaseGateFmt, gate)
		if err := r.sys.RunStreaming(ctx, r.opts.RepoDir, r.opts.Out, r.opts.Err, "sh", "-c", gate); err != nil {
			return fmt.Errorf("%w: "+messages.ReleaseGateFailedFmt, ErrExternalTool, gate)
		}
	}
	return nil
}

func (r *run) buildMatrix(ctx context.Context) error {
	platform, err := hostPlatform()
	if err != nil {
		return err
	}
	r.stagingDir = filepath.Join(os.TempDir(), "muesliup-release-"+r.runID)
	if err := r.sys.MkdirAll(r.stagingDir, 0o755); err != nil {
		return fmt.Errorf(messages.ReleaseCreateStagingFmt, err)
	}

	for _, backend := range r.m.Backends {
		_, _ = fmt.Fprintf(r.opts.Out, messages.ReleaseBuildBackendFmt, backend.Name)
		if r.m.RebuildMarker != "" {
			marker := filepath.Join(r.opts.RepoDir, r.m.RebuildMarker)
			now := time.Now()
			if err := r.sys.Chtimes(marker, now, now); err != nil {
				return fmt.Errorf(messages.ReleaseTouchMarkerFmt, r.m.RebuildMarker, err)
			}
		}
		if err := r.sys.RunStreaming(ctx, r.opts.RepoDir, r.opts.Out, r.opts.Err, "sh", "-c", backend.Command); err != nil {
			return fmt.Errorf("%w: "+messages.ReleaseBuildFailedFmt, ErrExternalTool, backend.Name, backend.Command)
		}

		built := filepath.Join(r.opts.RepoDir, backend.Artifact)
		if _, err := r.sys.Stat(built); err != nil {
			return fmt.Errorf(messages.ReleaseMissingArtifactFmt, backend.Name, backend.Artifact)
		}
		name := artifactName(r.m.BinaryName, platform, backend.Name)
		dest := filepath.Join(r.stagingDir, name)
		if err := r.sys.CopyFile(built, dest, 0o755); err != nil {
			return fmt.Errorf(messages.ReleaseStageArtifactFmt, backend.Name, err)
		}
		r.artifacts = append(r.artifacts, stagedArtifact{backend: backend.Name, name: name, path: dest})
	}
	return nil
}

func (r *run) publish(_ context.Context) error {
	for i := range r.artifacts {
		art := &r.artifacts[i]
		fi, err := r.sys.Stat(art.path)
		if err != nil {
			return fmt.Errorf(messages.ReleaseChecksumFmt, art.name, err)
		}
		if fi.Size() == 0 {
			return fmt.Errorf(messages.ReleaseEmptyArtifactFmt, art.name)
		}
		data, err := r.sys.ReadFile(art.path)
		if err != nil {
			return fmt.Errorf(messages.ReleaseChecksumFmt, art.name, err)
		}
		art.sum = fmt.Sprintf("%x", sha256.Sum256(data))
		sidecar := fmt.Sprintf("%s  %s\n", art.sum, art.name)
		if err := r.sys.WriteFileAtomic(art.path+".sha256", []byte(sidecar), 0o644); err != nil {
			return fmt.Errorf(messages.ReleaseChecksumFmt, art.name, err)
		}
		_, _ = fmt.Fprintf(r.opts.Out, messages.ReleasePublishPairFmt, art.name, art.sum)
	}
	return nil
}

func (r *run) tagAndPush(ctx context.Context) error {
	if _, err := r.git(ctx, "add", r.m.VersionFile); err != nil {
		return fmt.Errorf("%w: "+messages.ReleaseCommitFailedFmt, ErrExternalTool, err)
	}
	if _, err := r.git(ctx, "commit", "-m", r.tag); err != nil {
		return fmt.Errorf("%w: "+messages.ReleaseCommitFailedFmt, ErrExternalTool, err)
	}
	// The bump is committed; from here the worktree is clean and the failure
	// path must not touch the version file.
	r.bumped = false
	if _, err := r.git(ctx, "tag", "-a", r.tag, "-m", r.tag); err != nil {
		return fmt.Errorf("%w: "+messages.ReleaseTagFailedFmt, ErrExternalTool, r.tag, err)
	}
	if _, err := r.git(ctx, "push"); err != nil {
		return fmt.Errorf("%w: "+messages.ReleasePushFailedFmt, ErrExternalTool, err)
	}
	if _, err := r.git(ctx, "push", "origin", r.tag); err != nil {
		return fmt.Errorf("%w: "+messages.ReleasePushFailedFmt, ErrExternalTool, err)
	}
	return nil
}

func (r *run) createRelease(ctx context.Context) error {
	args := []string{"release", "create", r.tag, "--title", r.tag, "--generate-notes"}
	for _, art := range r.artifacts {
		args = append(args, art.path, art.path+".sha256")
	}
	if err := r.sys.RunStreaming(ctx, r.opts.RepoDir, r.opts.Out, r.opts.Err, "gh", args...); err != nil {
		return fmt.Errorf("%w: "+messages.ReleaseGhFailedFmt, ErrExternalTool, commandError("gh", args, err))
	}
	return nil
}

func (r *run) localInstall(ctx context.Context) error {
	var cpu *stagedArtifact
	for i := range r.artifacts {
		if r.artifacts[i].backend == "cpu" {
			cpu = &r.artifacts[i]
			break
		}
	}
	if cpu == nil {
		_, _ = fmt.Fprintln(r.opts.Err, messages.ReleaseInstallSkipNoCPU)
		return nil
	}

	if _, err := terminateDaemon(ctx, muesli.DaemonPattern); err != nil {
		return err
	}

	installDir, err := config.InstallDir()
	if err != nil {
		return err
	}
	if err := r.sys.MkdirAll(installDir, 0o755); err != nil {
		return fmt.Errorf(messages.SystemCreateDirFmt, installDir, err)
	}
	target := filepath.Join(installDir, r.m.BinaryName)
	if err := r.sys.CopyFile(cpu.path, target, 0o755); err != nil {
		return fmt.Errorf(messages.ReleaseInstallCopyFmt, target, err)
	}

	out, err := r.sys.Output(ctx, "", target, "--version")
	if err != nil {
		return commandError(target, []string{"--version"}, err)
	}
	fields := strings.Fields(string(out))
	got := ""
	if len(fields) > 0 {
		got = fields[len(fields)-1]
	}
	if got != r.next {
		return fmt.Errorf(messages.ReleaseVerifyInstallFmt, got, r.next)
	}
	_, _ = fmt.Fprintf(r.opts.Out, messages.ReleaseInstalledFmt, target)
	return nil
}

// cleanup removes the staging directory. It runs on every exit path.
func (r *run) cleanup() {
	if r.stagingDir == "" {
		return
	}
	if err := r.sys.RemoveAll(r.stagingDir); err != nil {
		_, _ = fmt.Fprintf(r.opts.Err, messages.ReleaseCleanupFmt, r.stagingDir, err)
	}
}

// revertVersionFile restores the version file after a failure that happened
// between the bump and the release commit. It runs on a fresh context so the
// revert still happens when the stage failed on a canceled one.
func (r *run) revertVersionFile() {
	if !r.bumped {
		return
	}
	if _, err := r.git(context.Background(), "checkout", "--", r.m.VersionFile); err != nil {
		_, _ = fmt.Fprintf(r.opts.Err, messages.ReleaseRestoreVersionFmt, r.m.VersionFile, err)
		return
	}
	r.bumped = false
}

func (r *run) git(ctx context.Context, args ...string) ([]byte, error) {
	out, err := r.sys.Output(ctx, r.opts.RepoDir, "git", args...)
	if err != nil {
		return nil, commandError("git", args, err)
	}
	return out, nil
}

// commandError wraps a failed command with its exact command line so the
// operator can re-run it manually; captured stderr is appended when present.
func commandError(name string, args []string, err error) error {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return fmt.Errorf(messages.ReleaseCommandFailedFmt, cmdline, fmt.Errorf("%w: %s", err, msg))
		}
	}
	return fmt.Errorf(messages.ReleaseCommandFailedFmt, cmdline, err)
}

// hostPlatform returns the artifact platform string for this machine,
// e.g. "linux-x86_64" or "macos-arm64".
func hostPlatform() (string, error) {
	return platformString(runtime.GOOS, runtime.GOARCH)
}

func platformString(goos string, goarch string) (string, error) {
	var osName string
	switch goos {
	case "linux":
		osName = "linux"
	case "darwin":
		osName = "macos"
	default:
		return "", fmt.Errorf(messages.ReleaseUnsupportedHostFmt, goos, goarch)
	}
	var arch string
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "arm64"
	default:
		return "", fmt.Errorf(messages.ReleaseUnsupportedHostFmt, goos, goarch)
	}
	return osName + "-" + arch, nil
}

// artifactName encodes platform and backend into the staged artifact name.
// macOS artifacts carry no backend suffix: the distribution table resolves
// them by architecture alone.
func artifactName(binary string, platform string, backend string) string {
	if strings.HasPrefix(platform, "macos") {
		return binary + "-" + platform
	}
	return binary + "-" + platform + "-" + backend
}
