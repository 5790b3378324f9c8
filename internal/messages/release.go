package messages

// Release pipeline messages.
const (
	// ReleaseUse is the release command usage.
	ReleaseUse = "release [patch|minor|major|X.Y.Z]"
	// ReleaseShort is the short description for the release command.
	ReleaseShort       = "Cut a muesli release from the current checkout"
	ReleaseLong        = "Run the release pipeline: preconditions, version bump, quality gates, per-backend builds, checksums, tag, push, and the GitHub release."
	ReleaseFlagYes     = "Release from a non-release branch without prompting"
	ReleaseFlagRepoDir = "Repository checkout to release (defaults to the current directory)"

	ReleaseStageFmt   = "==> %s\n"
	ReleaseStartedFmt = "Releasing %s %s -> %s (run %s)\n"
	ReleaseDoneFmt    = "Released %s %s\n"
	ReleaseFailedFmt  = "release failed at %s: %w"
	ReleaseRunHintFmt = "  run: %s\n"

	ReleaseDirtyTree          = "working tree has uncommitted changes; commit or stash them first"
	ReleaseBranchPromptFmt    = "Branch %q is not a release branch (%s). Release anyway?"
	ReleaseBranchDeclined     = "release cancelled: not on a release branch"
	ReleaseBranchNeedsConfirm = "refusing to release from a non-release branch without confirmation; re-run with --yes"
	ReleaseToolMissingFmt     = "required tool %q not found on PATH"
	ReleaseGitStatusFmt       = "read git status: %w"
	ReleaseGitBranchFmt       = "read current branch: %w"

	ReleaseReadVersionFileFmt = "read version file %s: %w"
	ReleaseWriteVersionFmt    = "write version %s to %s: %w"
	ReleaseVersionLineMissing = "no version line found in version file"
	ReleaseRestoreVersionFmt  = "Warning: restore version file %s after release failure: %v\n"
	ReleaseGateFmt            = "Gate: %s\n"
	ReleaseGateFailedFmt      = "quality gate failed; re-run manually: %s"
	ReleaseCommandFailedFmt   = "command %q failed: %w"
	ReleaseUnsupportedHostFmt = "unsupported release host %s/%s"
	ReleaseBuildBackendFmt    = "Building %s\n"
	ReleaseBuildFailedFmt     = "build for backend %s failed; re-run manually: %s"
	ReleaseTouchMarkerFmt     = "touch rebuild marker %s: %w"
	ReleaseMissingArtifactFmt = "build for backend %s produced no artifact at %s"
	ReleaseStageArtifactFmt   = "stage artifact for backend %s: %w"
	ReleaseChecksumFmt        = "checksum %s: %w"
	ReleaseEmptyArtifactFmt   = "staged artifact %s is empty"
	ReleasePublishPairFmt     = "Publish: %s (%s)\n"
	ReleaseTagExistsFmt       = "tag %s already exists"
	ReleaseCommitFailedFmt    = "commit version bump: %w"
	ReleaseTagFailedFmt       = "create tag %s: %w"
	ReleasePushFailedFmt      = "push: %w"
	ReleaseGhFailedFmt        = "create GitHub release: %w"
	ReleaseInstallSkipNoCPU   = "no cpu artifact for this platform; skipping local install"
	ReleaseInstallCopyFmt     = "install built binary to %s: %w"
	ReleaseInstalledFmt       = "Installed %s\n"
	ReleaseVerifyInstallFmt   = "installed binary reports %q, expected %s"
	ReleaseCleanupFmt         = "Warning: remove staging directory %s: %v\n"
	ReleaseCreateStagingFmt   = "create staging directory: %w"
)
