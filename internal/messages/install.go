package messages

// Installer and uninstaller messages.
const (
	// InstallUse is the install command usage.
	InstallUse = "install [version]"
	// InstallShort is the short description for the install command.
	InstallShort      = "Install a prebuilt muesli binary, or build it from source"
	InstallLong       = "Download the muesli release variant matching this machine, verify its checksum, and install it. Falls back to a shallow clone and source build when no artifact is available."
	InstallFlagStrict = "Treat a checksum mismatch as a fatal error instead of a warning"

	InstallUnsupportedPlatformFmt = "unsupported platform %s/%s (supported: linux/x86_64, darwin/x86_64, darwin/arm64)"
	InstallResolveLatestFmt       = "resolve latest release: %w"
	InstallResolvedFmt            = "Installing muesli %s (%s)\n"
	InstallDownloadingFmt         = "Downloading %s\n"
	InstallDownloadFailedFmt      = "download %s: %w"
	InstallDownloadStatusFmt      = "download %s: unexpected status %s"
	InstallDownloadTooLargeFmt    = "download %s: asset exceeds the %d byte size cap"
	InstallChecksumFetchFailedFmt = "fetch checksum %s: %w"
	InstallChecksumParseFmt       = "parse checksum file %s: no checksum entry found"
	InstallChecksumMismatchFmt    = "checksum mismatch for %s (expected %s, got %s)"
	InstallIntegrityWarnFmt       = "Warning: %v; installing anyway (use --strict to refuse)\n"
	InstallIntegrityFatalFmt      = "integrity check failed: %w"
	InstallCreateTempFmt          = "create temp file: %w"
	InstallCreateTempDirFmt       = "create temp directory: %w"
	InstallMoveBinaryFmt          = "move binary into place: %w"
	InstallCreateDirFmt           = "create install directory %s: %w"
	InstallInstalledFmt           = "Installed muesli %s to %s\n"
	InstallVerifyFmt              = "verify installed binary: %w"
	InstallOnPath                 = "muesli is on your PATH\n"
	InstallNotOnPathFmt           = "Note: %s is not on your PATH; add it to your shell profile\n"

	InstallFallbackFmt         = "Warning: %v\nFalling back to a source build.\n"
	InstallCloningFmt          = "Cloning %s\n"
	InstallCloneFailedFmt      = "clone failed; re-run manually: %s"
	InstallFetchTagWarnFmt     = "Warning: could not fetch tag %s (%v); building default branch instead\n"
	InstallSourceBuildFmt      = "Building from source (%s)\n"
	InstallSourceBuildFailFmt  = "source build failed; re-run manually: %s"
	InstallSourceNoArtifactFmt = "source build produced no binary at %s"

	// UninstallUse is the uninstall command name.
	UninstallUse   = "uninstall"
	UninstallShort = "Remove the muesli binary, service, and optionally its data"

	UninstallNothingInstalled  = "muesli does not appear to be installed."
	UninstallHeader            = "This will remove:"
	UninstallBinaryFmt         = "  - Binary: %s\n"
	UninstallServiceFmt        = "  - Systemd service: %s\n"
	UninstallConfigFmt         = "  - Config directory: %s\n"
	UninstallDataFmt           = "  - Data directory: %s (recordings, models, database)\n"
	UninstallProceedPrompt     = "Proceed with uninstallation?"
	UninstallCancelled         = "Uninstallation cancelled."
	UninstallStoppingDaemon    = "Stopping muesli daemon..."
	UninstallRemovingService   = "Removing systemd service..."
	UninstallRemoveConfigFmt   = "Remove configuration directory (%s)?"
	UninstallRemovingConfig    = "Removing configuration..."
	UninstallKeepingConfig     = "Keeping configuration directory."
	UninstallDataSizeFmt       = "  Approximate size: %d MB\n"
	UninstallDataNote          = "Data directory contains recordings, models, and the meeting database."
	UninstallRemoveDataFmt     = "Remove data directory (%s)?"
	UninstallRemovingData      = "Removing data directory..."
	UninstallKeepingData       = "Keeping data directory."
	UninstallBinaryHintFmt     = "To complete uninstallation, remove the binary:\n  rm %s\n\n(Cannot self-delete a running binary)\n"
	UninstallDone              = "Uninstallation complete."
	UninstallKeptHeader        = "Some directories were kept. Remove manually if needed:"
	UninstallKeptFmt           = "  rm -rf %s\n"
	UninstallRequiresTerminal  = "uninstall prompts require an interactive terminal"
	UninstallRemoveWarnFmt     = "Warning: remove %s: %v\n"
)
