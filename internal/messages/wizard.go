package messages

// Setup wizard messages.
const (
	// SetupUse is the setup command name.
	SetupUse   = "setup"
	SetupShort = "Run muesli's interactive first-run setup"
	SetupLong  = "Walk through muesli's first-run configuration: directories, default config, GPU backend, transcription models, the systemd service, and Hyprland/Waybar integration. Every step can be skipped and re-run later."

	SetupRequiresTerminal = "setup requires an interactive terminal"
	SetupTitle            = "muesli Setup"

	WizardStepBannerFmt = "[%d/%d] %s"
	WizardExitPrompt    = "Exit setup?"

	WizardStepDirectories = "Directories"
	WizardStepConfig      = "Configuration"
	WizardStepBackend     = "GPU Acceleration"
	WizardStepModel       = "Transcription Model"
	WizardStepDiarization = "Speaker Diarization"
	WizardStepStreaming   = "Streaming Transcription"
	WizardStepService     = "Systemd Service"
	WizardStepEnv         = "Desktop Integration"

	WizardDirConfigFmt = "  Config: %s\n"
	WizardDirDataFmt   = "  Data:   %s\n"
	WizardDirModelsFmt = "  Models: %s\n"

	WizardConfigExistsFmt  = "  Configuration already exists at %s\n"
	WizardConfigCreatedFmt = "  Created default configuration at %s\n"
	WizardConfigInitFmt    = "initialize default config: %w"

	WizardBackendTitle      = "Transcription backend"
	WizardBackendCurrentFmt = "  GPU acceleration is currently %s.\n"
	WizardBackendKeep       = "Keep current setting"
	WizardBackendCPU        = "CPU only"
	WizardBackendGPU        = "GPU (Vulkan)"
	WizardGPUCheck          = "  Checking for the Vulkan toolchain...\n"
	WizardGPUPresent        = "  Vulkan toolchain found\n"
	WizardGPUMissingFmt     = "Vulkan toolchain not found. Install %s now?"
	WizardGPUInstallRunFmt  = "  Running: %s\n"
	WizardGPUInstallFailFmt = "install Vulkan toolchain; re-run manually: %s"
	WizardGPUNoManager      = "no supported package manager found (pacman, apt, dnf); install the Vulkan loader manually"
	WizardGPUDeclined       = "  Leaving GPU acceleration off until the Vulkan toolchain is installed.\n"
	WizardGPUEnabledFmt     = "  Will turn GPU acceleration %s\n"

	WizardModelTitle         = "Select a transcription model"
	WizardModelSkip          = "Skip model download"
	WizardModelInstalled     = " [installed]"
	WizardModelEntryFmt      = "%-18s (%4d MB) - %s%s"
	WizardModelHaveFmt       = "  Model %q is already installed\n"
	WizardModelGetFmt        = "  Downloading %s...\n"
	WizardModelGotFmt        = "  Downloaded %s\n"
	WizardModelFailFmt       = "download model %s: %w"
	WizardModelRetryFmt      = "  You can download it later with: %s\n"
	WizardModelDefaultFmt    = "Set %s/%s as the default transcription engine?"
	WizardModelDefaultQueued = "  Will set this model as the transcription default\n"

	WizardDiarPromptFmt      = "Download the speaker diarization model (%s, ~%d MB)?"
	WizardStreamingNote      = "  Nemotron streaming transcribes while recording, so notes are ready the moment you stop.\n"
	WizardStreamingPromptFmt = "Download the Nemotron streaming model (~%.1f GB)?"
	WizardSecondarySkipFmt   = "  Skipping %s\n"

	WizardServiceExistsFmt  = "  Service already installed at %s\n"
	WizardServicePrompt     = "Install the systemd user service for auto-start?"
	WizardServiceWroteFmt   = "  Service installed at %s\n"
	WizardServiceReloadWarn = "  Warning: systemctl --user daemon-reload failed; run it manually\n"
	WizardServiceEnableHint = "  To enable auto-start: systemctl --user enable muesli.service\n  To start now:         systemctl --user start muesli.service\n"
	WizardServiceSkipped    = "  Skipping systemd service installation\n"

	WizardEnvNoHypr         = "  No Hyprland config directory found; skipping keybinding setup\n"
	WizardEnvHyprPrompt     = "Add a Hyprland keybinding (SUPER+M toggles recording)?"
	WizardEnvHyprWroteFmt   = "  Keybinding written to %s\n"
	WizardEnvHyprSourced    = "  hyprland.conf already sources the muesli snippet\n"
	WizardEnvHyprAddedFmt   = "  Added source line to %s\n"
	WizardEnvNoWaybar       = "  No Waybar config directory found; skipping status module\n"
	WizardEnvWaybarPrompt   = "Write the Waybar status module snippet?"
	WizardEnvWaybarWroteFmt = "  Waybar module written to %s\n  Include it from your Waybar config (\"custom/muesli\")\n"

	WizardStepFailedFmt = "  Warning: %s failed: %v\n"
	WizardStepSkipped   = "  Skipped\n"

	WizardPreviewTitle  = "Configuration changes"
	WizardPreviewNone   = "No configuration changes."
	WizardApplyPrompt   = "Apply these changes?"
	WizardNotApplied    = "No changes applied."
	WizardCancelled     = "Setup cancelled. No changes applied."
	WizardCompleted     = "Setup complete."
	WizardManualHeader  = "Manual follow-ups:"
	WizardManualItemFmt = "  - %s\n"

	WizardNextStepsHeader = "Next steps:"
	WizardNextSteps       = "  1. Start the daemon:        muesli daemon\n  2. Or enable auto-start:    systemctl --user enable --now muesli.service\n  3. Test audio devices:      muesli audio list-devices\n  4. Edit the configuration:  muesli config edit\n"
)
