package messages

// Doctor messages for the doctor command.
const (
	// DoctorUse is the doctor command name.
	DoctorUse   = "doctor"
	DoctorShort = "Diagnose the local muesli installation"
	DoctorLong  = "Check the installed binary, PATH, configuration, models, systemd service, and GPU toolchain, and report what needs attention. Doctor never changes anything."

	DoctorCheckingHeader = "Checking the local muesli installation...\n"

	DoctorCheckNameBinary    = "Binary"
	DoctorCheckNamePath      = "Path"
	DoctorCheckNameRelease   = "Release"
	DoctorCheckNameConfig    = "Config"
	DoctorCheckNameModels    = "Models"
	DoctorCheckNameService   = "Service"
	DoctorCheckNameToolchain = "Toolchain"

	DoctorBinaryMissingFmt       = "muesli is not installed at %s"
	DoctorBinaryMissingRecommend = "Run `muesliup install` to download the latest release."
	DoctorBinaryVersionFmt       = "muesli %s at %s"
	DoctorBinaryNoVersionFmt     = "muesli at %s does not answer --version: %v"
	DoctorBinaryBrokenRecommend  = "Reinstall with `muesliup install`; the binary may be corrupt or built for another platform."

	DoctorPathOkFmt        = "%s is on PATH"
	DoctorPathMissingFmt   = "%s is not on PATH"
	DoctorPathRecommendFmt = "Add %s to PATH in your shell profile so `muesli` resolves from keybinds and scripts."

	DoctorReleaseCurrentFmt        = "muesli %s is the latest release"
	DoctorReleaseOutdatedFmt       = "muesli %s is outdated; the latest release is %s"
	DoctorReleaseOutdatedRecommend = "Run `muesliup install latest` to upgrade."
	DoctorReleaseDevFmt            = "muesli is a dev build; the latest release is %s"
	DoctorReleaseSkippedFmt        = "release check skipped: %s is set"
	DoctorReleaseRateLimited       = "release check skipped: GitHub API rate limit reached"
	DoctorReleaseFailedFmt         = "could not check the latest release: %v"

	DoctorConfigMissingFmt    = "no configuration at %s"
	DoctorConfigInitRecommend = "Run `muesliup setup` (or `muesli config init`) to create it."
	DoctorConfigOkFmt         = "configuration at %s parses cleanly"
	DoctorConfigInvalidFmt    = "configuration at %s has problems: %v"
	DoctorConfigEditRecommend = "Fix config.toml by hand or re-run `muesliup setup`."

	DoctorModelsCloudFmt             = "engine %q transcribes remotely; no local models needed"
	DoctorModelsNoneFmt              = "no %s model installed"
	DoctorModelsConfiguredMissingFmt = "configured model %q is not installed"
	DoctorModelsOkFmt                = "%s models installed: %s"
	DoctorModelsUnknownFmt           = "could not list %s models: %v"
	DoctorModelsFallbackFmt          = "fallback_to_local is enabled but no %s model is installed"
	DoctorModelsDownloadRecommendFmt = "Run `muesli %s download %s`."

	DoctorServiceOkFmt      = "service unit installed at %s"
	DoctorServiceMissingFmt = "no service unit at %s"
	DoctorServiceRecommend  = "Run `muesliup setup` to install the systemd user service."

	DoctorToolchainOk        = "use_gpu is enabled and a Vulkan toolchain is present"
	DoctorToolchainMissing   = "use_gpu is enabled but no Vulkan toolchain was found"
	DoctorToolchainRecommend = "Install the Vulkan loader for your GPU or disable use_gpu."
	DoctorToolchainCPU       = "GPU acceleration disabled; no toolchain needed"

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       -> "
	DoctorRecommendationIndent = "          "

	DoctorSuccessSummary = "All checks passed. muesli is ready."
	DoctorFailureSummary = "Some checks failed. Address the items above."
	DoctorFailureError   = "doctor checks failed"
)
