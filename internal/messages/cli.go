package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "muesliup"
	// RootShort is the short description for the root command.
	RootShort       = "Release, install, and set up muesli"
	RootLong        = "muesliup cuts muesli releases, installs prebuilt muesli binaries (or builds them from source), and runs muesli's first-run setup."
	RootVersionFlag = "Print version and exit"

	// VersionUse is the version command name.
	VersionUse = "version"
	// VersionShort is the short description for the version command.
	VersionShort      = "Print the muesliup version"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt   = "%s [Y/n]: "
	PromptNoDefaultFmt    = "%s [y/N]: "
	PromptInvalidResponse = "invalid response %q"
	PromptRetryYesNo      = "Please enter y or n."

	WarnUpdateCheckFailedFmt = "Warning: failed to check for muesli updates: %v\n"
	WarnDevBuildFmt          = "Warning: running a dev build; latest muesli release is %s\n"
	WarnUpdateAvailableFmt   = "Warning: muesli update available: %s (installed %s)\n  Upgrade with: muesliup install latest\n"
)
