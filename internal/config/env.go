package config

// Environment variables recognized by muesliup itself (as opposed to the
// MUESLIUP_ release-manifest overrides, which the manifest package owns).
const (
	// EnvInstallDir overrides the directory the muesli binary is installed to.
	EnvInstallDir = "MUESLIUP_INSTALL_DIR"

	// EnvGPU forces GPU detection on ("1") or off ("0") regardless of what
	// the host actually reports.
	EnvGPU = "MUESLIUP_GPU"

	// EnvNoNetwork skips all network calls that are merely advisory, such as
	// the outdated-binary check.
	EnvNoNetwork = "MUESLIUP_NO_NETWORK"
)
