package messages

// System messages for internal operations.
const (
	// SystemCreateDirFmt formats directory creation errors.
	SystemCreateDirFmt     = "create directory %s: %w"
	SystemWriteFileFmt     = "write %s: %w"
	SystemReadFileFmt      = "read %s: %w"
	SystemLookPathFmt      = "look up %s on PATH: %w"
	SystemRunCommandFmt    = "run %q: %w"
	SystemCommandOutputFmt = "%s: %s"
	SystemResolveHomeFmt   = "resolve home directory: %w"
	SystemSignalProcessFmt = "signal pid %d: %w"
	SystemParsePidFmt      = "parse pid %q: %w"

	UpdateCreateRequestErrFmt         = "create update request: %w"
	UpdateFetchLatestReleaseErrFmt    = "fetch latest release: %w"
	UpdateFetchLatestReleaseStatusFmt = "fetch latest release: unexpected status %s"
	UpdateDecodeLatestReleaseErrFmt   = "decode latest release response: %w"
	UpdateLatestReleaseMissingTag     = "latest release response is missing tag_name"
	UpdateInvalidLatestReleaseTagFmt  = "invalid latest release tag %q: %w"
	UpdateInvalidCurrentVersionFmt    = "invalid current version %q: %w"
)
