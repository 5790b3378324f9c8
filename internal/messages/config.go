package messages

// Config messages for muesli configuration and the release manifest.
const (
	// ConfigReadFmt formats config read errors.
	ConfigReadFmt    = "read config %s: %w"
	ConfigParseFmt   = "parse config %s: %w"
	ConfigInvalidFmt = "invalid config %s: %w"

	ConfigSampleRatePositive = "audio.sample_rate must be positive"
	ConfigEngineUnknownFmt   = "transcription.engine must be one of %s"
	ConfigModelRequired      = "transcription.model is required"
	ConfigVolumeRangeFmt     = "audio_cues.volume must be between 0 and 1 (got %g)"
	ConfigTimeoutPositiveFmt = "detection.%s must be positive"

	ManifestMissingFmt          = "no release manifest at %s; create .muesliup.yml in the repository root"
	ManifestLoadFmt             = "load release manifest %s: %w"
	ManifestParseFmt            = "parse release manifest %s: %w"
	ManifestBinaryNameMissing   = "binary_name is required"
	ManifestVersionFileMissing  = "version_file is required"
	ManifestGateMissingFmt      = "gates.%s is required"
	ManifestNoBackends          = "at least one backend is required"
	ManifestNoCPUBackend        = "a cpu backend is required"
	ManifestDuplicateBackendFmt = "duplicate backend %q"
	ManifestUnknownBackendFmt   = "unknown backend %q (known: %s)"
	ManifestBackendCommandFmt   = "backend %q: command is required"
	ManifestBackendArtifactFmt  = "backend %q: artifact is required"
)
