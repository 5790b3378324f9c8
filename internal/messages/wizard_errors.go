package messages

// Setup wizard error formats.
const (
	// WizardParseConfigFailedFmt wraps TOML syntax errors surfaced by the
	// config patch engine.
	WizardParseConfigFailedFmt = "parse config: %w"
)
