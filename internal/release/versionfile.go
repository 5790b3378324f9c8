package release

import (
	"errors"
	"regexp"

	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/version"
)

// versionLineRe matches a TOML-style version assignment at the start of a
// line, e.g. `version = "0.2.7"` in a Cargo.toml [package] table. The first
// match in the file is the package version.
var versionLineRe = regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`)

// readVersion extracts the current version from a version file. Two layouts
// are understood: a manifest with a `version = "X.Y.Z"` line, and a bare file
// whose whole content is the version.
func readVersion(data []byte) (string, error) {
	if m := versionLineRe.FindSubmatch(data); m != nil {
		return string(m[1]), nil
	}
	if v, err := version.Normalize(string(data)); err == nil {
		return v, nil
	}
	return "", errors.New(messages.ReleaseVersionLineMissing)
}

// rewriteVersion returns the file content with the version replaced by next,
// leaving every other byte untouched. A bare version file is replaced whole.
func rewriteVersion(data []byte, next string) ([]byte, error) {
	if loc := versionLineRe.FindSubmatchIndex(data); loc != nil {
		out := make([]byte, 0, len(data)+len(next))
		out = append(out, data[:loc[2]]...)
		out = append(out, next...)
		out = append(out, data[loc[3]:]...)
		return out, nil
	}
	if _, err := version.Normalize(string(data)); err == nil {
		return []byte(next + "\n"), nil
	}
	return nil, errors.New(messages.ReleaseVersionLineMissing)
}
