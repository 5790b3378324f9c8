// Package templates embeds the files muesliup writes during setup.
package templates

import (
	"embed"
)

//go:embed files
var templateFS embed.FS

// BinaryPlaceholder is substituted with the absolute installed-binary path
// when the systemd unit is rendered.
const BinaryPlaceholder = "{binary}"

// Read returns the template at path, relative to the template root.
func Read(path string) ([]byte, error) {
	return templateFS.ReadFile("files/" + path)
}
