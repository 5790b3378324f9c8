// Package waybar writes the muesli status-module snippet for Waybar. The
// snippet is a standalone JSONC file the operator includes from their own
// config; muesliup never edits the Waybar config itself.
package waybar

import (
	"fmt"
	"os"

	"github.com/itsameandrea/muesliup/internal/fsutil"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/templates"
)

const snippetTemplatePath = "waybar/muesli.jsonc"

// ModuleName is the key the operator adds to a Waybar module list.
const ModuleName = "custom/muesli"

// System is the minimal interface needed to write the snippet.
type System interface {
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using actual system calls.
type RealSystem struct{}

// WriteFileAtomic writes data to path atomically.
func (RealSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(path, data, perm)
}

// WriteSnippet writes the status-module snippet to snippetPath. Rerunning is
// idempotent; the snippet is fully owned by muesliup and safe to overwrite.
func WriteSnippet(sys System, snippetPath string) error {
	data, err := templates.Read(snippetTemplatePath)
	if err != nil {
		return fmt.Errorf(messages.SystemReadFileFmt, snippetTemplatePath, err)
	}
	if err := sys.WriteFileAtomic(snippetPath, data, 0o644); err != nil {
		return fmt.Errorf(messages.SystemWriteFileFmt, snippetPath, err)
	}
	return nil
}
