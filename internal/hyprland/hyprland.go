// Package hyprland wires muesli into an existing Hyprland setup: a
// keybinding snippet plus a source line in the operator's hyprland.conf.
// Integration never creates the Hyprland config directory; machines without
// Hyprland are left untouched.
package hyprland

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/itsameandrea/muesliup/internal/fsutil"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/templates"
)

const snippetTemplatePath = "hypr/muesli.conf"

// SourceLine is what gets appended to hyprland.conf so the snippet loads.
const SourceLine = "source = ~/.config/hypr/muesli.conf"

// System is the minimal interface needed for Hyprland integration. It is
// intentionally package-local; other packages define their own System
// interfaces with the operations they need.
type System interface {
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using actual system calls.
type RealSystem struct{}

// ReadFile reads the named file.
func (RealSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFileAtomic writes data to path atomically.
func (RealSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(path, data, perm)
}

// WriteSnippet writes the keybinding snippet to snippetPath. Rerunning is
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

// AddSourceLine ensures confPath sources the muesli snippet, appending the
// source line when absent. A missing hyprland.conf is created with just the
// line. Reports whether the file changed.
func AddSourceLine(sys System, confPath string) (bool, error) {
	data, err := sys.ReadFile(confPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf(messages.SystemReadFileFmt, confPath, err)
	}
	updated, changed := EnsureSourceLine(string(data))
	if !changed {
		return false, nil
	}
	if err := sys.WriteFileAtomic(confPath, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf(messages.SystemWriteFileFmt, confPath, err)
	}
	return true, nil
}

// EnsureSourceLine returns content with the snippet source line appended when
// no line already sources it. Existing lines survive byte-for-byte; the
// returned bool reports whether content changed.
func EnsureSourceLine(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		if sourcesSnippet(line) {
			return content, false
		}
	}
	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(SourceLine)
	b.WriteString("\n")
	return b.String(), true
}

// sourcesSnippet reports whether line is a source directive pointing at the
// muesli snippet, whatever spacing or path spelling the operator used.
func sourcesSnippet(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	key, value, ok := strings.Cut(trimmed, "=")
	if !ok || strings.TrimSpace(key) != "source" {
		return false
	}
	return strings.Contains(strings.TrimSpace(value), "hypr/muesli.conf")
}
