// Package terminal reports whether the process is attached to an interactive
// terminal. Interactive-only surfaces (the setup wizard, uninstall prompts)
// gate on this check.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
