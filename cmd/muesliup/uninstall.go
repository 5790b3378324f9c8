package main

import (
	"github.com/spf13/cobra"

	"github.com/itsameandrea/muesliup/internal/install"
	"github.com/itsameandrea/muesliup/internal/messages"
)

// uninstallRun is a seam for tests.
var uninstallRun = install.Uninstall

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := install.UninstallOptions{
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			}
			if isTerminal() {
				in := cmd.InOrStdin()
				out := cmd.OutOrStdout()
				opts.Confirm = func(prompt string) (bool, error) {
					return promptYesNo(in, out, prompt, false)
				}
			}
			return uninstallRun(cmd.Context(), install.RealSystem{}, opts)
		},
	}
}
