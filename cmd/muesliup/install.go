package main

import (
	"github.com/spf13/cobra"

	"github.com/itsameandrea/muesliup/internal/install"
	"github.com/itsameandrea/muesliup/internal/messages"
)

// installRun is a seam for tests.
var installRun = install.Run

func newInstallCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Long:  messages.InstallLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := ""
			if len(args) == 1 {
				version = args[0]
			}
			return installRun(cmd.Context(), install.RealSystem{}, install.Options{
				Version: version,
				Strict:  strict,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, messages.InstallFlagStrict)

	return cmd
}
