package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
	"github.com/itsameandrea/muesliup/internal/updatewarn"
	"github.com/itsameandrea/muesliup/internal/wizard"
)

// Seams for tests.
var (
	runSetup       = wizard.Run
	warnIfOutdated = updatewarn.WarnIfOutdated
	muesliVersion  = func(ctx context.Context) (string, error) {
		return muesli.New(muesli.RealSystem{}, io.Discard, io.Discard).Version(ctx)
	}
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.SetupUse,
		Short: messages.SetupShort,
		Long:  messages.SetupLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errors.New(messages.SetupRequiresTerminal)
			}
			// A missing binary is the normal first-run state; it only
			// skips the update warning.
			if v, err := muesliVersion(cmd.Context()); err == nil {
				warnIfOutdated(cmd.Context(), v, cmd.ErrOrStderr())
			}
			return runSetup(cmd.Context(), wizard.Options{Out: cmd.OutOrStdout()})
		},
	}
}
