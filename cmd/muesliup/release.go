package main

import (
	"github.com/spf13/cobra"

	"github.com/itsameandrea/muesliup/internal/manifest"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/release"
)

// releaseRun is a seam for tests.
var releaseRun = release.Run

func newReleaseCmd() *cobra.Command {
	var assumeYes bool
	var repoDir string

	cmd := &cobra.Command{
		Use:   messages.ReleaseUse,
		Short: messages.ReleaseShort,
		Long:  messages.ReleaseLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := "patch"
			if len(args) == 1 {
				instruction = args[0]
			}

			dir := repoDir
			if dir == "" {
				cwd, err := getwd()
				if err != nil {
					return err
				}
				dir = cwd
			}

			m, err := manifest.Load(dir)
			if err != nil {
				return err
			}

			opts := release.Options{
				RepoDir:     dir,
				Instruction: instruction,
				AssumeYes:   assumeYes,
				Out:         cmd.OutOrStdout(),
				Err:         cmd.ErrOrStderr(),
			}
			if isTerminal() {
				in := cmd.InOrStdin()
				out := cmd.OutOrStdout()
				opts.Confirm = func(prompt string) (bool, error) {
					return promptYesNo(in, out, prompt, false)
				}
			}

			return releaseRun(cmd.Context(), release.RealSystem{}, m, opts)
		},
	}

	cmd.Flags().BoolVar(&assumeYes, "yes", false, messages.ReleaseFlagYes)
	cmd.Flags().StringVar(&repoDir, "repo-dir", "", messages.ReleaseFlagRepoDir)

	return cmd
}
