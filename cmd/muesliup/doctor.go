package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/doctor"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
)

// Seams for tests.
var (
	checkBinary    = doctor.CheckBinary
	checkPath      = doctor.CheckPath
	checkRelease   = doctor.CheckRelease
	checkConfig    = doctor.CheckConfig
	checkModels    = doctor.CheckModels
	checkService   = doctor.CheckService
	checkToolchain = doctor.CheckToolchain
)

var (
	okBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warnBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	failBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Long:  messages.DoctorLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			installDir, err := config.InstallDir()
			if err != nil {
				return err
			}
			paths, err := config.DefaultPaths()
			if err != nil {
				return err
			}
			binPath := filepath.Join(installDir, muesli.BinaryName)
			client := muesli.NewAt(muesli.RealSystem{}, binPath, io.Discard, io.Discard)

			_, _ = fmt.Fprint(out, messages.DoctorCheckingHeader)

			var results []doctor.Result

			binaryResults, installedVersion := checkBinary(ctx, installDir, client)
			results = append(results, binaryResults...)

			results = append(results, checkPath(installDir)...)

			// Without a working binary there is no version to compare and
			// no CLI to list models through.
			if installedVersion != "" {
				results = append(results, checkRelease(ctx, installedVersion)...)
			}

			configResults, cfg := checkConfig(paths.ConfigPath)
			results = append(results, configResults...)

			if cfg != nil && installedVersion != "" {
				results = append(results, checkModels(ctx, client, cfg)...)
			}

			results = append(results, checkService(paths.ServiceUnitPath)...)

			if cfg != nil {
				results = append(results, checkToolchain(cfg)...)
			}

			hasFail := false
			for _, r := range results {
				printResult(out, r)
				if r.Status == doctor.StatusFail {
					hasFail = true
				}
			}

			_, _ = fmt.Fprintln(out)
			if hasFail {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return fmt.Errorf(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = okBadge.Render(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = warnBadge.Render(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = failBadge.Render(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	lines := strings.Split(recommendation, "\n")
	for i, line := range lines {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		if line == "" {
			_, _ = fmt.Fprintf(out, "%s\n", messages.DoctorRecommendationIndent)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}
