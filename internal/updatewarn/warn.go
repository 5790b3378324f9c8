package updatewarn

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/update"
)

// CheckForUpdate is a seam for tests.
var CheckForUpdate = update.Check

// WarnIfOutdated emits a warning to stderr when the installed muesli binary is
// older than the latest published release. It is best-effort and never returns
// an error.
func WarnIfOutdated(ctx context.Context, installedVersion string, stderr io.Writer) {
	if strings.TrimSpace(os.Getenv(config.EnvNoNetwork)) != "" {
		return
	}
	if stderr == nil {
		stderr = io.Discard
	}

	warnColor := color.New(color.FgYellow)
	result, err := CheckForUpdate(ctx, installedVersion)
	if err != nil {
		if update.IsRateLimitError(err) {
			return
		}
		_, _ = warnColor.Fprintf(stderr, messages.WarnUpdateCheckFailedFmt, err)
		return
	}
	if result.CurrentIsDev {
		_, _ = warnColor.Fprintf(stderr, messages.WarnDevBuildFmt, result.Latest)
		return
	}
	if result.Outdated {
		_, _ = warnColor.Fprintf(stderr, messages.WarnUpdateAvailableFmt, result.Latest, result.Current)
	}
}
