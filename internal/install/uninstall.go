package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
)

// UninstallOptions configure the uninstaller. Confirm is required: the
// overall run and each directory removal are individually confirmed.
type UninstallOptions struct {
	Confirm func(prompt string) (bool, error)
	Out     io.Writer
	Err     io.Writer
}

// Uninstall removes the muesli installation: stop the daemon, drop the
// systemd user unit, then separately confirmed config and data removal. The
// binary itself is left for the operator with the exact rm command, and every
// kept directory is listed at the end.
func Uninstall(ctx context.Context, sys System, opts UninstallOptions) error {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	if opts.Confirm == nil {
		return errors.New(messages.UninstallRequiresTerminal)
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	installDir, err := config.InstallDir()
	if err != nil {
		return err
	}
	binaryPath := filepath.Join(installDir, muesli.BinaryName)

	hasBinary := exists(sys, binaryPath)
	hasService := exists(sys, paths.ServiceUnitPath)
	hasConfig := exists(sys, paths.ConfigDir)
	hasData := exists(sys, paths.DataDir)

	if !hasBinary && !hasService && !hasConfig && !hasData {
		_, _ = fmt.Fprintln(opts.Out, messages.UninstallNothingInstalled)
		return nil
	}

	_, _ = fmt.Fprintln(opts.Out, messages.UninstallHeader)
	if hasBinary {
		_, _ = fmt.Fprintf(opts.Out, messages.UninstallBinaryFmt, binaryPath)
	}
	if hasService {
		_, _ = fmt.Fprintf(opts.Out, messages.UninstallServiceFmt, paths.ServiceUnitPath)
	}
	if hasConfig {
		_, _ = fmt.Fprintf(opts.Out, messages.UninstallConfigFmt, paths.ConfigDir)
	}
	if hasData {
		_, _ = fmt.Fprintf(opts.Out, messages.UninstallDataFmt, paths.DataDir)
	}

	ok, err := opts.Confirm(messages.UninstallProceedPrompt)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(opts.Out, messages.UninstallCancelled)
		return nil
	}

	_, _ = fmt.Fprintln(opts.Out, messages.UninstallStoppingDaemon)
	_ = sys.RunStreaming(ctx, "", io.Discard, io.Discard, "systemctl", "--user", "stop", "muesli.service")
	_, _ = terminateDaemon(ctx, muesli.DaemonPattern)

	if hasService {
		_, _ = fmt.Fprintln(opts.Out, messages.UninstallRemovingService)
		_ = sys.RunStreaming(ctx, "", io.Discard, io.Discard, "systemctl", "--user", "disable", "muesli.service")
		if err := sys.Remove(paths.ServiceUnitPath); err != nil {
			_, _ = fmt.Fprintf(opts.Err, messages.UninstallRemoveWarnFmt, paths.ServiceUnitPath, err)
		}
		_ = sys.RunStreaming(ctx, "", io.Discard, io.Discard, "systemctl", "--user", "daemon-reload")
	}

	if hasConfig {
		ok, err := opts.Confirm(fmt.Sprintf(messages.UninstallRemoveConfigFmt, paths.ConfigDir))
		if err != nil {
			return err
		}
		if ok {
			_, _ = fmt.Fprintln(opts.Out, messages.UninstallRemovingConfig)
			if err := sys.RemoveAll(paths.ConfigDir); err != nil {
				_, _ = fmt.Fprintf(opts.Err, messages.UninstallRemoveWarnFmt, paths.ConfigDir, err)
			}
		} else {
			_, _ = fmt.Fprintln(opts.Out, messages.UninstallKeepingConfig)
		}
	}

	if hasData {
		_, _ = fmt.Fprintln(opts.Out, messages.UninstallDataNote)
		_, _ = fmt.Fprintf(opts.Out, messages.UninstallDataSizeFmt, dirSizeMB(sys, paths.DataDir))
		ok, err := opts.Confirm(fmt.Sprintf(messages.UninstallRemoveDataFmt, paths.DataDir))
		if err != nil {
			return err
		}
		if ok {
			_, _ = fmt.Fprintln(opts.Out, messages.UninstallRemovingData)
			if err := sys.RemoveAll(paths.DataDir); err != nil {
				_, _ = fmt.Fprintf(opts.Err, messages.UninstallRemoveWarnFmt, paths.DataDir, err)
			}
		} else {
			_, _ = fmt.Fprintln(opts.Out, messages.UninstallKeepingData)
		}
	}

	if hasBinary {
		_, _ = fmt.Fprintf(opts.Out, messages.UninstallBinaryHintFmt, binaryPath)
	}
	_, _ = fmt.Fprintln(opts.Out, messages.UninstallDone)

	configKept := exists(sys, paths.ConfigDir)
	dataKept := exists(sys, paths.DataDir)
	if configKept || dataKept {
		_, _ = fmt.Fprintln(opts.Out, messages.UninstallKeptHeader)
		if configKept {
			_, _ = fmt.Fprintf(opts.Out, messages.UninstallKeptFmt, paths.ConfigDir)
		}
		if dataKept {
			_, _ = fmt.Fprintf(opts.Out, messages.UninstallKeptFmt, paths.DataDir)
		}
	}
	return nil
}

func exists(sys System, path string) bool {
	_, err := sys.Stat(path)
	return err == nil
}

// dirSizeMB sums regular file sizes under dir. Best-effort; unreadable
// entries are skipped.
func dirSizeMB(sys System, dir string) int64 {
	var total int64
	_ = sys.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total / (1 << 20)
}
