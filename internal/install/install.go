// Package install puts a muesli binary on this machine: the distribution
// installer resolves the release variant for the host, downloads and verifies
// the artifact (falling back to a source build), and atomically replaces the
// installed binary; the uninstaller walks the same inventory in reverse.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
	"github.com/itsameandrea/muesliup/internal/procs"
	"github.com/itsameandrea/muesliup/internal/update"
	"github.com/itsameandrea/muesliup/internal/version"
)

var (
	// ErrNetwork reports a failed index lookup or artifact fetch; it routes
	// the install to the source-build fallback instead of aborting.
	ErrNetwork = errors.New("network operation failed")
	// ErrIntegrity reports a checksum that could not be fetched or did not
	// match. A warning by default, fatal under strict mode.
	ErrIntegrity = errors.New("integrity check failed")
)

// Seams for tests.
var (
	terminateDaemon = procs.TerminateByPattern
	resolveLatest   = update.LatestVersion
	assetURL        = update.AssetURL
)

// Options configure an install run.
type Options struct {
	// Version is an explicit version or tag; empty or "latest" resolves
	// through the release index.
	Version string
	// Strict turns integrity warnings into fatal errors.
	Strict bool
	// Out and Err receive progress output and warnings.
	Out io.Writer
	Err io.Writer
}

// Run installs the muesli release variant matching this machine: resolve the
// variant and tag, download and verify the artifact, then atomically replace
// the installed binary. An index or download failure falls back to building
// from source, so the run ends with a usable binary or a reported failure.
func Run(ctx context.Context, sys System, opts Options) error {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}

	variant, err := HostVariant(sys)
	if err != nil {
		return err
	}
	asset := muesli.BinaryName + "-" + variant

	requested := strings.TrimSpace(opts.Version)
	if requested == "" || strings.EqualFold(requested, "latest") {
		latest, err := resolveLatest(ctx)
		if err != nil {
			cause := fmt.Errorf("%w: "+messages.InstallResolveLatestFmt, ErrNetwork, err)
			_, _ = fmt.Fprintf(opts.Err, messages.InstallFallbackFmt, cause)
			return runFallback(ctx, sys, "", opts)
		}
		requested = latest
	}
	resolved, err := version.Normalize(requested)
	if err != nil {
		return err
	}
	tag := "v" + resolved

	_, _ = fmt.Fprintf(opts.Out, messages.InstallResolvedFmt, resolved, variant)
	url := assetURL(tag, asset)
	_, _ = fmt.Fprintf(opts.Out, messages.InstallDownloadingFmt, url)
	tmp, err := downloadAsset(ctx, sys, url)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Err, messages.InstallFallbackFmt, err)
		return runFallback(ctx, sys, tag, opts)
	}
	defer func() { _ = sys.Remove(tmp) }()

	if err := verifyDownload(ctx, tmp, assetURL(tag, asset+".sha256"), asset); err != nil {
		if opts.Strict {
			return fmt.Errorf(messages.InstallIntegrityFatalFmt, err)
		}
		_, _ = fmt.Fprintf(opts.Err, messages.InstallIntegrityWarnFmt, err)
	}
	return installBinary(ctx, sys, tmp, opts.Out, opts.Err)
}

func runFallback(ctx context.Context, sys System, tag string, opts Options) error {
	built, cleanup, err := buildFromSource(ctx, sys, tag, opts.Out, opts.Err)
	if err != nil {
		return err
	}
	defer cleanup()
	return installBinary(ctx, sys, built, opts.Out, opts.Err)
}

// installBinary is the shared tail of both install paths: stop the daemon so
// the binary path is free, copy atomically, then prove the result runs.
func installBinary(ctx context.Context, sys System, src string, out io.Writer, errW io.Writer) error {
	if _, err := terminateDaemon(ctx, muesli.DaemonPattern); err != nil {
		return err
	}

	installDir, err := config.InstallDir()
	if err != nil {
		return err
	}
	if err := sys.MkdirAll(installDir, 0o755); err != nil {
		return fmt.Errorf(messages.InstallCreateDirFmt, installDir, err)
	}
	target := filepath.Join(installDir, muesli.BinaryName)
	if err := sys.CopyFile(src, target, 0o755); err != nil {
		return fmt.Errorf(messages.InstallMoveBinaryFmt, err)
	}

	versionOut, err := sys.Output(ctx, "", target, "--version")
	if err != nil {
		return fmt.Errorf(messages.InstallVerifyFmt, err)
	}
	installed := "unknown"
	if fields := strings.Fields(string(versionOut)); len(fields) > 0 {
		installed = fields[len(fields)-1]
	}
	_, _ = fmt.Fprintf(out, messages.InstallInstalledFmt, installed, target)

	reportPath(sys, installDir, out, errW)
	return nil
}

// reportPath tells the operator whether the install directory is already on
// PATH. PATH itself is never mutated.
func reportPath(sys System, installDir string, out io.Writer, errW io.Writer) {
	pathEnv, _ := sys.LookupEnv("PATH")
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir != "" && filepath.Clean(dir) == filepath.Clean(installDir) {
			_, _ = fmt.Fprint(out, messages.InstallOnPath)
			return
		}
	}
	_, _ = fmt.Fprintf(errW, messages.InstallNotOnPathFmt, installDir)
}
