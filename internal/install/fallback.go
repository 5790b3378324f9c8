package install

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/itsameandrea/muesliup/internal/manifest"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/update"
)

// cloneURL is where the source-build fallback clones from.
var cloneURL = "https://github.com/" + update.Repo + ".git"

// buildFromSource shallow-clones the muesli repository, pins the requested
// tag when one is known, and builds the cpu backend with the repository's own
// build command. It returns the built artifact path and a cleanup func that
// removes the clone.
func buildFromSource(ctx context.Context, sys System, tag string, out io.Writer, errW io.Writer) (string, func(), error) {
	dir, err := sys.MkdirTemp("", "muesliup-src-*")
	if err != nil {
		return "", nil, fmt.Errorf(messages.InstallCreateTempDirFmt, err)
	}
	cleanup := func() { _ = sys.RemoveAll(dir) }

	_, _ = fmt.Fprintf(out, messages.InstallCloningFmt, cloneURL)
	if err := sys.RunStreaming(ctx, "", out, errW, "git", "clone", "--depth", "1", cloneURL, dir); err != nil {
		cleanup()
		return "", nil, fmt.Errorf(messages.InstallCloneFailedFmt, "git clone --depth 1 "+cloneURL)
	}

	// A pinned tag is best-effort: a clone of the default branch still
	// produces a usable binary when the tag cannot be fetched.
	if tag != "" {
		if err := sys.RunStreaming(ctx, dir, out, errW, "git", "fetch", "--depth", "1", "origin", "tag", tag); err != nil {
			_, _ = fmt.Fprintf(errW, messages.InstallFetchTagWarnFmt, tag, err)
		} else if err := sys.RunStreaming(ctx, dir, out, errW, "git", "checkout", tag); err != nil {
			_, _ = fmt.Fprintf(errW, messages.InstallFetchTagWarnFmt, tag, err)
		}
	}

	m, err := manifest.Load(dir)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	// Load validates the manifest; a cpu backend is guaranteed.
	backend, _ := m.CPUBackend()

	_, _ = fmt.Fprintf(out, messages.InstallSourceBuildFmt, backend.Command)
	if err := sys.RunStreaming(ctx, dir, out, errW, "sh", "-c", backend.Command); err != nil {
		cleanup()
		return "", nil, fmt.Errorf(messages.InstallSourceBuildFailFmt, backend.Command)
	}
	built := filepath.Join(dir, backend.Artifact)
	if _, err := sys.Stat(built); err != nil {
		cleanup()
		return "", nil, fmt.Errorf(messages.InstallSourceNoArtifactFmt, backend.Artifact)
	}
	return built, cleanup, nil
}
