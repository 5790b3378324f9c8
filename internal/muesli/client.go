// Package muesli wraps the slice of the muesli CLI that muesliup consumes:
// version queries, config bootstrap, and model management subcommands.
package muesli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/itsameandrea/muesliup/internal/catalog"
	"github.com/itsameandrea/muesliup/internal/messages"
)

const (
	// BinaryName is the muesli executable name.
	BinaryName = "muesli"

	// DaemonPattern matches the daemon's command line for process-signature
	// termination.
	DaemonPattern = "muesli daemon"
)

// Client drives an installed muesli binary.
type Client struct {
	sys System
	bin string

	// Out and Err receive the output of streamed subcommands (model
	// downloads print live progress).
	Out io.Writer
	Err io.Writer
}

// New returns a client that resolves the muesli binary via PATH.
func New(sys System, out, err io.Writer) *Client {
	return NewAt(sys, BinaryName, out, err)
}

// NewAt returns a client bound to a specific binary path, used to verify a
// freshly installed binary before it is necessarily first on PATH.
func NewAt(sys System, bin string, out, err io.Writer) *Client {
	return &Client{sys: sys, bin: bin, Out: out, Err: err}
}

// Available reports whether the muesli binary can be found.
func (c *Client) Available() bool {
	_, err := c.sys.LookPath(c.bin)
	return err == nil
}

// Version runs `muesli --version` and returns the bare version string,
// e.g. "0.2.7".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.sys.Output(ctx, c.bin, "--version")
	if err != nil {
		return "", fmt.Errorf(messages.SystemRunCommandFmt, c.bin+" --version", err)
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", fmt.Errorf(messages.SystemCommandOutputFmt, c.bin+" --version", "empty output")
	}
	return fields[len(fields)-1], nil
}

// ConfigInit runs `muesli config init`, creating the default config.toml.
func (c *Client) ConfigInit(ctx context.Context) error {
	if err := c.sys.RunStreaming(ctx, c.Out, c.Err, c.bin, "config", "init"); err != nil {
		return fmt.Errorf(messages.SystemRunCommandFmt, c.bin+" config init", err)
	}
	return nil
}

// List queries the model family's `list` subcommand and returns the set of
// installed model ids.
func (c *Client) List(ctx context.Context, family catalog.Family) (map[string]bool, error) {
	sub := Subcommand(family)
	out, err := c.sys.Output(ctx, c.bin, sub, "list")
	if err != nil {
		return nil, fmt.Errorf(messages.SystemRunCommandFmt, fmt.Sprintf("%s %s list", c.bin, sub), err)
	}
	return parseInstalled(string(out)), nil
}

// Download streams the model family's `download <id>` subcommand to the
// client's writers so progress is visible.
func (c *Client) Download(ctx context.Context, family catalog.Family, id string) error {
	sub := Subcommand(family)
	if err := c.sys.RunStreaming(ctx, c.Out, c.Err, c.bin, sub, "download", id); err != nil {
		return fmt.Errorf(messages.SystemRunCommandFmt, fmt.Sprintf("%s %s download %s", c.bin, sub, id), err)
	}
	return nil
}

// Delete removes a downloaded model via the family's `delete` subcommand.
func (c *Client) Delete(ctx context.Context, family catalog.Family, id string) error {
	sub := Subcommand(family)
	if err := c.sys.RunStreaming(ctx, c.Out, c.Err, c.bin, sub, "delete", id); err != nil {
		return fmt.Errorf(messages.SystemRunCommandFmt, fmt.Sprintf("%s %s delete %s", c.bin, sub, id), err)
	}
	return nil
}

// DownloadCommand returns the manual retry command for a model, shown when a
// wizard download fails.
func DownloadCommand(family catalog.Family, id string) string {
	return fmt.Sprintf("%s %s download %s", BinaryName, Subcommand(family), id)
}

// Subcommand maps a model family to the muesli subcommand that manages it.
// Streaming models live under the parakeet engine.
func Subcommand(family catalog.Family) string {
	switch family {
	case catalog.FamilyFast, catalog.FamilyStreaming:
		return "parakeet"
	case catalog.FamilyDiarization:
		return "diarization"
	default:
		return "models"
	}
}

// parseInstalled extracts installed model ids from a `list` table. Each data
// row is `<id> <size> <mark>` where the mark column is "✓" for downloaded
// models; header and separator lines carry no mark and fall through.
func parseInstalled(out string) map[string]bool {
	installed := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[len(fields)-1] == "✓" {
			installed[fields[0]] = true
		}
	}
	return installed
}
