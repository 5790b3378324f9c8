package muesli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsameandrea/muesliup/internal/catalog"
)

// errNotMocked is returned when a testSystem method is called without a mock
// function set.
var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests. All methods fail fast
// unless their Func field is set; the client must never reach the real OS.
type testSystem struct {
	LookPathFunc     func(file string) (string, error)
	OutputFunc       func(ctx context.Context, name string, args ...string) ([]byte, error)
	RunStreamingFunc func(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
}

func (s *testSystem) LookPath(file string) (string, error) {
	if s.LookPathFunc != nil {
		return s.LookPathFunc(file)
	}
	return "", fmt.Errorf("%w: LookPath", errNotMocked)
}

func (s *testSystem) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.OutputFunc != nil {
		return s.OutputFunc(ctx, name, args...)
	}
	return nil, fmt.Errorf("%w: Output", errNotMocked)
}

func (s *testSystem) RunStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	if s.RunStreamingFunc != nil {
		return s.RunStreamingFunc(ctx, stdout, stderr, name, args...)
	}
	return fmt.Errorf("%w: RunStreaming", errNotMocked)
}

func newTestClient(sys System) *Client {
	return New(sys, &bytes.Buffer{}, &bytes.Buffer{})
}

func TestVersion(t *testing.T) {
	sys := &testSystem{
		OutputFunc: func(_ context.Context, name string, args ...string) ([]byte, error) {
			assert.Equal(t, BinaryName, name)
			assert.Equal(t, []string{"--version"}, args)
			return []byte("muesli 0.2.7\n"), nil
		},
	}

	got, err := newTestClient(sys).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.2.7", got)
}

func TestVersionEmptyOutput(t *testing.T) {
	sys := &testSystem{
		OutputFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return []byte("  \n"), nil
		},
	}

	_, err := newTestClient(sys).Version(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty output")
}

func TestListParsesInstalledMarks(t *testing.T) {
	table := "Model      Size (MB)    Downloaded\n" +
		"-----------------------------------\n" +
		"tiny       75           -         \n" +
		"base       142          ✓         \n" +
		"large-v3-turbo 1620     ✓         \n"

	sys := &testSystem{
		OutputFunc: func(_ context.Context, name string, args ...string) ([]byte, error) {
			assert.Equal(t, BinaryName, name)
			assert.Equal(t, []string{"models", "list"}, args)
			return []byte(table), nil
		},
	}

	installed, err := newTestClient(sys).List(context.Background(), catalog.FamilyPrimary)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"base": true, "large-v3-turbo": true}, installed)
}

func TestListCommandFailure(t *testing.T) {
	sys := &testSystem{
		OutputFunc: func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}

	_, err := newTestClient(sys).List(context.Background(), catalog.FamilyDiarization)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "muesli diarization list")
}

func TestDownloadStreamsToClientWriters(t *testing.T) {
	var out bytes.Buffer
	sys := &testSystem{
		RunStreamingFunc: func(_ context.Context, stdout, _ io.Writer, name string, args ...string) error {
			assert.Equal(t, BinaryName, name)
			assert.Equal(t, []string{"parakeet", "download", "parakeet-v3-int8"}, args)
			_, err := stdout.Write([]byte("Progress: 100%\n"))
			return err
		},
	}
	c := New(sys, &out, io.Discard)

	require.NoError(t, c.Download(context.Background(), catalog.FamilyFast, "parakeet-v3-int8"))
	assert.Contains(t, out.String(), "Progress")
}

func TestConfigInit(t *testing.T) {
	var gotArgs []string
	sys := &testSystem{
		RunStreamingFunc: func(_ context.Context, _, _ io.Writer, _ string, args ...string) error {
			gotArgs = args
			return nil
		},
	}

	require.NoError(t, newTestClient(sys).ConfigInit(context.Background()))
	assert.Equal(t, []string{"config", "init"}, gotArgs)
}

func TestSubcommand(t *testing.T) {
	assert.Equal(t, "models", Subcommand(catalog.FamilyPrimary))
	assert.Equal(t, "parakeet", Subcommand(catalog.FamilyFast))
	assert.Equal(t, "parakeet", Subcommand(catalog.FamilyStreaming))
	assert.Equal(t, "diarization", Subcommand(catalog.FamilyDiarization))
}

func TestDownloadCommand(t *testing.T) {
	assert.Equal(t, "muesli diarization download sortformer-v2",
		DownloadCommand(catalog.FamilyDiarization, "sortformer-v2"))
	assert.Equal(t, "muesli parakeet download nemotron-streaming",
		DownloadCommand(catalog.FamilyStreaming, "nemotron-streaming"))
}

func TestAvailable(t *testing.T) {
	found := &testSystem{LookPathFunc: func(string) (string, error) { return "/usr/bin/muesli", nil }}
	missing := &testSystem{LookPathFunc: func(string) (string, error) { return "", errors.New("not found") }}

	assert.True(t, newTestClient(found).Available())
	assert.False(t, newTestClient(missing).Available())
}
