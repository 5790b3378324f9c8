package install

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/muesli"
	"github.com/itsameandrea/muesliup/internal/version"
)

// fallbackManifest is what the source-build fallback finds in a fresh clone.
const fallbackManifest = `binary_name: muesli
repo: itsameandrea/muesli
version_file: Cargo.toml
gates:
  fmt: "true"
  lint: "true"
  test: "true"
backends:
  - name: cpu
    command: cargo build --release
    artifact: target/release/muesli
`

// hostAsset pins GPU detection to cpu and returns the release asset name for
// the host, skipping on platforms no release is published for.
func hostAsset(t *testing.T, sys *testSystem) string {
	t.Helper()
	sys.env[config.EnvGPU] = "0"
	variant, err := ResolveVariant(sys, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("no release variant for this host: %v", err)
	}
	return muesli.BinaryName + "-" + variant
}

// prepareInstallDir routes the install into a temp directory and scripts the
// post-install version check of the binary that lands there.
func prepareInstallDir(t *testing.T, sys *testSystem, reportedVersion string) string {
	t.Helper()
	installDir := t.TempDir()
	t.Setenv(config.EnvInstallDir, installDir)
	target := filepath.Join(installDir, muesli.BinaryName)
	sys.script[target+" --version"] = scripted{out: "muesli " + reportedVersion + "\n"}
	sys.env["PATH"] = "/usr/bin" + string(os.PathListSeparator) + installDir
	return target
}

// scriptFallback scripts a successful clone and cpu build; the returned
// pointer reports the clone directory once the clone has run.
func scriptFallback(sys *testSystem) *string {
	var cloneDir string
	sys.script["git clone"] = scripted{effect: func(_ string, args []string) error {
		cloneDir = args[len(args)-1]
		return os.WriteFile(filepath.Join(cloneDir, ".muesliup.yml"), []byte(fallbackManifest), 0o644)
	}}
	sys.script["sh -c cargo build --release"] = scripted{effect: func(dir string, _ []string) error {
		if err := os.MkdirAll(filepath.Join(dir, "target", "release"), 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, "target", "release", "muesli"), []byte("built-from-source"), 0o755)
	}}
	return &cloneDir
}

// serveRelease returns a server offering the asset and its checksum sidecar
// under /<tag>/.
func serveRelease(t *testing.T, tag string, asset string, payload []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/"+tag+"/"+asset, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})
	mux.HandleFunc("/"+tag+"/"+asset+".sha256", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%x  %s\n", sha256.Sum256(payload), asset)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunInstallsDownloadedAsset(t *testing.T) {
	sys := newTestSystem()
	asset := hostAsset(t, sys)
	payload := []byte("release binary payload")

	srv := serveRelease(t, "v1.3.0", asset, payload)
	stubAssetBase(t, srv.URL)
	stubResolveLatest(t, "1.3.0", nil)
	calls := stubTerminateDaemon(t)
	target := prepareInstallDir(t, sys, "1.3.0")

	var out, errOut bytes.Buffer
	err := Run(context.Background(), sys, Options{Out: &out, Err: &errOut})
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	info, err := os.Stat(target)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}

	assert.Equal(t, 1, *calls)
	assert.Contains(t, out.String(), "Installing muesli 1.3.0 (")
	assert.Contains(t, out.String(), "Installed muesli 1.3.0 to "+target)
	assert.Contains(t, out.String(), "muesli is on your PATH")
	assert.Empty(t, errOut.String())
}

func TestRunExplicitVersionSkipsIndex(t *testing.T) {
	sys := newTestSystem()
	asset := hostAsset(t, sys)
	payload := []byte("pinned release payload")

	srv := serveRelease(t, "v2.0.0", asset, payload)
	stubAssetBase(t, srv.URL)
	stubResolveLatest(t, "", errors.New("index must not be consulted"))
	stubTerminateDaemon(t)
	target := prepareInstallDir(t, sys, "2.0.0")

	var out bytes.Buffer
	err := Run(context.Background(), sys, Options{Version: "v2.0.0", Out: &out})
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Contains(t, out.String(), "Installing muesli 2.0.0 (")
}

func TestRunInvalidVersion(t *testing.T) {
	sys := newTestSystem()
	hostAsset(t, sys)
	calls := stubTerminateDaemon(t)

	err := Run(context.Background(), sys, Options{Version: "1.2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, version.ErrInvalidFormat)
	assert.Zero(t, *calls)
}

func TestRunChecksumHandling(t *testing.T) {
	serveTampered := func(t *testing.T, asset string, payload []byte) *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1.3.0/"+asset, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(payload)
		})
		mux.HandleFunc("/v1.3.0/"+asset+".sha256", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "%x  %s\n", sha256.Sum256([]byte("tampered")), asset)
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("mismatch warns and installs by default", func(t *testing.T) {
		sys := newTestSystem()
		asset := hostAsset(t, sys)
		payload := []byte("release binary payload")

		stubAssetBase(t, serveTampered(t, asset, payload).URL)
		stubResolveLatest(t, "1.3.0", nil)
		stubTerminateDaemon(t)
		target := prepareInstallDir(t, sys, "1.3.0")

		var out, errOut bytes.Buffer
		err := Run(context.Background(), sys, Options{Out: &out, Err: &errOut})
		require.NoError(t, err)

		assert.Contains(t, errOut.String(), "checksum mismatch")
		assert.Contains(t, errOut.String(), "installing anyway")
		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("mismatch is fatal under strict", func(t *testing.T) {
		sys := newTestSystem()
		asset := hostAsset(t, sys)
		payload := []byte("release binary payload")

		stubAssetBase(t, serveTampered(t, asset, payload).URL)
		stubResolveLatest(t, "1.3.0", nil)
		calls := stubTerminateDaemon(t)
		target := prepareInstallDir(t, sys, "1.3.0")

		err := Run(context.Background(), sys, Options{Strict: true})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIntegrity)
		assert.Contains(t, err.Error(), "integrity check failed")

		_, statErr := os.Stat(target)
		assert.True(t, os.IsNotExist(statErr))
		assert.Zero(t, *calls)
	})

	t.Run("missing sidecar warns and installs", func(t *testing.T) {
		sys := newTestSystem()
		asset := hostAsset(t, sys)
		payload := []byte("release binary payload")

		mux := http.NewServeMux()
		mux.HandleFunc("/v1.3.0/"+asset, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(payload)
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		stubAssetBase(t, srv.URL)
		stubResolveLatest(t, "1.3.0", nil)
		stubTerminateDaemon(t)
		target := prepareInstallDir(t, sys, "1.3.0")

		var errOut bytes.Buffer
		err := Run(context.Background(), sys, Options{Err: &errOut})
		require.NoError(t, err)

		assert.Contains(t, errOut.String(), "installing anyway")
		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}

func TestRunFallsBackToSourceBuild(t *testing.T) {
	sys := newTestSystem()
	hostAsset(t, sys)

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	stubAssetBase(t, srv.URL)
	stubResolveLatest(t, "1.3.0", nil)
	stubTerminateDaemon(t)
	target := prepareInstallDir(t, sys, "1.3.0")
	cloneDir := scriptFallback(sys)

	var out, errOut bytes.Buffer
	err := Run(context.Background(), sys, Options{Out: &out, Err: &errOut})
	require.NoError(t, err)

	assert.Contains(t, errOut.String(), "Falling back to a source build.")
	assert.True(t, sys.loggedPrefix("git fetch --depth 1 origin tag v1.3.0"))
	assert.True(t, sys.loggedPrefix("git checkout v1.3.0"))
	assert.Contains(t, out.String(), "Building from source (cargo build --release)")

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "built-from-source", string(got))

	require.NotEmpty(t, *cloneDir)
	_, statErr := os.Stat(*cloneDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunFallsBackWhenIndexUnavailable(t *testing.T) {
	sys := newTestSystem()
	hostAsset(t, sys)

	stubResolveLatest(t, "", errors.New("503 Service Unavailable"))
	stubTerminateDaemon(t)
	target := prepareInstallDir(t, sys, "dev")
	scriptFallback(sys)

	var errOut bytes.Buffer
	err := Run(context.Background(), sys, Options{Err: &errOut})
	require.NoError(t, err)

	assert.Contains(t, errOut.String(), "resolve latest release")
	assert.Contains(t, errOut.String(), "Falling back to a source build.")
	assert.False(t, sys.loggedPrefix("git fetch"), "no tag to pin without an index")

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "built-from-source", string(got))
}

func TestRunFallbackCloneFailure(t *testing.T) {
	sys := newTestSystem()
	hostAsset(t, sys)

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	stubAssetBase(t, srv.URL)
	stubResolveLatest(t, "1.3.0", nil)
	stubTerminateDaemon(t)
	prepareInstallDir(t, sys, "1.3.0")
	sys.script["git clone"] = scripted{err: errors.New("exit status 128")}

	err := Run(context.Background(), sys, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"clone failed; re-run manually: git clone --depth 1 https://github.com/itsameandrea/muesli.git")
}

func TestRunFallbackTagFetchWarns(t *testing.T) {
	sys := newTestSystem()
	hostAsset(t, sys)

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	stubAssetBase(t, srv.URL)
	stubResolveLatest(t, "1.3.0", nil)
	stubTerminateDaemon(t)
	target := prepareInstallDir(t, sys, "1.3.0")
	scriptFallback(sys)
	sys.script["git fetch --depth 1 origin tag v1.3.0"] = scripted{err: errors.New("couldn't find remote ref")}

	var errOut bytes.Buffer
	err := Run(context.Background(), sys, Options{Err: &errOut})
	require.NoError(t, err)

	assert.Contains(t, errOut.String(), "could not fetch tag v1.3.0")
	assert.Contains(t, errOut.String(), "building default branch instead")
	assert.False(t, sys.loggedPrefix("git checkout"))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "built-from-source", string(got))
}
