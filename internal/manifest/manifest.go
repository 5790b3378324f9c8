// Package manifest loads the per-repository release manifest that drives the
// release pipeline: which quality gates to run, which compute backends to
// build, and where the version lives.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/itsameandrea/muesliup/internal/messages"
)

// FileName is the manifest's fixed name at the released repository's root.
const FileName = ".muesliup.yml"

// EnvPrefix namespaces environment overrides of manifest fields,
// e.g. MUESLIUP_BINARY_NAME overrides binary_name.
const EnvPrefix = "MUESLIUP_"

// Backend names the manifest may declare.
var knownBackends = []string{"cpu", "vulkan", "cuda", "metal"}

// Manifest describes one releasable repository.
type Manifest struct {
	// BinaryName is the artifact base name, e.g. "muesli".
	BinaryName string `koanf:"binary_name"`

	// Repo is the owner/name GitHub slug releases are published to.
	Repo string `koanf:"repo"`

	// VersionFile is the repo-relative file carrying the version line.
	VersionFile string `koanf:"version_file"`

	// RebuildMarker is a repo-relative file touched before each backend
	// build to defeat incremental caching. Empty disables the touch.
	RebuildMarker string `koanf:"rebuild_marker"`

	// ReleaseBranches are branches releases may run from without an
	// explicit confirmation.
	ReleaseBranches []string `koanf:"release_branches"`

	Gates    Gates     `koanf:"gates"`
	Backends []Backend `koanf:"backends"`
}

// Gates holds the three quality-gate commands, run in declaration order.
type Gates struct {
	Fmt  string `koanf:"fmt"`
	Lint string `koanf:"lint"`
	Test string `koanf:"test"`
}

// Backend declares one compute-backend build.
type Backend struct {
	Name     string `koanf:"name"`
	Command  string `koanf:"command"`
	Artifact string `koanf:"artifact"`
}

// Default returns the manifest fields that have defaults. Everything the
// validator requires must still come from the file or the environment.
func Default() Manifest {
	return Manifest{
		ReleaseBranches: []string{"main", "master"},
	}
}

// Load reads <repoDir>/.muesliup.yml, applies MUESLIUP_ environment
// overrides, and validates the result.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML)
//  3. env (prefix MUESLIUP_)
func Load(repoDir string) (*Manifest, error) {
	path := filepath.Join(repoDir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(messages.ManifestMissingFmt, path)
		}
		return nil, fmt.Errorf(messages.ManifestLoadFmt, path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf(messages.ManifestParseFmt, path, err)
	}

	// Environment overrides: MUESLIUP_BINARY_NAME -> binary_name, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "muesliup_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf(messages.ManifestLoadFmt, path, err)
	}

	m := Default()
	if err := k.UnmarshalWithConf("", &m, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf(messages.ManifestParseFmt, path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf(messages.ManifestLoadFmt, path, err)
	}
	return &m, nil
}

// Validate ensures the manifest can drive a full release.
func (m *Manifest) Validate() error {
	if m.BinaryName == "" {
		return errors.New(messages.ManifestBinaryNameMissing)
	}
	if m.VersionFile == "" {
		return errors.New(messages.ManifestVersionFileMissing)
	}

	gates := []struct {
		name    string
		command string
	}{
		{"fmt", m.Gates.Fmt},
		{"lint", m.Gates.Lint},
		{"test", m.Gates.Test},
	}
	for _, gate := range gates {
		if gate.command == "" {
			return fmt.Errorf(messages.ManifestGateMissingFmt, gate.name)
		}
	}

	if len(m.Backends) == 0 {
		return errors.New(messages.ManifestNoBackends)
	}
	seen := make(map[string]struct{}, len(m.Backends))
	for _, b := range m.Backends {
		if !isKnownBackend(b.Name) {
			return fmt.Errorf(messages.ManifestUnknownBackendFmt, b.Name, strings.Join(knownBackends, ", "))
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf(messages.ManifestDuplicateBackendFmt, b.Name)
		}
		seen[b.Name] = struct{}{}
		if b.Command == "" {
			return fmt.Errorf(messages.ManifestBackendCommandFmt, b.Name)
		}
		if b.Artifact == "" {
			return fmt.Errorf(messages.ManifestBackendArtifactFmt, b.Name)
		}
	}
	if _, ok := seen["cpu"]; !ok {
		return errors.New(messages.ManifestNoCPUBackend)
	}
	return nil
}

// CPUBackend returns the mandatory cpu backend.
func (m *Manifest) CPUBackend() (Backend, bool) {
	for _, b := range m.Backends {
		if b.Name == "cpu" {
			return b, true
		}
	}
	return Backend{}, false
}

// IsReleaseBranch reports whether branch may release without confirmation.
func (m *Manifest) IsReleaseBranch(branch string) bool {
	for _, b := range m.ReleaseBranches {
		if b == branch {
			return true
		}
	}
	return false
}

func isKnownBackend(name string) bool {
	for _, known := range knownBackends {
		if name == known {
			return true
		}
	}
	return false
}
