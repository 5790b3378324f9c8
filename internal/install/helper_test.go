package install

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
)

// scripted is one canned result for a command-line prefix.
type scripted struct {
	out string
	err error
	// effect runs before the result is returned; dir is the command's
	// working directory, args its arguments.
	effect func(dir string, args []string) error
}

// testSystem runs file operations against the real filesystem while command
// execution, PATH lookups, env reads, and selected Stat probes are scripted.
// Commands match by prefix so paths with random temp components can still be
// scripted.
type testSystem struct {
	RealSystem
	env     map[string]string
	missing map[string]bool
	statMap map[string]string
	script  map[string]scripted
	log     []string
}

func newTestSystem() *testSystem {
	return &testSystem{
		env:     map[string]string{},
		missing: map[string]bool{},
		statMap: map[string]string{},
		script:  map[string]scripted{},
	}
}

func (s *testSystem) LookPath(file string) (string, error) {
	if s.missing[file] {
		return "", os.ErrNotExist
	}
	return "/usr/bin/" + file, nil
}

func (s *testSystem) LookupEnv(key string) (string, bool) {
	v, ok := s.env[key]
	return v, ok
}

// Stat consults statMap first: an empty mapping means "does not exist", a
// non-empty one redirects to a real path. Everything else hits the real
// filesystem.
func (s *testSystem) Stat(name string) (os.FileInfo, error) {
	if mapped, ok := s.statMap[name]; ok {
		if mapped == "" {
			return nil, os.ErrNotExist
		}
		return os.Stat(mapped)
	}
	return s.RealSystem.Stat(name)
}

func (s *testSystem) match(line string) (scripted, bool) {
	for prefix, sc := range s.script {
		if strings.HasPrefix(line, prefix) {
			return sc, true
		}
	}
	return scripted{}, false
}

func (s *testSystem) Output(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	s.log = append(s.log, line)
	sc, ok := s.match(line)
	if !ok {
		return nil, nil
	}
	if sc.effect != nil {
		if err := sc.effect(dir, args); err != nil {
			return nil, err
		}
	}
	return []byte(sc.out), sc.err
}

func (s *testSystem) RunStreaming(_ context.Context, dir string, stdout, _ io.Writer, name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	s.log = append(s.log, line)
	sc, ok := s.match(line)
	if !ok {
		return nil
	}
	if sc.effect != nil {
		if err := sc.effect(dir, args); err != nil {
			return err
		}
	}
	if sc.out != "" {
		_, _ = io.WriteString(stdout, sc.out)
	}
	return sc.err
}

func (s *testSystem) loggedPrefix(prefix string) bool {
	for _, line := range s.log {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func stubTerminateDaemon(t *testing.T) *int {
	t.Helper()
	orig := terminateDaemon
	calls := 0
	terminateDaemon = func(context.Context, string) (int, error) {
		calls++
		return 0, nil
	}
	t.Cleanup(func() { terminateDaemon = orig })
	return &calls
}

func stubResolveLatest(t *testing.T, v string, err error) {
	t.Helper()
	orig := resolveLatest
	resolveLatest = func(context.Context) (string, error) { return v, err }
	t.Cleanup(func() { resolveLatest = orig })
}

// stubAssetBase points asset URLs at a test server, preserving the
// /<tag>/<asset> layout.
func stubAssetBase(t *testing.T, base string) {
	t.Helper()
	orig := assetURL
	assetURL = func(tag string, asset string) string { return base + "/" + tag + "/" + asset }
	t.Cleanup(func() { assetURL = orig })
}
