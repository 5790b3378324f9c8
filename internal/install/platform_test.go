package install

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsameandrea/muesliup/internal/config"
)

// noGPUProbes makes every GPU probe miss: vulkaninfo is absent and no loader
// library resolves.
func noGPUProbes(s *testSystem) {
	s.missing["vulkaninfo"] = true
	for _, p := range vulkanLoaderPaths {
		s.statMap[p] = ""
	}
}

func TestResolveVariant(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		prepare func(t *testing.T, s *testSystem)
		want    string
		wantErr string
	}{
		{
			name:   "linux vulkan via vulkaninfo",
			goos:   "linux",
			goarch: "amd64",
			prepare: func(t *testing.T, s *testSystem) {
				for _, p := range vulkanLoaderPaths {
					s.statMap[p] = ""
				}
			},
			want: "linux-x86_64-vulkan",
		},
		{
			name:   "linux vulkan via loader library",
			goos:   "linux",
			goarch: "amd64",
			prepare: func(t *testing.T, s *testSystem) {
				s.missing["vulkaninfo"] = true
				for _, p := range vulkanLoaderPaths {
					s.statMap[p] = ""
				}
				s.statMap[vulkanLoaderPaths[0]] = t.TempDir()
			},
			want: "linux-x86_64-vulkan",
		},
		{
			name:   "linux cpu when no probe hits",
			goos:   "linux",
			goarch: "amd64",
			prepare: func(t *testing.T, s *testSystem) {
				noGPUProbes(s)
			},
			want: "linux-x86_64-cpu",
		},
		{
			name:   "env override forces cpu despite working probes",
			goos:   "linux",
			goarch: "amd64",
			prepare: func(t *testing.T, s *testSystem) {
				s.env[config.EnvGPU] = "0"
			},
			want: "linux-x86_64-cpu",
		},
		{
			name:   "env override forces vulkan despite missing probes",
			goos:   "linux",
			goarch: "amd64",
			prepare: func(t *testing.T, s *testSystem) {
				noGPUProbes(s)
				s.env[config.EnvGPU] = "1"
			},
			want: "linux-x86_64-vulkan",
		},
		{
			name:   "malformed env override falls back to probes",
			goos:   "linux",
			goarch: "amd64",
			prepare: func(t *testing.T, s *testSystem) {
				noGPUProbes(s)
				s.env[config.EnvGPU] = "yes"
			},
			want: "linux-x86_64-cpu",
		},
		{
			name:   "darwin intel",
			goos:   "darwin",
			goarch: "amd64",
			want:   "macos-x86_64",
		},
		{
			name:   "darwin apple silicon",
			goos:   "darwin",
			goarch: "arm64",
			want:   "macos-arm64",
		},
		{
			name:    "linux arm64 unsupported",
			goos:    "linux",
			goarch:  "arm64",
			wantErr: "unsupported platform linux/arm64",
		},
		{
			name:    "windows unsupported",
			goos:    "windows",
			goarch:  "amd64",
			wantErr: "unsupported platform windows/x86_64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newTestSystem()
			if tt.prepare != nil {
				tt.prepare(t, sys)
			}

			got, err := ResolveVariant(sys, tt.goos, tt.goarch)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectGPUPrefersEnvOverride(t *testing.T) {
	sys := newTestSystem()
	noGPUProbes(sys)

	assert.False(t, DetectGPU(sys))

	sys.env[config.EnvGPU] = "1"
	assert.True(t, DetectGPU(sys))

	sys.env[config.EnvGPU] = "0"
	assert.False(t, DetectGPU(sys))
}
