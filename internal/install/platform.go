package install

import (
	"fmt"
	"runtime"

	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/messages"
)

// vulkanLoaderPaths are where Linux distributions install the Vulkan ICD
// loader; any one of them present counts as a working GPU toolchain.
var vulkanLoaderPaths = []string{
	"/usr/lib/libvulkan.so.1",
	"/usr/lib64/libvulkan.so.1",
	"/usr/lib/x86_64-linux-gnu/libvulkan.so.1",
}

// ResolveVariant maps the host triple onto a published release variant.
// Resolution is total over the supported set and happens before any network
// access; everything outside the table is an unsupported platform.
func ResolveVariant(sys System, goos string, goarch string) (string, error) {
	switch {
	case goos == "linux" && goarch == "amd64":
		if DetectGPU(sys) {
			return "linux-x86_64-vulkan", nil
		}
		return "linux-x86_64-cpu", nil
	case goos == "darwin" && goarch == "amd64":
		return "macos-x86_64", nil
	case goos == "darwin" && goarch == "arm64":
		return "macos-arm64", nil
	default:
		return "", fmt.Errorf(messages.InstallUnsupportedPlatformFmt, goos, archName(goarch))
	}
}

// HostVariant resolves the variant for the machine muesliup is running on.
func HostVariant(sys System) (string, error) {
	return ResolveVariant(sys, runtime.GOOS, runtime.GOARCH)
}

// DetectGPU reports whether a Vulkan-capable setup is visible: either
// vulkaninfo on PATH or an ICD loader at a known location. MUESLIUP_GPU=0|1
// overrides detection either way.
func DetectGPU(sys System) bool {
	if v, ok := sys.LookupEnv(config.EnvGPU); ok {
		switch v {
		case "1":
			return true
		case "0":
			return false
		}
	}
	if _, err := sys.LookPath("vulkaninfo"); err == nil {
		return true
	}
	for _, p := range vulkanLoaderPaths {
		if _, err := sys.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	default:
		return goarch
	}
}
