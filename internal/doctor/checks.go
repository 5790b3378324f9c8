// Package doctor runs read-only health checks over the local muesli
// installation: the binary, PATH, the latest release, config.toml, models,
// the systemd user unit, and the GPU toolchain. Checks report findings,
// they never fix anything.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itsameandrea/muesliup/internal/catalog"
	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/install"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
	"github.com/itsameandrea/muesliup/internal/update"
)

// Status classifies a check outcome.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is one check finding. Recommendation is optional advice rendered
// under the finding.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// Client is the slice of the muesli CLI the checks query.
type Client interface {
	Version(ctx context.Context) (string, error)
	List(ctx context.Context, family catalog.Family) (map[string]bool, error)
}

var (
	loadConfigLenientFunc = config.LoadConfigLenient
	checkReleaseFunc      = update.Check
	detectGPUFunc         = func() bool { return install.DetectGPU(install.RealSystem{}) }
)

// CheckBinary verifies the muesli binary exists in installDir and answers
// --version. The reported version is returned for the release check, or ""
// when it is unavailable.
func CheckBinary(ctx context.Context, installDir string, client Client) ([]Result, string) {
	binPath := filepath.Join(installDir, muesli.BinaryName)
	if _, err := os.Stat(binPath); err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameBinary,
			Message:        fmt.Sprintf(messages.DoctorBinaryMissingFmt, binPath),
			Recommendation: messages.DoctorBinaryMissingRecommend,
		}}, ""
	}
	version, err := client.Version(ctx)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameBinary,
			Message:        fmt.Sprintf(messages.DoctorBinaryNoVersionFmt, binPath, err),
			Recommendation: messages.DoctorBinaryBrokenRecommend,
		}}, ""
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameBinary,
		Message:   fmt.Sprintf(messages.DoctorBinaryVersionFmt, version, binPath),
	}}, version
}

// CheckPath reports whether installDir is on PATH. A missing entry is a
// warning: muesli still runs by absolute path, but the Hyprland keybind and
// shell invocations will not resolve it.
func CheckPath(installDir string) []Result {
	clean := filepath.Clean(installDir)
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		if filepath.Clean(dir) == clean {
			return []Result{{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNamePath,
				Message:   fmt.Sprintf(messages.DoctorPathOkFmt, installDir),
			}}
		}
	}
	return []Result{{
		Status:         StatusWarn,
		CheckName:      messages.DoctorCheckNamePath,
		Message:        fmt.Sprintf(messages.DoctorPathMissingFmt, installDir),
		Recommendation: fmt.Sprintf(messages.DoctorPathRecommendFmt, installDir),
	}}
}

// CheckRelease compares the installed muesli version against the latest
// published release. Lookup problems degrade to warnings, and
// MUESLIUP_NO_NETWORK skips the lookup entirely. Callers skip this check
// when no installed version is known.
func CheckRelease(ctx context.Context, installedVersion string) []Result {
	if strings.TrimSpace(os.Getenv(config.EnvNoNetwork)) != "" {
		return []Result{{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameRelease,
			Message:   fmt.Sprintf(messages.DoctorReleaseSkippedFmt, config.EnvNoNetwork),
		}}
	}

	result, err := checkReleaseFunc(ctx, installedVersion)
	switch {
	case err != nil && update.IsRateLimitError(err):
		return []Result{{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameRelease,
			Message:   messages.DoctorReleaseRateLimited,
		}}
	case err != nil:
		return []Result{{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameRelease,
			Message:   fmt.Sprintf(messages.DoctorReleaseFailedFmt, err),
		}}
	case result.CurrentIsDev:
		return []Result{{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameRelease,
			Message:   fmt.Sprintf(messages.DoctorReleaseDevFmt, result.Latest),
		}}
	case result.Outdated:
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameRelease,
			Message:        fmt.Sprintf(messages.DoctorReleaseOutdatedFmt, result.Current, result.Latest),
			Recommendation: messages.DoctorReleaseOutdatedRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameRelease,
		Message:   fmt.Sprintf(messages.DoctorReleaseCurrentFmt, result.Current),
	}}
}

// CheckConfig loads config.toml strictly. When strict loading fails with a
// validation error, a lenient reload supplies a partial config so the model
// and toolchain checks still run; the validation problem is still reported
// as a failure.
func CheckConfig(configPath string) ([]Result, *config.Config) {
	if _, err := os.Stat(configPath); err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigMissingFmt, configPath),
			Recommendation: messages.DoctorConfigInitRecommend,
		}}, nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err == nil {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameConfig,
			Message:   fmt.Sprintf(messages.DoctorConfigOkFmt, configPath),
		}}, cfg
	}

	failed := Result{
		Status:         StatusFail,
		CheckName:      messages.DoctorCheckNameConfig,
		Message:        fmt.Sprintf(messages.DoctorConfigInvalidFmt, configPath, err),
		Recommendation: messages.DoctorConfigEditRecommend,
	}
	if !errors.Is(err, config.ErrConfigValidation) {
		// Syntax or filesystem error; a lenient reload would hit it too.
		return []Result{failed}, nil
	}
	partial, lenientErr := loadConfigLenientFunc(configPath)
	if lenientErr != nil {
		return []Result{failed}, nil
	}
	return []Result{failed}, partial
}

// CheckModels verifies the configured engine has its model installed and
// reports any diarization or streaming models alongside.
func CheckModels(ctx context.Context, client Client, cfg *config.Config) []Result {
	results := engineModelResults(ctx, client, cfg)
	for _, family := range []catalog.Family{catalog.FamilyDiarization, catalog.FamilyStreaming} {
		installed, err := client.List(ctx, family)
		if err != nil || len(installed) == 0 {
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameModels,
			Message:   fmt.Sprintf(messages.DoctorModelsOkFmt, familyLabel(family), joinSorted(installed)),
		})
	}
	return results
}

func engineModelResults(ctx context.Context, client Client, cfg *config.Config) []Result {
	engine := strings.ToLower(strings.TrimSpace(cfg.Transcription.Engine))
	switch engine {
	case "whisper":
		return engineModels(ctx, client, catalog.FamilyPrimary, cfg.Transcription.EffectiveModel())
	case "parakeet":
		return engineModels(ctx, client, catalog.FamilyFast, cfg.Transcription.EffectiveModel())
	}

	// Cloud engines transcribe remotely; local whisper matters only as the
	// fallback path.
	if !cfg.Transcription.FallbackToLocal {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameModels,
			Message:   fmt.Sprintf(messages.DoctorModelsCloudFmt, engine),
		}}
	}
	label := catalog.FamilyPrimary.Engine()
	installed, err := client.List(ctx, catalog.FamilyPrimary)
	if err != nil {
		return []Result{{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameModels,
			Message:   fmt.Sprintf(messages.DoctorModelsUnknownFmt, label, err),
		}}
	}
	if len(installed) == 0 {
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameModels,
			Message:        fmt.Sprintf(messages.DoctorModelsFallbackFmt, label),
			Recommendation: downloadRecommendation(catalog.FamilyPrimary, ""),
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameModels,
		Message:   fmt.Sprintf(messages.DoctorModelsOkFmt, label, joinSorted(installed)),
	}}
}

// engineModels checks the family the configured engine loads models from.
func engineModels(ctx context.Context, client Client, family catalog.Family, configured string) []Result {
	label := family.Engine()
	installed, err := client.List(ctx, family)
	if err != nil {
		return []Result{{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameModels,
			Message:   fmt.Sprintf(messages.DoctorModelsUnknownFmt, label, err),
		}}
	}
	if len(installed) == 0 {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameModels,
			Message:        fmt.Sprintf(messages.DoctorModelsNoneFmt, label),
			Recommendation: downloadRecommendation(family, configured),
		}}
	}
	if configured != "" && !installed[configured] && !installed[downloadID(family, configured)] {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameModels,
			Message:        fmt.Sprintf(messages.DoctorModelsConfiguredMissingFmt, configured),
			Recommendation: downloadRecommendation(family, configured),
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameModels,
		Message:   fmt.Sprintf(messages.DoctorModelsOkFmt, label, joinSorted(installed)),
	}}
}

// CheckService reports whether the systemd user unit is installed. Missing
// is only a warning; muesli also runs in the foreground.
func CheckService(unitPath string) []Result {
	if _, err := os.Stat(unitPath); err != nil {
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameService,
			Message:        fmt.Sprintf(messages.DoctorServiceMissingFmt, unitPath),
			Recommendation: messages.DoctorServiceRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameService,
		Message:   fmt.Sprintf(messages.DoctorServiceOkFmt, unitPath),
	}}
}

// CheckToolchain verifies the GPU toolchain matches use_gpu.
func CheckToolchain(cfg *config.Config) []Result {
	if !cfg.Transcription.UseGPU {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameToolchain,
			Message:   messages.DoctorToolchainCPU,
		}}
	}
	if detectGPUFunc() {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameToolchain,
			Message:   messages.DoctorToolchainOk,
		}}
	}
	return []Result{{
		Status:         StatusFail,
		CheckName:      messages.DoctorCheckNameToolchain,
		Message:        messages.DoctorToolchainMissing,
		Recommendation: messages.DoctorToolchainRecommend,
	}}
}

// downloadRecommendation renders the download command for the model the
// config names, falling back to the family's recommended model.
func downloadRecommendation(family catalog.Family, configured string) string {
	return fmt.Sprintf(messages.DoctorModelsDownloadRecommendFmt, muesli.Subcommand(family), downloadID(family, configured))
}

// downloadID resolves the configured model to its canonical catalog id.
// Unknown names pass through untouched; an empty or wrong-family name maps
// to the family's recommended model.
func downloadID(family catalog.Family, configured string) string {
	if m, ok := catalog.Lookup(configured); ok {
		if m.Family == family {
			return m.ID
		}
	} else if configured != "" {
		return configured
	}
	if family == catalog.FamilyFast {
		return "parakeet-v3-int8"
	}
	return "base"
}

func familyLabel(f catalog.Family) string {
	if e := f.Engine(); e != "" {
		return e
	}
	return string(f)
}

func joinSorted(installed map[string]bool) string {
	ids := make([]string, 0, len(installed))
	for id := range installed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}
