package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itsameandrea/muesliup/internal/install"
	"github.com/itsameandrea/muesliup/internal/messages"
)

// detectGPUFunc probes for a usable Vulkan toolchain. Swapped in tests.
var detectGPUFunc = func() bool {
	return install.DetectGPU(install.RealSystem{})
}

// packageManager describes how one distro family installs the Vulkan
// loader and tools. vulkan-tools provides vulkaninfo, which the GPU probe
// relies on.
type packageManager struct {
	name       string
	installCmd []string
	packages   []string
}

var packageManagers = []packageManager{
	{
		name:       "pacman",
		installCmd: []string{"sudo", "pacman", "-S", "--noconfirm"},
		packages:   []string{"vulkan-icd-loader", "vulkan-tools"},
	},
	{
		name:       "apt-get",
		installCmd: []string{"sudo", "apt-get", "install", "-y"},
		packages:   []string{"libvulkan1", "vulkan-tools"},
	},
	{
		name:       "dnf",
		installCmd: []string{"sudo", "dnf", "install", "-y"},
		packages:   []string{"vulkan-loader", "vulkan-tools"},
	},
}

// findPackageManager returns the first supported package manager on PATH.
func findPackageManager(sys System) (packageManager, bool) {
	for _, pm := range packageManagers {
		if _, err := sys.LookPath(pm.name); err == nil {
			return pm, true
		}
	}
	return packageManager{}, false
}

func (pm packageManager) argv() []string {
	return append(append([]string{}, pm.installCmd...), pm.packages...)
}

func (pm packageManager) commandLine() string {
	return strings.Join(pm.argv(), " ")
}

func (pm packageManager) describe() string {
	return strings.Join(pm.packages, " ") + " via " + pm.name
}

// enableGPU queues use_gpu = true once the Vulkan toolchain is confirmed
// present, offering a package-manager install when it is not. Without the
// toolchain the setting stays off so transcription keeps working on CPU.
func (r *wizardRun) enableGPU(ctx context.Context) error {
	fmt.Fprint(r.out, messages.WizardGPUCheck)
	if detectGPUFunc() {
		fmt.Fprint(r.out, messages.WizardGPUPresent)
		r.queueGPU(true)
		return nil
	}

	pm, ok := findPackageManager(r.sys)
	if !ok {
		r.warnStep(messages.WizardStepBackend, errors.New(messages.WizardGPUNoManager))
		r.plan.drop("transcription", "use_gpu")
		return nil
	}

	installNow := true
	if err := r.ui.Confirm(fmt.Sprintf(messages.WizardGPUMissingFmt, pm.describe()), &installNow); err != nil {
		return err
	}
	if !installNow {
		fmt.Fprint(r.out, messages.WizardGPUDeclined)
		r.plan.drop("transcription", "use_gpu")
		return nil
	}

	fmt.Fprintf(r.out, messages.WizardGPUInstallRunFmt, pm.commandLine())
	argv := pm.argv()
	if err := r.sys.RunStreaming(ctx, r.out, r.out, argv[0], argv[1:]...); err != nil {
		r.warnStep(messages.WizardStepBackend, fmt.Errorf(messages.WizardGPUInstallFailFmt, pm.commandLine()))
		r.followup(pm.commandLine())
		r.plan.drop("transcription", "use_gpu")
		return nil
	}
	r.queueGPU(true)
	return nil
}

func (r *wizardRun) queueGPU(on bool) {
	r.plan.change(Change{Section: "transcription", Key: "use_gpu", Value: on})
	fmt.Fprintf(r.out, messages.WizardGPUEnabledFmt, onOff(on))
}
