package wizard

import (
	"context"
	"fmt"

	"github.com/itsameandrea/muesliup/internal/catalog"
	"github.com/itsameandrea/muesliup/internal/hyprland"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
	"github.com/itsameandrea/muesliup/internal/service"
	"github.com/itsameandrea/muesliup/internal/waybar"
)

var (
	diarizationModel = mustLookup("sortformer-v2")
	streamingModel   = mustLookup("nemotron-streaming")
)

func mustLookup(id string) catalog.Model {
	m, ok := catalog.Lookup(id)
	if !ok {
		panic("model missing from catalog: " + id)
	}
	return m
}

// stepDirectories creates the config and data tree. It never prompts.
func (r *wizardRun) stepDirectories() error {
	for _, dir := range r.paths.DataDirs() {
		if err := r.sys.MkdirAll(dir, 0o755); err != nil {
			r.warnStep(messages.WizardStepDirectories, fmt.Errorf(messages.SystemCreateDirFmt, dir, err))
			return nil
		}
	}
	fmt.Fprintf(r.out, messages.WizardDirConfigFmt, r.paths.ConfigDir)
	fmt.Fprintf(r.out, messages.WizardDirDataFmt, r.paths.DataDir)
	fmt.Fprintf(r.out, messages.WizardDirModelsFmt, r.paths.ModelsDir)
	return nil
}

// stepConfig initializes config.toml through the muesli binary when the file
// does not exist yet. It never prompts.
func (r *wizardRun) stepConfig(ctx context.Context) error {
	if _, err := r.sys.Stat(r.paths.ConfigPath); err == nil {
		fmt.Fprintf(r.out, messages.WizardConfigExistsFmt, r.paths.ConfigPath)
		return nil
	}
	if err := r.client.ConfigInit(ctx); err != nil {
		r.warnStep(messages.WizardStepConfig, fmt.Errorf(messages.WizardConfigInitFmt, err))
		r.followup("muesli config init")
		return nil
	}
	fmt.Fprintf(r.out, messages.WizardConfigCreatedFmt, r.paths.ConfigPath)
	return nil
}

// stepBackend chooses between CPU and Vulkan GPU transcription. Enabling the
// GPU first verifies the Vulkan toolchain and offers to install it.
func (r *wizardRun) stepBackend(ctx context.Context) error {
	cfg := r.currentConfig()
	fmt.Fprintf(r.out, messages.WizardBackendCurrentFmt, onOff(cfg.Transcription.UseGPU))

	choice := messages.WizardBackendKeep
	options := []string{messages.WizardBackendKeep, messages.WizardBackendCPU, messages.WizardBackendGPU}
	if err := r.ui.Select(messages.WizardBackendTitle, options, &choice); err != nil {
		return err
	}
	switch choice {
	case messages.WizardBackendCPU:
		r.queueGPU(false)
	case messages.WizardBackendGPU:
		return r.enableGPU(ctx)
	default:
		r.plan.drop("transcription", "use_gpu")
	}
	return nil
}

// stepModel offers the selectable transcription models, downloads the chosen
// one, and optionally queues it as the default engine.
func (r *wizardRun) stepModel(ctx context.Context) error {
	installed := r.installedModels(ctx)
	current, haveCurrent := catalog.Lookup(r.currentConfig().Transcription.EffectiveModel())

	selectable := catalog.Selectable()
	options := make([]string, 0, len(selectable)+1)
	byLabel := make(map[string]catalog.Model, len(selectable))
	var choice, defaultLabel string
	for _, m := range selectable {
		mark := ""
		if installed[m.ID] {
			mark = messages.WizardModelInstalled
		}
		label := fmt.Sprintf(messages.WizardModelEntryFmt, m.ID, m.SizeMB, m.Description, mark)
		options = append(options, label)
		byLabel[label] = m
		if haveCurrent && m.ID == current.ID {
			choice = label
		}
		if m.Default {
			defaultLabel = label
		}
	}
	options = append(options, messages.WizardModelSkip)
	if choice == "" {
		choice = defaultLabel
	}

	if err := r.ui.Select(messages.WizardModelTitle, options, &choice); err != nil {
		return err
	}
	if choice == messages.WizardModelSkip {
		fmt.Fprint(r.out, messages.WizardStepSkipped)
		r.plan.drop("transcription", "engine")
		r.plan.drop("transcription", "model")
		return nil
	}

	m := byLabel[choice]
	if installed[m.ID] {
		fmt.Fprintf(r.out, messages.WizardModelHaveFmt, m.ID)
	} else if !r.downloadModel(ctx, messages.WizardStepModel, m) {
		return nil
	}

	setDefault := true
	prompt := fmt.Sprintf(messages.WizardModelDefaultFmt, m.Family.Engine(), m.ID)
	if err := r.ui.Confirm(prompt, &setDefault); err != nil {
		return err
	}
	if !setDefault {
		r.plan.drop("transcription", "engine")
		r.plan.drop("transcription", "model")
		return nil
	}
	r.plan.change(Change{Section: "transcription", Key: "engine", Value: m.Family.Engine()})
	r.plan.change(Change{Section: "transcription", Key: "model", Value: m.ID})
	fmt.Fprint(r.out, messages.WizardModelDefaultQueued)
	return nil
}

func (r *wizardRun) stepDiarization(ctx context.Context) error {
	prompt := fmt.Sprintf(messages.WizardDiarPromptFmt, diarizationModel.ID, diarizationModel.SizeMB)
	return r.offerSecondary(ctx, messages.WizardStepDiarization, diarizationModel, prompt, true)
}

func (r *wizardRun) stepStreaming(ctx context.Context) error {
	fmt.Fprint(r.out, messages.WizardStreamingNote)
	prompt := fmt.Sprintf(messages.WizardStreamingPromptFmt, float64(streamingModel.SizeMB)/1024)
	return r.offerSecondary(ctx, messages.WizardStepStreaming, streamingModel, prompt, false)
}

// offerSecondary handles the optional diarization and streaming downloads:
// already-installed models short-circuit, otherwise the download is offered
// with the given default answer.
func (r *wizardRun) offerSecondary(ctx context.Context, step string, m catalog.Model, prompt string, accept bool) error {
	if installed, err := r.client.List(ctx, m.Family); err == nil && installed[m.ID] {
		fmt.Fprintf(r.out, messages.WizardModelHaveFmt, m.ID)
		return nil
	}
	if err := r.ui.Confirm(prompt, &accept); err != nil {
		return err
	}
	if !accept {
		fmt.Fprintf(r.out, messages.WizardSecondarySkipFmt, m.ID)
		return nil
	}
	r.downloadModel(ctx, step, m)
	return nil
}

// downloadModel fetches a model through the muesli CLI, reporting failure as
// a warning plus a manual retry command. Reports whether the download
// succeeded.
func (r *wizardRun) downloadModel(ctx context.Context, step string, m catalog.Model) bool {
	fmt.Fprintf(r.out, messages.WizardModelGetFmt, m.ID)
	if err := r.client.Download(ctx, m.Family, m.ID); err != nil {
		retry := muesli.DownloadCommand(m.Family, m.ID)
		r.warnStep(step, fmt.Errorf(messages.WizardModelFailFmt, m.ID, err))
		fmt.Fprintf(r.out, messages.WizardModelRetryFmt, retry)
		r.followup(retry)
		return false
	}
	fmt.Fprintf(r.out, messages.WizardModelGotFmt, m.ID)
	return true
}

// installedModels merges the installed sets of both selectable families.
// Listing failures only cost the [installed] markers, so they stay silent.
func (r *wizardRun) installedModels(ctx context.Context) map[string]bool {
	installed := map[string]bool{}
	for _, family := range []catalog.Family{catalog.FamilyPrimary, catalog.FamilyFast} {
		listed, err := r.client.List(ctx, family)
		if err != nil {
			continue
		}
		for id, have := range listed {
			if have {
				installed[id] = true
			}
		}
	}
	return installed
}

// stepService writes the systemd user unit for the muesli daemon.
func (r *wizardRun) stepService(ctx context.Context) error {
	binary, err := r.sys.LookPath(muesli.BinaryName)
	if err != nil {
		r.warnStep(messages.WizardStepService, fmt.Errorf(messages.SystemLookPathFmt, muesli.BinaryName, err))
		r.followup("muesliup install")
		return nil
	}
	if _, err := r.sys.Stat(r.paths.ServiceUnitPath); err == nil {
		fmt.Fprintf(r.out, messages.WizardServiceExistsFmt, r.paths.ServiceUnitPath)
		return nil
	}

	confirm := true
	if err := r.ui.Confirm(messages.WizardServicePrompt, &confirm); err != nil {
		return err
	}
	if !confirm {
		fmt.Fprint(r.out, messages.WizardServiceSkipped)
		return nil
	}
	if err := service.WriteUnit(r.sys, r.paths.ServiceUnitPath, binary); err != nil {
		r.warnStep(messages.WizardStepService, err)
		return nil
	}
	fmt.Fprintf(r.out, messages.WizardServiceWroteFmt, r.paths.ServiceUnitPath)
	if err := service.Reload(ctx, r.sys); err != nil {
		fmt.Fprint(r.out, messages.WizardServiceReloadWarn)
		r.followup("systemctl --user daemon-reload")
	}
	fmt.Fprint(r.out, messages.WizardServiceEnableHint)
	return nil
}

// stepEnv wires muesli into the desktop: a Hyprland keybinding snippet and a
// Waybar status module, each gated on the respective config directory.
func (r *wizardRun) stepEnv() error {
	if err := r.envHyprland(); err != nil {
		return err
	}
	return r.envWaybar()
}

func (r *wizardRun) envHyprland() error {
	if _, err := r.sys.Stat(r.paths.HyprDir); err != nil {
		fmt.Fprint(r.out, messages.WizardEnvNoHypr)
		return nil
	}
	confirm := true
	if err := r.ui.Confirm(messages.WizardEnvHyprPrompt, &confirm); err != nil {
		return err
	}
	if !confirm {
		fmt.Fprint(r.out, messages.WizardStepSkipped)
		return nil
	}
	if err := hyprland.WriteSnippet(r.sys, r.paths.HyprSnippetPath); err != nil {
		r.warnStep(messages.WizardStepEnv, err)
		return nil
	}
	fmt.Fprintf(r.out, messages.WizardEnvHyprWroteFmt, r.paths.HyprSnippetPath)

	added, err := hyprland.AddSourceLine(r.sys, r.paths.HyprlandConfPath)
	if err != nil {
		r.warnStep(messages.WizardStepEnv, err)
		r.followup("add to hyprland.conf: " + hyprland.SourceLine)
		return nil
	}
	if added {
		fmt.Fprintf(r.out, messages.WizardEnvHyprAddedFmt, r.paths.HyprlandConfPath)
	} else {
		fmt.Fprint(r.out, messages.WizardEnvHyprSourced)
	}
	return nil
}

func (r *wizardRun) envWaybar() error {
	if _, err := r.sys.Stat(r.paths.WaybarDir); err != nil {
		fmt.Fprint(r.out, messages.WizardEnvNoWaybar)
		return nil
	}
	confirm := true
	if err := r.ui.Confirm(messages.WizardEnvWaybarPrompt, &confirm); err != nil {
		return err
	}
	if !confirm {
		fmt.Fprint(r.out, messages.WizardStepSkipped)
		return nil
	}
	if err := waybar.WriteSnippet(r.sys, r.paths.WaybarSnippetPath); err != nil {
		r.warnStep(messages.WizardStepEnv, err)
		return nil
	}
	fmt.Fprintf(r.out, messages.WizardEnvWaybarWroteFmt, r.paths.WaybarSnippetPath)
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
