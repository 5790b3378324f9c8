// Package wizard implements muesli's interactive first-run setup: an ordered
// sequence of independently skippable, idempotent steps covering directories,
// the default config, the GPU backend, transcription models, the systemd user
// service, and Hyprland/Waybar integration.
//
// Filesystem and download effects apply immediately during a step; each is
// idempotent, so re-running a step after back-navigation is safe. Edits to
// config.toml are the exception: steps only queue them, and they apply in one
// atomic write after the operator confirms a unified-diff preview.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/itsameandrea/muesliup/internal/catalog"
	"github.com/itsameandrea/muesliup/internal/config"
	"github.com/itsameandrea/muesliup/internal/messages"
	"github.com/itsameandrea/muesliup/internal/muesli"
)

var (
	errWizardBack      = errors.New("wizard back requested")
	errWizardCancelled = errors.New("wizard cancelled")
)

// ModelClient is the slice of the muesli CLI client the setup flow drives.
// *muesli.Client satisfies it.
type ModelClient interface {
	ConfigInit(ctx context.Context) error
	List(ctx context.Context, family catalog.Family) (map[string]bool, error)
	Download(ctx context.Context, family catalog.Family, id string) error
}

// Options configures a setup run. Zero-value fields fall back to the real
// implementations.
type Options struct {
	UI     UI
	System System
	Client ModelClient
	Out    io.Writer
}

// Run executes the setup flow. Esc in any form navigates back one step;
// Ctrl+C cancels the run without applying config changes. A cancelled run
// returns nil: walking away from setup is a normal outcome, not a failure.
func Run(ctx context.Context, opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	ui := opts.UI
	if ui == nil {
		ui = NewHuhUI()
	}
	sys := opts.System
	if sys == nil {
		sys = RealSystem{}
	}
	client := opts.Client
	if client == nil {
		client = muesli.New(muesli.RealSystem{}, out, out)
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}

	r := &wizardRun{ui: ui, sys: sys, client: client, out: out, paths: paths, plan: &plan{}}
	fmt.Fprintln(out, titleStyle.Render(messages.SetupTitle))

	if err := r.flow(ctx); err != nil {
		return r.finishErr(err)
	}
	if err := r.confirmAndApply(); err != nil {
		return r.finishErr(err)
	}
	r.summary()
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	stepStyle = lipgloss.NewStyle().Bold(true)
)

// wizardRun carries the state of one setup invocation.
type wizardRun struct {
	ui     UI
	sys    System
	client ModelClient
	out    io.Writer
	paths  config.Paths
	plan   *plan
}

// plan accumulates the config.toml mutations and manual follow-ups the steps
// produce.
type plan struct {
	changes   []Change
	followups []string
}

// change records a key assignment, replacing any earlier assignment of the
// same key so re-visited steps do not stack duplicates.
func (p *plan) change(c Change) {
	for i, existing := range p.changes {
		if existing.Section == c.Section && existing.Key == c.Key {
			p.changes[i] = c
			return
		}
	}
	p.changes = append(p.changes, c)
}

// drop removes any recorded assignment of the key, used when a re-visited
// step reverts to keeping the current value.
func (p *plan) drop(section, key string) {
	kept := p.changes[:0]
	for _, c := range p.changes {
		if c.Section != section || c.Key != key {
			kept = append(kept, c)
		}
	}
	p.changes = kept
}

// clone returns a deep copy used for back-navigation snapshots.
func (p *plan) clone() *plan {
	return &plan{
		changes:   append([]Change(nil), p.changes...),
		followups: append([]string(nil), p.followups...),
	}
}

type wizardStep int

const (
	stepDirectories wizardStep = iota
	stepConfig
	stepBackend
	stepModel
	stepDiarization
	stepStreaming
	stepService
	stepEnv
)

const stepCount = int(stepEnv) + 1

func (s wizardStep) title() string {
	switch s {
	case stepDirectories:
		return messages.WizardStepDirectories
	case stepConfig:
		return messages.WizardStepConfig
	case stepBackend:
		return messages.WizardStepBackend
	case stepModel:
		return messages.WizardStepModel
	case stepDiarization:
		return messages.WizardStepDiarization
	case stepStreaming:
		return messages.WizardStepStreaming
	case stepService:
		return messages.WizardStepService
	case stepEnv:
		return messages.WizardStepEnv
	default:
		return ""
	}
}

// flow drives the steps in order. The directories and config steps never
// prompt, so stepBackend is the floor for back-navigation: Esc there asks
// whether to exit instead.
func (r *wizardRun) flow(ctx context.Context) error {
	step := stepDirectories
	for int(step) < stepCount {
		snapshot := r.plan.clone()
		err := r.dispatch(ctx, step)
		if err == nil {
			step++
			continue
		}
		if !errors.Is(err, errWizardBack) {
			return err
		}
		r.plan = snapshot
		if step <= stepBackend {
			exit, confirmErr := r.confirmExit()
			if confirmErr != nil {
				return confirmErr
			}
			if exit {
				return errWizardCancelled
			}
			continue
		}
		step--
	}
	return nil
}

func (r *wizardRun) dispatch(ctx context.Context, step wizardStep) error {
	fmt.Fprintf(r.out, "\n%s\n", stepStyle.Render(
		fmt.Sprintf(messages.WizardStepBannerFmt, int(step)+1, stepCount, step.title())))

	switch step {
	case stepDirectories:
		return r.stepDirectories()
	case stepConfig:
		return r.stepConfig(ctx)
	case stepBackend:
		return r.stepBackend(ctx)
	case stepModel:
		return r.stepModel(ctx)
	case stepDiarization:
		return r.stepDiarization(ctx)
	case stepStreaming:
		return r.stepStreaming(ctx)
	case stepService:
		return r.stepService(ctx)
	case stepEnv:
		return r.stepEnv()
	default:
		return nil
	}
}

// confirmExit asks whether an Esc on the first interactive step should end
// the run. Esc on the exit prompt itself means "stay".
func (r *wizardRun) confirmExit() (bool, error) {
	exit := true
	if err := r.ui.Confirm(messages.WizardExitPrompt, &exit); err != nil {
		if errors.Is(err, errWizardBack) {
			return false, nil
		}
		return false, err
	}
	return exit, nil
}

// finishErr maps the back/cancel sentinels to a clean exit message; any
// other error propagates to the caller.
func (r *wizardRun) finishErr(err error) error {
	if errors.Is(err, errWizardCancelled) || errors.Is(err, errWizardBack) {
		fmt.Fprintln(r.out, messages.WizardCancelled)
		return nil
	}
	return err
}

// warnStep reports a failed operation without stopping the flow.
func (r *wizardRun) warnStep(step string, err error) {
	fmt.Fprintf(r.out, messages.WizardStepFailedFmt, step, err)
}

func (r *wizardRun) followup(item string) {
	r.plan.followups = append(r.plan.followups, item)
}

// currentConfig reads config.toml leniently; a missing or broken file yields
// the defaults so the flow can continue.
func (r *wizardRun) currentConfig() config.Config {
	data, err := r.sys.ReadFile(r.paths.ConfigPath)
	if err != nil {
		return config.DefaultConfig()
	}
	cfg, err := config.ParseConfigLenient(data, r.paths.ConfigPath)
	if err != nil {
		return config.DefaultConfig()
	}
	return *cfg
}

// confirmAndApply previews the queued config.toml changes as a unified diff,
// asks for confirmation, and writes the patched file atomically. A patch or
// write failure downgrades to a warning with per-key manual follow-ups; by
// this point every other step has already run and reported.
func (r *wizardRun) confirmAndApply() error {
	if len(r.plan.changes) == 0 {
		return nil
	}
	current, next, err := r.patchedConfig()
	if err != nil {
		r.failApply(err)
		return nil
	}

	diff := strings.TrimSpace(udiff.Unified(
		"config.toml (current)",
		"config.toml (proposed)",
		current,
		next,
	))
	if diff == "" {
		fmt.Fprintln(r.out, messages.WizardPreviewNone)
		return nil
	}
	if err := r.ui.Note(messages.WizardPreviewTitle, diff); err != nil {
		return err
	}
	confirm := true
	if err := r.ui.Confirm(messages.WizardApplyPrompt, &confirm); err != nil {
		return err
	}
	if !confirm {
		fmt.Fprintln(r.out, messages.WizardNotApplied)
		return nil
	}
	if err := r.sys.WriteFileAtomic(r.paths.ConfigPath, []byte(next), 0o644); err != nil {
		r.failApply(fmt.Errorf(messages.SystemWriteFileFmt, r.paths.ConfigPath, err))
	}
	return nil
}

func (r *wizardRun) patchedConfig() (current, next string, err error) {
	data, err := r.sys.ReadFile(r.paths.ConfigPath)
	if err != nil {
		return "", "", fmt.Errorf(messages.ConfigReadFmt, r.paths.ConfigPath, err)
	}
	next, err = Patch(string(data), r.plan.changes)
	if err != nil {
		return "", "", err
	}
	return string(data), next, nil
}

// failApply records every queued change as a manual follow-up when the
// config file could not be updated.
func (r *wizardRun) failApply(err error) {
	r.warnStep(messages.WizardStepConfig, err)
	for _, c := range r.plan.changes {
		r.followup(fmt.Sprintf("set %s.%s = %s in %s",
			c.Section, c.Key, formatTomlValue(c.Value), r.paths.ConfigPath))
	}
}

func (r *wizardRun) summary() {
	fmt.Fprintln(r.out)
	_, _ = color.New(color.FgGreen).Fprintln(r.out, messages.WizardCompleted)
	if len(r.plan.followups) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, messages.WizardManualHeader)
		for _, item := range r.plan.followups {
			fmt.Fprintf(r.out, messages.WizardManualItemFmt, item)
		}
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, messages.WizardNextStepsHeader)
	fmt.Fprint(r.out, messages.WizardNextSteps)
}
