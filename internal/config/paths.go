package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/itsameandrea/muesliup/internal/messages"
)

// HomeDir is a package-level variable to allow test stubbing across packages.
var HomeDir = homedir.Dir

// Paths holds the resolved muesli directories and files muesliup manages.
// muesli itself derives the same locations from the XDG base directories,
// so both tools always agree on where config and data live.
type Paths struct {
	ConfigDir  string // ~/.config/muesli
	ConfigPath string // ~/.config/muesli/config.toml
	DataDir    string // ~/.local/share/muesli

	NotesDir      string
	RecordingsDir string
	ModelsDir     string

	ServiceUnitPath string // ~/.config/systemd/user/muesli.service

	HyprDir           string // ~/.config/hypr
	HyprSnippetPath   string // ~/.config/hypr/muesli.conf
	HyprlandConfPath  string // ~/.config/hypr/hyprland.conf
	WaybarDir         string // ~/.config/waybar
	WaybarSnippetPath string // ~/.config/waybar/muesli.jsonc
}

// DefaultPaths resolves all managed paths for the current user, honoring
// XDG_CONFIG_HOME and XDG_DATA_HOME the same way muesli does.
func DefaultPaths() (Paths, error) {
	home, err := HomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf(messages.SystemResolveHomeFmt, err)
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	configDir := filepath.Join(configHome, "muesli")
	dataDir := filepath.Join(dataHome, "muesli")

	return Paths{
		ConfigDir:  configDir,
		ConfigPath: filepath.Join(configDir, "config.toml"),
		DataDir:    dataDir,

		NotesDir:      filepath.Join(dataDir, "notes"),
		RecordingsDir: filepath.Join(dataDir, "recordings"),
		ModelsDir:     filepath.Join(dataDir, "models"),

		ServiceUnitPath: filepath.Join(configHome, "systemd", "user", "muesli.service"),

		HyprDir:           filepath.Join(configHome, "hypr"),
		HyprSnippetPath:   filepath.Join(configHome, "hypr", "muesli.conf"),
		HyprlandConfPath:  filepath.Join(configHome, "hypr", "hyprland.conf"),
		WaybarDir:         filepath.Join(configHome, "waybar"),
		WaybarSnippetPath: filepath.Join(configHome, "waybar", "muesli.jsonc"),
	}, nil
}

// DataDirs returns the data directories the setup wizard must create,
// parents before children.
func (p Paths) DataDirs() []string {
	return []string{p.ConfigDir, p.DataDir, p.NotesDir, p.RecordingsDir, p.ModelsDir}
}

// InstallDir resolves where the muesli binary is installed. The
// MUESLIUP_INSTALL_DIR environment variable overrides the ~/.local/bin
// default.
func InstallDir() (string, error) {
	if dir := os.Getenv(EnvInstallDir); dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return "", fmt.Errorf(messages.SystemResolveHomeFmt, err)
		}
		return expanded, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf(messages.SystemResolveHomeFmt, err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}
