package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// environment variables overriding the settings file
const (
	SXHKD_CONFIG_VAR = "sxhkd_config"
	DESCRIPTOR_VAR   = "descriptor"
	SETTINGS_VAR     = "KBHELPER_SETTINGS"
	SHELL_VAR        = "SXHKD_SHELL" // the shell sxhkd itself runs commands with
)

const (
	DEFAULT_TAB_WIDTH = 30
	DEFAULT_SHELL     = "/bin/sh -c"
	DEFAULT_FORMAT    = "table"
)

var outputFormats = []string{"table", "json", "yaml"}

// Settings is built once at startup from defaults, the settings file, the
// environment and the command line, in that order, and passed down from there.
type Settings struct {
	Config     string         `toml:"config"`
	Descriptor string         `toml:"descriptor"`
	LogPath    string         `toml:"log"`
	Verbose    bool           `toml:"verbose"`
	Output     OutputSettings `toml:"output"`
	Exec       ExecSettings   `toml:"exec"`
}

type OutputSettings struct {
	Format   string `toml:"format"`
	TabWidth int    `toml:"tab_width"`
}

type ExecSettings struct {
	Shell string `toml:"shell"` // shell prefix, the command is appended as last argument
}

func defaultSettings() *Settings {
	return &Settings{
		Config:     defaultConfigPath(),
		Descriptor: DEFAULT_DESCRIPTOR,
		Output: OutputSettings{
			Format:   DEFAULT_FORMAT,
			TabWidth: DEFAULT_TAB_WIDTH,
		},
		Exec: ExecSettings{Shell: DEFAULT_SHELL},
	}
}

// defaultConfigPath returns the sxhkdrc location sxhkd itself uses.
func defaultConfigPath() string {
	return filepath.Join(userConfigDir(), "sxhkd", "sxhkdrc")
}

func defaultSettingsPath() string {
	return filepath.Join(userConfigDir(), "kbhelper", "kbhelper.toml")
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// loadSettings decodes a TOML settings file on top of the defaults.
//
// Parameters:
//   - path: Path to the settings file.
//   - required: If false, a missing file yields the defaults.
//
// Returns:
//   - *Settings: Defaults overridden by the file's values.
//   - error: Non-nil if the file is required but missing, or cannot be decoded.
func loadSettings(path string, required bool) (*Settings, error) {
	s := defaultSettings()
	if _, err := toml.DecodeFile(path, s); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	s.Config = expandPath(s.Config)
	s.LogPath = expandPath(s.LogPath)
	return s, nil
}

// applyEnv overrides the sxhkdrc path, descriptor and shell from the environment.
func (s *Settings) applyEnv(getenv func(string) string) {
	if v := getenv(SXHKD_CONFIG_VAR); v != "" {
		s.Config = expandPath(v)
	}
	if v := getenv(DESCRIPTOR_VAR); v != "" {
		s.Descriptor = v
	}
	if v := getenv(SHELL_VAR); v != "" {
		s.Exec.Shell = v + " -c"
	}
}

func (s *Settings) validate() error {
	if s.Descriptor == "" {
		return errors.New("descriptor must not be empty")
	}
	if s.Output.TabWidth <= 0 {
		return fmt.Errorf("tab width must be positive, got %d", s.Output.TabWidth)
	}
	if !slices.Contains(outputFormats, s.Output.Format) {
		return fmt.Errorf("unknown output format %q (want one of %s)", s.Output.Format, strings.Join(outputFormats, ", "))
	}
	return nil
}

// expandPath expands a leading "~/" and any $VAR references in path.
func expandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	return os.ExpandEnv(path)
}
