// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".todo"
	DefaultDataDirName   = ".todo-db"
)

// appDirName names the application directory under platform locations.
const appDirName = "todo"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TODO_CONFIG_DIR"
	EnvDataDir   = "TODO_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/todo (fallback ~/.config/todo)
// macOS:   ~/Library/Application Support/todo
// Windows: %APPDATA%/todo
func DefaultConfigDir() (string, error) {
	return platformAppDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
// Outside Linux it is the same as DefaultConfigDir.
//
// Linux:   $XDG_DATA_HOME/todo (fallback ~/.local/share/todo)
// macOS:   ~/Library/Application Support/todo
// Windows: %APPDATA%/todo
func DefaultDataDir() (string, error) {
	return platformAppDir("XDG_DATA_HOME", ".local", "share")
}

// platformAppDir returns appDirName under the XDG base directory named by
// xdgVar on Linux, falling back to home/homeRel... when the variable is
// unset. Other platforms use the user config directory.
func platformAppDir(xdgVar string, homeRel ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, homeRel...)
	return filepath.Join(append(parts, appDirName)...), nil
}

// firstAbs returns the first non-empty candidate made absolute. ok is false
// when every candidate is empty.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c != "" {
			abs, err := filepath.Abs(c)
			return abs, true, err
		}
	}
	return "", false, nil
}

// ResolveConfigDir returns the configuration directory: the flag, then
// TODO_CONFIG_DIR, then DefaultConfigDir. Overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: the flag, then data_dir from
// config.yaml, then TODO_DATA_DIR. Without any override the data directory
// is $(CWD)/.todo-db, so each working directory gets its own lists.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, configYAMLValue, os.Getenv(EnvDataDir)); ok {
		return dir, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFileName is the configuration file looked up inside the config
// directory.
const ConfigFileName = "config.yaml"

// ConfigFile returns the path of the configuration file in configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
