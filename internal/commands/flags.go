package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/sheetmark/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Workbook   string // default workbook id for commands that take one
	XLSX       string // local workbook file read instead of the service's cells
	Refresh    bool   // bypass the snapshot cache

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "sheetmark", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "sheetmark")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/sheetmark/sheetmark.log
// On Linux: $XDG_STATE_HOME/sheetmark/sheetmark.log (defaults to ~/.local/state/sheetmark/sheetmark.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "sheetmark", "sheetmark.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "sheetmark", "sheetmark.log")
	}

	return filepath.Join(home, ".local", "state", "sheetmark", "sheetmark.log")
}
