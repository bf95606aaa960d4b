package initcmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Shell represents a detected shell type.
type Shell string

const (
	ShellZsh  Shell = "zsh"
	ShellBash Shell = "bash"
	ShellFish Shell = "fish"
)

// ShellInfo contains detected shell information.
type ShellInfo struct {
	Name   Shell
	RCFile string
}

// DetectShell returns the user's shell and rc file path.
func DetectShell() (ShellInfo, error) {
	shellPath := os.Getenv("SHELL")
	if shellPath == "" {
		return ShellInfo{}, errors.New("SHELL environment variable not set")
	}

	shell := Shell(filepath.Base(shellPath))
	home, err := os.UserHomeDir()
	if err != nil {
		return ShellInfo{}, err
	}

	var rcFile string
	switch shell {
	case ShellZsh:
		rcFile = filepath.Join(home, ".zshrc")
	case ShellBash:
		rcFile = filepath.Join(home, ".bashrc")
		if _, err := os.Stat(rcFile); os.IsNotExist(err) {
			rcFile = filepath.Join(home, ".bash_profile")
		}
	case ShellFish:
		rcFile = filepath.Join(home, ".config", "fish", "config.fish")
	default:
		return ShellInfo{Name: shell}, fmt.Errorf("unsupported shell: %s", shell)
	}

	return ShellInfo{Name: shell, RCFile: rcFile}, nil
}

const completionMarker = "sheetmark completion"

// CompletionLine returns the rc file line that loads sheetmark completions.
func (s Shell) CompletionLine() string {
	switch s {
	case ShellFish:
		return "sheetmark completion fish | source"
	default:
		return fmt.Sprintf("source <(sheetmark completion %s)", s)
	}
}

// CompletionExists checks if completions are already loaded by the rc file.
func CompletionExists(rcFile string) (bool, error) {
	content, err := os.ReadFile(rcFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return strings.Contains(string(content), completionMarker), nil
}

// SetupCompletion appends the completion line to the shell's rc file unless
// it is already there.
func SetupCompletion(shell ShellInfo) error {
	if shell.RCFile == "" {
		return fmt.Errorf("no rc file for shell %s", shell.Name)
	}

	exists, err := CompletionExists(shell.RCFile)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(shell.RCFile), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", shell.RCFile, err)
	}

	f, err := os.OpenFile(shell.RCFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", shell.RCFile, err)
	}

	content := fmt.Sprintf("\n# sheetmark completions (added by sheetmark init)\n%s\n", shell.Name.CompletionLine())
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write completion: %w", err)
	}

	return f.Close()
}
