package initcmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/doctor"
)

func TestGenerateConfig_RoundTrips(t *testing.T) {
	content, err := GenerateConfig(ConfigOptions{
		BaseURL:          "https://evidence.example.com/api/ ",
		TokenEnv:         "$EVIDENCE_TOKEN",
		FolderID:         "folder-1",
		ClassificationID: "class-9",
		Theme:            "tokyo-night",
	})
	require.NoError(t, err)
	assert.Contains(t, string(content), "generated by sheetmark init")
	assert.Contains(t, string(content), "token: $EVIDENCE_TOKEN")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteConfig(content, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	t.Setenv("EVIDENCE_TOKEN", "secret")
	cfg, err := config.Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "https://evidence.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "folder-1", cfg.API.FolderID)
	assert.Equal(t, "class-9", cfg.API.ClassificationID)
}

func TestGenerateConfig_OfflineKeepsDefaults(t *testing.T) {
	content, err := GenerateConfig(ConfigOptions{TokenEnv: DefaultTokenEnv})
	require.NoError(t, err)
	assert.NotContains(t, string(content), "api:")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteConfig(content, path))

	cfg, err := config.Load(path, t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.HasAPI())
	assert.Equal(t, config.DefaultConfig().Colors, cfg.Colors)
}

func TestBackupConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	backup, err := BackupConfig(path)
	require.NoError(t, err)
	assert.Empty(t, backup, "nothing to back up")

	require.NoError(t, os.WriteFile(path, []byte("api: {}\n"), 0o600))
	backup, err = BackupConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "api: {}\n", string(data))
}

func TestDetectShell(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv("SHELL", "/bin/zsh")
	shell, err := DetectShell()
	require.NoError(t, err)
	assert.Equal(t, ShellZsh, shell.Name)
	assert.Equal(t, filepath.Join(home, ".zshrc"), shell.RCFile)

	t.Setenv("SHELL", "/usr/bin/nu")
	_, err = DetectShell()
	require.Error(t, err)

	t.Setenv("SHELL", "")
	_, err = DetectShell()
	require.Error(t, err)
}

func TestSetupCompletion_Idempotent(t *testing.T) {
	rc := filepath.Join(t.TempDir(), ".bashrc")
	shell := ShellInfo{Name: ShellBash, RCFile: rc}

	require.NoError(t, SetupCompletion(shell))
	require.NoError(t, SetupCompletion(shell))

	data, err := os.ReadFile(rc)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "source <(sheetmark completion bash)"))

	ok, err := CompletionExists(rc)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompletionLine(t *testing.T) {
	assert.Equal(t, "source <(sheetmark completion zsh)", ShellZsh.CompletionLine())
	assert.Equal(t, "sheetmark completion fish | source", ShellFish.CompletionLine())
}

func TestInitCheck(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/zsh")
	t.Setenv("SHEETMARK_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.yaml")

	result := NewInitCheck(path, t.TempDir(), DefaultTokenEnv).Run(context.Background())
	require.NotEmpty(t, result.Items)
	assert.Equal(t, doctor.StatusFail, result.Items[0].Status, "missing config fails")

	content, err := GenerateConfig(ConfigOptions{BaseURL: "https://evidence.example.com", TokenEnv: DefaultTokenEnv})
	require.NoError(t, err)
	require.NoError(t, WriteConfig(content, path))

	result = NewInitCheck(path, t.TempDir(), DefaultTokenEnv).Run(context.Background())
	require.Len(t, result.Items, 3)
	assert.Equal(t, doctor.StatusPass, result.Items[0].Status)
	assert.Equal(t, "API token", result.Items[1].Label)
	assert.Equal(t, doctor.StatusWarn, result.Items[1].Status)
	assert.Equal(t, doctor.StatusWarn, result.Items[2].Status, "completion not set up yet")
}

func TestValidateURL(t *testing.T) {
	require.NoError(t, validateURL(""))
	require.NoError(t, validateURL("http://localhost:8080"))
	require.Error(t, validateURL("ftp://host"))
	require.Error(t, validateURL("https://"))
}
