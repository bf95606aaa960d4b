package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	names := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		names = append(names, e.Field)
	}
	return names
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.API = APIConfig{
		BaseURL:          "https://evidence.example.com",
		Token:            "tok",
		Timeout:          time.Second,
		FolderID:         "f1",
		ClassificationID: "c1",
	}
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.ValidateDeep(""))
	assert.Empty(t, cfg.Warnings())
}

func TestValidateDeep_NoAPIIsValid(t *testing.T) {
	cfg := validConfig(t)
	cfg.API = APIConfig{Timeout: time.Second}
	require.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_BadBaseURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "https://", "://bad"} {
		t.Run(raw, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.API.BaseURL = raw
			assert.Contains(t, fieldNames(t, cfg.ValidateDeep("")), "api.base_url")
		})
	}
}

func TestValidateDeep_FolderNeedsClassification(t *testing.T) {
	cfg := validConfig(t)
	cfg.API.ClassificationID = ""

	assert.Equal(t, []string{"api.classification_id"}, fieldNames(t, cfg.ValidateDeep("")))
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	assert.Contains(t, fieldNames(t, cfg.ValidateDeep("")), "data_dir")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	assert.Contains(t, fieldNames(t, cfg.ValidateDeep(t.TempDir())), "config_file")
}

func TestValidateDeep_StructuralErrorFirst(t *testing.T) {
	cfg := validConfig(t)
	cfg.Grid.MinRows = 0

	err := cfg.ValidateDeep("")
	require.ErrorContains(t, err, "grid.min_rows")
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	cfg.API.Token = ""
	cfg.API.ClassificationID = ""
	cfg.Cache.TTL = 0
	cfg.AutoScroll.FrameInterval = time.Millisecond

	var items []string
	for _, w := range cfg.Warnings() {
		items = append(items, w.Item)
	}
	assert.Equal(t, []string{"token", "classification_id", "ttl", "frame_interval"}, items)

	cfg.API.BaseURL = ""
	cfg.Cache.Disabled = true
	cfg.AutoScroll.FrameInterval = 16 * time.Millisecond
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "base_url", warnings[0].Item)
}
