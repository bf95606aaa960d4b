package initcmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTokenEnv is the environment variable the generated config reads the
// api token from.
const DefaultTokenEnv = "SHEETMARK_TOKEN"

// ConfigOptions are the wizard answers written to the config file.
type ConfigOptions struct {
	BaseURL          string
	TokenEnv         string // token is written as $TokenEnv, never literally
	FolderID         string
	ClassificationID string
	Theme            string
}

type apiSection struct {
	BaseURL          string `yaml:"base_url,omitempty"`
	Token            string `yaml:"token,omitempty"`
	FolderID         string `yaml:"folder_id,omitempty"`
	ClassificationID string `yaml:"classification_id,omitempty"`
}

type colorsSection struct {
	Theme string `yaml:"theme,omitempty"`
}

type generatedConfig struct {
	API    *apiSection    `yaml:"api,omitempty"`
	Colors *colorsSection `yaml:"colors,omitempty"`
}

const configHeader = `# sheetmark configuration (generated by sheetmark init)
#
# Other sections: grid, autoscroll, hover, cache, colors, database.
# Run 'sheetmark config validate' after editing.
`

// GenerateConfig renders the config file for opts. Unset answers are left
// out so the built-in defaults apply.
func GenerateConfig(opts ConfigOptions) ([]byte, error) {
	var out generatedConfig

	if opts.BaseURL != "" {
		api := &apiSection{
			BaseURL:          strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
			FolderID:         strings.TrimSpace(opts.FolderID),
			ClassificationID: strings.TrimSpace(opts.ClassificationID),
		}
		if env := strings.TrimPrefix(strings.TrimSpace(opts.TokenEnv), "$"); env != "" {
			api.Token = "$" + env
		}
		out.API = api
	}
	if opts.Theme != "" {
		out.Colors = &colorsSection{Theme: opts.Theme}
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteConfig writes content to path, creating parent directories.
func WriteConfig(content []byte, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}
