package initcmd

import (
	"context"
	"os"
	"strings"

	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/doctor"
)

// InitCheck validates the init wizard results.
type InitCheck struct {
	configPath string
	dataDir    string
	tokenEnv   string
}

// NewInitCheck creates a new init validation check.
func NewInitCheck(configPath, dataDir, tokenEnv string) *InitCheck {
	return &InitCheck{configPath: configPath, dataDir: dataDir, tokenEnv: tokenEnv}
}

func (c *InitCheck) Name() string {
	return "Init Validation"
}

func (c *InitCheck) Run(_ context.Context) doctor.Result {
	result := doctor.Result{Name: c.Name()}

	cfgItem, cfg := c.checkConfig()
	result.Items = append(result.Items, cfgItem)

	if cfg != nil && cfg.HasAPI() {
		result.Items = append(result.Items, c.checkToken())
	}
	result.Items = append(result.Items, c.checkCompletion())

	return result
}

func (c *InitCheck) checkConfig() (doctor.CheckItem, *config.Config) {
	if _, err := os.Stat(c.configPath); err != nil {
		return doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: c.configPath + " not found",
		}, nil
	}

	cfg, err := config.Load(c.configPath, c.dataDir)
	if err == nil {
		err = cfg.ValidateDeep(c.configPath)
	}
	if err != nil {
		return doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: err.Error(),
		}, nil
	}

	return doctor.CheckItem{
		Label:  "Config file",
		Status: doctor.StatusPass,
		Detail: c.configPath,
	}, cfg
}

func (c *InitCheck) checkToken() doctor.CheckItem {
	env := strings.TrimPrefix(c.tokenEnv, "$")
	if env == "" {
		return doctor.CheckItem{
			Label:  "API token",
			Status: doctor.StatusWarn,
			Detail: "no token variable configured",
		}
	}
	if os.Getenv(env) == "" {
		return doctor.CheckItem{
			Label:  "API token",
			Status: doctor.StatusWarn,
			Detail: "$" + env + " is not set in this shell",
		}
	}
	return doctor.CheckItem{
		Label:  "API token",
		Status: doctor.StatusPass,
		Detail: "$" + env,
	}
}

func (c *InitCheck) checkCompletion() doctor.CheckItem {
	shell, err := DetectShell()
	if err != nil {
		return doctor.CheckItem{
			Label:  "Shell completion",
			Status: doctor.StatusWarn,
			Detail: err.Error(),
		}
	}

	ok, err := CompletionExists(shell.RCFile)
	if err != nil || !ok {
		return doctor.CheckItem{
			Label:  "Shell completion",
			Status: doctor.StatusWarn,
			Detail: "not loaded by " + shell.RCFile,
		}
	}
	return doctor.CheckItem{
		Label:  "Shell completion",
		Status: doctor.StatusPass,
		Detail: shell.RCFile,
	}
}
