package initcmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/sheetmark/internal/core/doctor"
	"github.com/colonyops/sheetmark/internal/core/styles"
	"github.com/colonyops/sheetmark/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath   string
	DataDir      string
	Yes          bool // skip prompts, use flags and defaults
	Force        bool // overwrite existing config
	NoCompletion bool // skip shell completion setup

	// Preset answers, used as prompt defaults.
	Config ConfigOptions
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Config file already exists").
				Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
				Value(&overwrite),
		)).WithTheme(styles.FormTheme()).Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := w.opts.Config
	if answers.TokenEnv == "" {
		answers.TokenEnv = DefaultTokenEnv
	}
	if answers.Theme == "" {
		answers.Theme = styles.DefaultTheme
	}
	installCompletion := !w.opts.NoCompletion

	if !w.opts.Yes {
		var err error
		answers, installCompletion, err = w.promptUser(answers, installCompletion)
		if errors.Is(err, huh.ErrUserAborted) {
			p.Infof("Init cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	content, err := GenerateConfig(answers)
	if err != nil {
		return err
	}

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		p.Successf("Backed up config to: %s", backupPath)
	}

	if err := WriteConfig(content, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	if installCompletion {
		shell, err := DetectShell()
		if err != nil {
			p.Warnf("Could not detect shell: %v", err)
		} else if err := SetupCompletion(shell); err != nil {
			p.Warnf("Failed to set up shell completion: %v", err)
		} else {
			p.Successf("Shell completion loaded from %s", shell.RCFile)
		}
	}

	p.Printf("")
	result := NewInitCheck(w.opts.ConfigPath, w.opts.DataDir, answers.TokenEnv).Run(ctx)

	p.Section(result.Name)
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusPass:
			p.Successf("%s %s", item.Label, styles.TextMutedStyle.Render(item.Detail))
		case doctor.StatusWarn:
			p.Warnf("%s %s", item.Label, styles.TextMutedStyle.Render(item.Detail))
		case doctor.StatusFail:
			p.Errorf("%s %s", item.Label, styles.TextMutedStyle.Render(item.Detail))
		}
	}

	w.printNextSteps(p, answers)

	return nil
}

func (w *Wizard) promptUser(answers ConfigOptions, completion bool) (ConfigOptions, bool, error) {
	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Evidence service URL").
				Description("Leave empty to only view local .xlsx files").
				Placeholder("https://evidence.example.com/api").
				Validate(validateURL).
				Value(&answers.BaseURL),
			huh.NewInput().
				Title("Token environment variable").
				Description("The token is read from this variable at startup").
				Value(&answers.TokenEnv),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Evidence folder id").
				Description("Where uploaded reference files are stored (optional)").
				Value(&answers.FolderID),
			huh.NewInput().
				Title("Evidence classification id").
				Description("Required to upload files to references").
				Value(&answers.ClassificationID),
		).WithHideFunc(func() bool { return answers.BaseURL == "" }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&answers.Theme),
			huh.NewConfirm().
				Title("Enable shell completion?").
				Description("Adds a completion line to your shell rc file").
				Value(&completion),
		),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		return answers, completion, err
	}
	return answers, completion, nil
}

func validateURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("expected an http(s) url")
	}
	return nil
}

func (w *Wizard) printNextSteps(p *printer.Printer, answers ConfigOptions) {
	p.Printf("")
	p.Section("Next Steps")

	step := 1
	if answers.BaseURL != "" {
		p.Printf("  %d. Export $%s with your evidence service token", step, answers.TokenEnv)
		step++
		p.Printf("  %d. Run 'sheetmark doctor' to check the connection", step)
		step++
		p.Printf("  %d. Run 'sheetmark --workbook ID' to open a workbook", step)
		return
	}

	p.Printf("  %d. Run 'sheetmark --xlsx FILE' to view a local workbook", step)
}
