package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/colonyops/sheetmark/internal/commands/init"
)

type InitCmd struct {
	flags        *Flags
	yes          bool
	force        bool
	noCompletion bool
	answers      initcmd.ConfigOptions
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize sheetmark configuration with an interactive wizard",
		UsageText: "sheetmark init [options]",
		Description: `Sets up sheetmark for first-time use with an interactive wizard.

The wizard will:
  - Generate ~/.config/sheetmark/config.yaml for your evidence service
  - Optionally load shell completions from your shell rc file

The api token is never written to the file; the config references an
environment variable instead.

Use --yes to accept flags and defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "no-completion",
				Usage:       "skip shell completion setup",
				Destination: &cmd.noCompletion,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "evidence service url",
				Destination: &cmd.answers.BaseURL,
			},
			&cli.StringFlag{
				Name:        "token-env",
				Usage:       "environment variable holding the api token",
				Value:       initcmd.DefaultTokenEnv,
				Destination: &cmd.answers.TokenEnv,
			},
			&cli.StringFlag{
				Name:        "folder-id",
				Usage:       "document library folder for uploads",
				Destination: &cmd.answers.FolderID,
			},
			&cli.StringFlag{
				Name:        "classification-id",
				Usage:       "evidence classification for uploads",
				Destination: &cmd.answers.ClassificationID,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme",
				Destination: &cmd.answers.Theme,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath:   cmd.flags.ConfigPath,
		DataDir:      cmd.flags.DataDir,
		Yes:          cmd.yes,
		Force:        cmd.force,
		NoCompletion: cmd.noCompletion,
		Config:       cmd.answers,
	})
	return wizard.Run(ctx)
}
