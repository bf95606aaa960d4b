package commands

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/iojson"
)

type ShowCmd struct {
	flags      *Flags
	app        *sheetmark.App
	jsonOutput bool
	raw        bool
}

func NewShowCmd(flags *Flags, app *sheetmark.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show an annotation and its linked evidence files",
		UsageText: "sheetmark show ID [--json | --raw]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
		},
		ShellComplete: AnnotationIDCompleter(cmd.flags, cmd.app),
		Action:        cmd.run,
	})
	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one annotation ID")
	}
	id := c.Args().First()

	ctx, store, err := openStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		return err
	}

	ev, err := store.Get(logging.WithAnnotationID(ctx, id), id)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, ev)
	}

	return renderMarkdown(out, annotation.Markdown(ev, cmd.app.Config.Colors.MappingDefault), cmd.raw)
}
