package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/core/styles"
	"github.com/colonyops/sheetmark/internal/printer"
	"github.com/colonyops/sheetmark/internal/sheetmark"
)

type EditCmd struct {
	flags *Flags
	app   *sheetmark.App

	color string
	notes string
}

func NewEditCmd(flags *Flags, app *sheetmark.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Change the color or notes of an annotation",
		UsageText: "sheetmark edit ID [--color HEX] [--notes TEXT]",
		Description: `Updates an annotation in place. Ranges cannot be changed; remove the
annotation and add a new one instead.

Without flags on a terminal, a form opens prefilled with the current values.
Pass --notes "" to clear the notes.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "color",
				Usage:       "new hex color (mappings only)",
				Destination: &cmd.color,
			},
			&cli.StringFlag{
				Name:        "notes",
				Aliases:     []string{"n"},
				Usage:       "new notes",
				Destination: &cmd.notes,
			},
		},
		ShellComplete: AnnotationIDCompleter(cmd.flags, cmd.app),
		Action:        cmd.run,
	})
	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one annotation ID")
	}
	id := c.Args().First()

	ctx, store, err := openStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		return err
	}
	current, ok := store.Lookup(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, annotation.ErrNotFound)
	}

	var patch annotation.Patch
	switch {
	case c.IsSet("color") || c.IsSet("notes"):
		if c.IsSet("color") {
			patch.Color = &cmd.color
		}
		if c.IsSet("notes") {
			patch.Notes = &cmd.notes
		}
	case term.IsTerminal(int(os.Stdin.Fd())):
		patch, err = editForm(current)
		if err != nil {
			return err
		}
	default:
		return errors.New("nothing to change; pass --color or --notes")
	}

	if patch.Color != nil {
		if current.Type != annotation.KindMapping {
			return fmt.Errorf("%w: only mappings have a color", annotation.ErrValidation)
		}
		if _, err := colorful.Hex(*patch.Color); err != nil {
			return fmt.Errorf("invalid color %q: expected a hex color like #FFEB3B", *patch.Color)
		}
	}

	updated, err := store.Update(logging.WithAnnotationID(ctx, id), id, patch)
	if err != nil {
		return err
	}
	printer.Ctx(ctx).Successf("Updated %s %s", updated.Type, updated.Address())
	return nil
}

func editForm(current annotation.RangeEvidence) (annotation.Patch, error) {
	color := current.ColorOr("")
	notes := current.NotesText()

	var fields []huh.Field
	if current.Type == annotation.KindMapping {
		fields = append(fields, huh.NewInput().
			Title("Color").
			Placeholder(annotation.DefaultMappingColor).
			Value(&color))
	}
	fields = append(fields, huh.NewText().Title("Notes").Value(&notes))

	err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(styles.FormTheme()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return annotation.Patch{}, cli.Exit("cancelled", 1)
	}
	if err != nil {
		return annotation.Patch{}, err
	}

	var patch annotation.Patch
	if current.Type == annotation.KindMapping && color != "" && color != current.ColorOr("") {
		patch.Color = &color
	}
	if notes != current.NotesText() {
		patch.Notes = &notes
	}
	return patch, nil
}
