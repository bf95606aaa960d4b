package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/core/styles"
	"github.com/colonyops/sheetmark/internal/printer"
	"github.com/colonyops/sheetmark/internal/sheetmark"
)

type RmCmd struct {
	flags *Flags
	app   *sheetmark.App
	yes   bool
}

func NewRmCmd(flags *Flags, app *sheetmark.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete annotations",
		UsageText: "sheetmark rm ID [ID...] [--yes]",
		Description: `Deletes one or more annotations. Linked evidence files stay in the
document library.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "do not ask for confirmation",
				Destination: &cmd.yes,
			},
		},
		ShellComplete: AnnotationIDCompleter(cmd.flags, cmd.app),
		Action:        cmd.run,
	})
	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return errors.New("expected at least one annotation ID")
	}

	ctx, store, err := openStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		return err
	}

	targets := make([]annotation.RangeEvidence, 0, len(ids))
	for _, id := range ids {
		ev, ok := store.Lookup(id)
		if !ok {
			return fmt.Errorf("%s: %w", id, annotation.ErrNotFound)
		}
		targets = append(targets, ev)
	}

	if !cmd.yes {
		ok, err := confirmDelete(targets)
		if err != nil {
			return err
		}
		if !ok {
			printer.Ctx(ctx).Infof("Nothing deleted")
			return nil
		}
	}

	p := printer.Ctx(ctx)
	var failed int
	for _, ev := range targets {
		if err := store.Remove(logging.WithAnnotationID(ctx, ev.ID), ev.ID); err != nil {
			p.Errorf("%v", err)
			failed++
			continue
		}
		p.Successf("Deleted %s %s", ev.Type, ev.Address())
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d deletions failed", failed, len(targets)), 1)
	}
	return nil
}

func confirmDelete(targets []annotation.RangeEvidence) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("refusing to delete without confirmation; pass --yes")
	}

	lines := make([]string, 0, len(targets))
	for _, ev := range targets {
		lines = append(lines, fmt.Sprintf("%s %s (%s)", ev.Type, ev.Address(), ev.ID))
	}

	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %d annotation(s)?", len(targets))).
			Description(strings.Join(lines, "\n")).
			Affirmative("Delete").
			Negative("Keep").
			Value(&ok),
	)).WithTheme(styles.FormTheme()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
