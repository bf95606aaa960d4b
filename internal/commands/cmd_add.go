package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/styles"
	"github.com/colonyops/sheetmark/internal/printer"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/iojson"
)

type AddCmd struct {
	flags *Flags
	app   *sheetmark.App

	color      string
	notes      string
	files      []string
	jsonOutput bool
	noInput    bool
}

func NewAddCmd(flags *Flags, app *sheetmark.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	common := []cli.Flag{
		&cli.StringFlag{
			Name:        "notes",
			Aliases:     []string{"n"},
			Usage:       "free-text notes (prompted for when omitted on a terminal)",
			Destination: &cmd.notes,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print the created annotation as JSON",
			Destination: &cmd.jsonOutput,
		},
		&cli.BoolFlag{
			Name:        "no-input",
			Usage:       "never prompt",
			Destination: &cmd.noInput,
		},
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "add",
		Usage: "Annotate a cell range",
		Commands: []*cli.Command{
			{
				Name:      "mapping",
				Usage:     "Create a colored mapping annotation",
				UsageText: "sheetmark add mapping ADDRESS [--color HEX] [--notes TEXT]",
				Description: `Creates a mapping over ADDRESS, for example "Controls!B2:D9".

The sheet prefix is required. The range is normalized, so "D9:B2" and
"B2:D9" create the same mapping.`,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:        "color",
						Usage:       "hex color (defaults to colors.mapping_default)",
						Destination: &cmd.color,
					},
				}, common...),
				Action: cmd.runMapping,
			},
			{
				Name:      "reference",
				Usage:     "Create a reference annotation, optionally uploading evidence files",
				UsageText: "sheetmark add reference ADDRESS [--file PATH|GLOB ...] [--notes TEXT]",
				Description: `Creates a reference over ADDRESS and links uploaded evidence files.

--file accepts paths and doublestar globs ("evidence/**/*.pdf") and may be
repeated. Uploads need api.folder_id and api.classification_id. When some
files fail, the reference is kept and the failures are reported.`,
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:        "file",
						Aliases:     []string{"f"},
						Usage:       "evidence file or glob to upload and link",
						TakesFile:   true,
						Destination: &cmd.files,
					},
				}, common...),
				Action: cmd.runReference,
			},
		},
	})
	return app
}

func (cmd *AddCmd) runMapping(ctx context.Context, c *cli.Command) error {
	addr, err := parseTarget(c)
	if err != nil {
		return err
	}
	if cmd.color != "" {
		if _, err := colorful.Hex(cmd.color); err != nil {
			return fmt.Errorf("invalid --color %q: expected a hex color like #FFEB3B", cmd.color)
		}
	}
	if err := cmd.promptNotes(); err != nil {
		return err
	}

	ctx, store, err := openWritableStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		return err
	}

	created, err := store.Create(ctx, annotation.CreateInput{
		Kind:  annotation.KindMapping,
		Sheet: addr.Sheet,
		Range: &addr.Range,
		Color: cmd.color,
		Notes: cmd.notes,
	})
	if err != nil {
		return err
	}

	warnOverlaps(ctx, store, created)
	return cmd.report(ctx, c, created, nil)
}

func (cmd *AddCmd) runReference(ctx context.Context, c *cli.Command) error {
	addr, err := parseTarget(c)
	if err != nil {
		return err
	}

	uploads, err := sheetmark.ExpandUploads(cmd.files)
	if err != nil {
		return err
	}
	if err := cmd.promptNotes(); err != nil {
		return err
	}

	ctx, store, err := openWritableStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		return err
	}

	res, err := store.CreateReference(ctx, annotation.CreateInput{
		Sheet: addr.Sheet,
		Range: &addr.Range,
		Notes: cmd.notes,
	}, uploads)
	if err != nil {
		return err
	}

	warnOverlaps(ctx, store, res.Evidence)
	return cmd.report(ctx, c, res.Evidence, res.Warning)
}

func (cmd *AddCmd) promptNotes() error {
	if cmd.notes != "" || cmd.noInput || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	err := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title("Notes").
			Description("Optional. ctrl+j for a new line, enter to submit.").
			Value(&cmd.notes),
	)).WithTheme(styles.FormTheme()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return cli.Exit("cancelled", 1)
	}
	cmd.notes = strings.TrimSpace(cmd.notes)
	return err
}

func (cmd *AddCmd) report(ctx context.Context, c *cli.Command, created annotation.RangeEvidence, warning error) error {
	if cmd.jsonOutput {
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, created); err != nil {
			return err
		}
	} else {
		printer.Ctx(ctx).Successf("Added %s %s (%s)", created.Type, created.Address(), created.ID)
	}

	if warning != nil {
		printer.Ctx(ctx).Warnf("%v", warning)
		return cli.Exit("", 2)
	}
	return nil
}

// parseTarget reads the ADDRESS argument, which must name a sheet.
func parseTarget(c *cli.Command) (cellref.Address, error) {
	if c.Args().Len() != 1 {
		return cellref.Address{}, fmt.Errorf("expected exactly one ADDRESS argument, got %d", c.Args().Len())
	}
	addr, err := cellref.ParseAddress(c.Args().First())
	if err != nil {
		return cellref.Address{}, err
	}
	if addr.Sheet == "" {
		return cellref.Address{}, fmt.Errorf("address %q needs a sheet, e.g. Sheet1!%s", c.Args().First(), c.Args().First())
	}
	return addr, nil
}

func warnOverlaps(ctx context.Context, store *annotation.Store, created annotation.RangeEvidence) {
	overlaps := store.Overlapping(created.Type, created.Sheet, created.Range())
	n := 0
	for _, o := range overlaps {
		if o.ID != created.ID {
			n++
		}
	}
	if n > 0 {
		printer.Ctx(ctx).Infof("Overlaps %d existing %s annotation(s); the newest one wins on hover", n, created.Type)
	}
}
