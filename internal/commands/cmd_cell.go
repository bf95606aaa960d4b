package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/iojson"
)

type CellCmd struct {
	flags      *Flags
	app        *sheetmark.App
	jsonOutput bool
}

func NewCellCmd(flags *Flags, app *sheetmark.App) *CellCmd {
	return &CellCmd{flags: flags, app: app}
}

func (cmd *CellCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "cell",
		Usage:     "Print cell values and the annotations covering them",
		UsageText: "sheetmark cell ADDRESS [--workbook ID | --xlsx FILE] [--json]",
		Description: `Prints the values of ADDRESS as tab separated rows. A bare range such as
"B2:C4" reads the first sheet.

For a single cell the covering mapping and reference are listed too.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

type cellOutput struct {
	Address     string                     `json:"address"`
	Values      [][]string                 `json:"values"`
	Annotations []annotation.RangeEvidence `json:"annotations"`
}

func (cmd *CellCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one ADDRESS argument, got %d", c.Args().Len())
	}
	addr, err := cellref.ParseAddress(c.Args().First())
	if err != nil {
		return err
	}

	wb, err := openWorkbook(ctx, cmd.app, cmd.flags.openOptions())
	if err != nil {
		return err
	}

	names := wb.Grid.SheetNames()
	if len(names) == 0 {
		return fmt.Errorf("workbook %s has no sheets", wb.ID)
	}
	if addr.Sheet == "" {
		addr.Sheet = names[0]
	}
	if !wb.Grid.Has(addr.Sheet) {
		return fmt.Errorf("no sheet named %q (have: %s)", addr.Sheet, strings.Join(names, ", "))
	}

	out := cellOutput{
		Address:     cellref.FormatAddress(addr.Sheet, addr.Range),
		Values:      wb.Grid.Values(addr.Sheet, addr.Range),
		Annotations: []annotation.RangeEvidence{},
	}
	if addr.Range.IsSingle() {
		for _, kind := range []annotation.Kind{annotation.KindMapping, annotation.KindReference} {
			if ev := wb.Store.FindCovering(kind, addr.Sheet, addr.Range.Start()); ev != nil {
				out.Annotations = append(out.Annotations, *ev)
			}
		}
	}

	w := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(w, os.Stderr, out)
	}

	for _, row := range out.Values {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	for _, ev := range out.Annotations {
		fmt.Fprintf(os.Stderr, "%s %s (%s) %s\n", ev.Type, ev.Address(), ev.ID, oneLine(ev.NotesText(), 60))
	}
	return nil
}
