package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *sheetmark.App

	// flags
	jsonOutput bool
	kind       string
	sheet      string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *sheetmark.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the annotations of a workbook",
		UsageText: "sheetmark ls --workbook ID [--kind mapping|reference] [--sheet NAME] [--json]",
		Description: `Displays a table of mapping and reference annotations with their range,
color, notes and number of linked evidence files.

Use --json for machine readable output.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "kind",
				Usage:       "only list one kind (mapping, reference)",
				Destination: &cmd.kind,
			},
			&cli.StringFlag{
				Name:        "sheet",
				Usage:       "only list annotations on this sheet",
				Destination: &cmd.sheet,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	var kind annotation.Kind
	if cmd.kind != "" {
		k, err := annotation.ParseKind(cmd.kind)
		if err != nil {
			return err
		}
		kind = k
	}

	_, store, err := openStore(ctx, cmd.flags, cmd.app)
	if err != nil {
		return err
	}

	records := filterAnnotations(store, kind, cmd.sheet)
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, records)
	}

	if len(records) == 0 {
		fmt.Fprintf(os.Stderr, "No annotations found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tRANGE\tCOLOR\tFILES\tNOTES")
	for _, r := range records {
		color := "-"
		if r.Type == annotation.KindMapping {
			color = r.ColorOr(cmd.app.Config.Colors.MappingDefault)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Type, r.Address(), color, len(r.LinkedEvidenceFiles), oneLine(r.NotesText(), 48))
	}
	return w.Flush()
}

// filterAnnotations returns mappings then references, each sorted by sheet
// and position.
func filterAnnotations(store *annotation.Store, kind annotation.Kind, sheet string) []annotation.RangeEvidence {
	var records []annotation.RangeEvidence
	if kind == "" || kind == annotation.KindMapping {
		records = append(records, sortedByPosition(store.Mappings())...)
	}
	if kind == "" || kind == annotation.KindReference {
		records = append(records, sortedByPosition(store.References())...)
	}

	if sheet != "" {
		records = slices.DeleteFunc(records, func(r annotation.RangeEvidence) bool { return r.Sheet != sheet })
	}
	if records == nil {
		records = []annotation.RangeEvidence{}
	}
	return records
}

func sortedByPosition(records []annotation.RangeEvidence) []annotation.RangeEvidence {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b annotation.RangeEvidence) int {
		if c := strings.Compare(a.Sheet, b.Sheet); c != 0 {
			return c
		}
		if a.StartRow != b.StartRow {
			return a.StartRow - b.StartRow
		}
		return a.StartCol - b.StartCol
	})
	return out
}
