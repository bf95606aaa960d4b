package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/sheetmark/internal/core/styles"
)

type DocCmd struct {
	flags *Flags
	raw   bool
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Reference guides",
		Description: `Prints reference guides for sheetmark.

Use 'sheetmark doc addresses' for the cell address syntax.
Use 'sheetmark doc scripting' for JSON output and batch input formats.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "addresses",
				Usage:  "Show the cell address syntax",
				Action: cmd.show(addressGuide),
			},
			{
				Name:   "scripting",
				Usage:  "Show JSON output and batch input formats for scripts and LLMs",
				Action: cmd.show(scriptingGuide),
			},
		},
	})
	return app
}

func (cmd *DocCmd) show(guide string) cli.ActionFunc {
	return func(_ context.Context, c *cli.Command) error {
		return renderMarkdown(c.Root().Writer, guide, cmd.raw)
	}
}

// renderMarkdown renders md with the active theme when stdout is a terminal.
func renderMarkdown(w io.Writer, md string, raw bool) error {
	if raw || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprint(w, md)
		return err
	}

	width := 80
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		width = min(tw, 120)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

const addressGuide = `# Cell Addresses

Addresses use spreadsheet A1 notation.

| Form | Meaning |
|------|---------|
| ` + "`B2`" + ` | a single cell, column B row 2 |
| ` + "`B2:D9`" + ` | the rectangle from B2 to D9 |
| ` + "`D9:B2`" + ` | the same rectangle; ranges are normalized |
| ` + "`Controls!B2:D9`" + ` | a range on the sheet Controls |
| ` + "`'Q1 Evidence'!A1`" + ` | sheet names with spaces or punctuation are quoted |
| ` + "`'Bob''s'!A1`" + ` | a quote inside a sheet name is doubled |

Columns run A..Z, AA..AZ, BA.. and so on. Rows start at 1.

Commands that create annotations (` + "`add`" + `, ` + "`batch`" + `) need the sheet prefix.
` + "`cell`" + ` reads the first sheet when it is omitted.

Internally rows and columns are zero-based: ` + "`B2`" + ` is row 1, column 1.
`

const scriptingGuide = `# Scripting sheetmark

Every command that reads data supports ` + "`--json`" + `. Human oriented messages go to
stderr, data goes to stdout.

## Listing annotations

` + "```bash" + `
sheetmark ls --workbook wb-1 --json
sheetmark ls --workbook wb-1 --kind reference --sheet Controls --json
` + "```" + `

Each record has ` + "`id`, `type`, `sheet`, `startRow`, `startCol`, `endRow`, `endCol`" + `
(zero-based), ` + "`color`, `notes`" + ` and ` + "`linkedEvidenceFiles`" + `.

## Reading cells

` + "```bash" + `
sheetmark cell 'Controls!B2:D4' --workbook wb-1 --json
sheetmark cell B2 --xlsx ./controls.xlsx
` + "```" + `

## Creating many annotations

` + "```bash" + `
sheetmark batch --workbook wb-1 -f annotations.json
` + "```" + `

` + "```json" + `
{
  "annotations": [
    {"type": "mapping", "address": "Controls!B2:C3", "color": "#FF8A65", "notes": "access review"},
    {"type": "reference", "address": "Controls!D5", "files": ["evidence/**/*.pdf"]}
  ]
}
` + "```" + `

The input is validated before anything is created. Creation stops after three
failures and the rest are reported as ` + "`skipped`" + `. The output lists a status
per annotation and the path of a log file for the run.

## Exit codes

| Code | Meaning |
|------|---------|
| 0 | success |
| 1 | failure |
| 2 | created, but some evidence files failed to upload |
`
