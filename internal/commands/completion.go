package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/sheetmark/internal/sheetmark"
)

// AnnotationIDCompleter returns a ShellCompleteFunc that suggests annotation
// ids of the --workbook workbook as positional completions, with the range
// as the description.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func AnnotationIDCompleter(flags *Flags, app *sheetmark.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.Workbook == "" || !app.Workbooks.Online() {
			return
		}
		store, err := app.Workbooks.Annotations(ctx, flags.Workbook)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, ev := range filterAnnotations(store, "", "") {
			_, _ = fmt.Fprintf(w, "%s:%s %s\n", ev.ID, ev.Type, ev.Address())
		}
	}
}
