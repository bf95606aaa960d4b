package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/sheetmark"
)

var errNoWorkbook = errors.New("no workbook selected; pass --workbook ID or set SHEETMARK_WORKBOOK")

// openStore loads the annotations of the workbook named by --workbook.
func openStore(ctx context.Context, flags *Flags, app *sheetmark.App) (context.Context, *annotation.Store, error) {
	if flags.Workbook == "" {
		return ctx, nil, errNoWorkbook
	}
	ctx = logging.WithWorkbookID(ctx, flags.Workbook)

	store, err := app.Workbooks.Annotations(ctx, flags.Workbook)
	if err != nil {
		return ctx, nil, fmt.Errorf("load annotations: %w", err)
	}
	return ctx, store, nil
}

// openWritableStore is openStore for commands that create annotations: the
// store only accepts sheets the workbook actually has.
func openWritableStore(ctx context.Context, flags *Flags, app *sheetmark.App) (context.Context, *annotation.Store, error) {
	ctx, store, err := openStore(ctx, flags, app)
	if err != nil {
		return ctx, nil, err
	}
	names, err := app.Workbooks.SheetNames(ctx, flags.openOptions())
	if err != nil {
		return ctx, nil, fmt.Errorf("load workbook sheets: %w", err)
	}
	store.RestrictSheets(names)
	return ctx, store, nil
}

// oneLine flattens notes for table output.
func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}

func (f *Flags) openOptions() sheetmark.OpenOptions {
	return sheetmark.OpenOptions{WorkbookID: f.Workbook, File: f.XLSX, Refresh: f.Refresh}
}

// openWorkbook loads cells and annotations for commands that read the grid.
func openWorkbook(ctx context.Context, app *sheetmark.App, open sheetmark.OpenOptions) (*sheetmark.Workbook, error) {
	if open.WorkbookID == "" && open.File == "" {
		return nil, errors.New("no workbook selected; pass --workbook ID or --xlsx FILE")
	}
	wb, err := app.Workbooks.Open(ctx, open)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return wb, nil
}
