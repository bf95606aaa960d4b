package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/colonyops/sheetmark/internal/core/sheet"
)

// XLSX reads sheet data from a local workbook file. Cell values are the
// formatted text excelize renders; formulas are not evaluated.
type XLSX struct {
	path       string
	workbookID string
}

func NewXLSX(path, workbookID string) *XLSX {
	return &XLSX{path: path, workbookID: workbookID}
}

func (x *XLSX) Snapshot(ctx context.Context) (sheet.Snapshot, error) {
	if x.path == "" {
		return sheet.Snapshot{}, errors.New("xlsx: file path is empty")
	}

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return sheet.Snapshot{}, fmt.Errorf("xlsx: open %s: %w", x.path, err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return sheet.Snapshot{}, fmt.Errorf("xlsx: no sheets found in %s", x.path)
	}

	data := make(map[string][][]string, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return sheet.Snapshot{}, err
		}

		rows, err := f.GetRows(name)
		if err != nil {
			return sheet.Snapshot{}, fmt.Errorf("xlsx: read sheet %q: %w", name, err)
		}
		data[name] = rows
	}

	return sheet.Snapshot{
		WorkbookID: x.workbookID,
		SheetNames: names,
		SheetData:  data,
		FetchedAt:  time.Now(),
	}, nil
}
