// Command sheet-inspect prints what sheetmark parses out of a local .xlsx
// file: each sheet with its raw and padded dimensions.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/sheetmark/internal/core/sheet"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/internal/source"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: sheet-inspect FILE.xlsx")
		os.Exit(1)
	}
	path := os.Args[1]

	snap, err := source.NewXLSX(path, sheetmark.LocalWorkbookID(path)).Snapshot(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading workbook: %v\n", err)
		os.Exit(1)
	}

	grid := snap.Grid(sheet.DefaultPadding())

	fmt.Printf("Workbook: %s\n", snap.WorkbookID)
	fmt.Printf("Sheets: %d\n\n", len(grid.SheetNames()))

	for _, name := range grid.SheetNames() {
		rawRows, rawCols := 0, 0
		for _, row := range snap.SheetData[name] {
			rawRows++
			rawCols = max(rawCols, len(row))
		}
		rows, cols := grid.Dims(name)

		fmt.Printf("=== %s ===\n", name)
		fmt.Printf("  Cells:  %d x %d\n", rawRows, rawCols)
		fmt.Printf("  Padded: %d x %d\n", rows, cols)
	}
}
