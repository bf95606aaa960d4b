// Package sheet holds the read-only snapshot of a workbook's cell values.
package sheet

import (
	"maps"
	"slices"

	"github.com/colonyops/sheetmark/internal/core/cellref"
)

// Default padding applied so short sheets still render a full grid.
const (
	DefaultMinRows = 50
	DefaultMinCols = 26
)

// Padding is the minimum grid size every sheet is padded to.
type Padding struct {
	MinRows int
	MinCols int
}

// DefaultPadding returns the padding used when none is configured.
func DefaultPadding() Padding {
	return Padding{MinRows: DefaultMinRows, MinCols: DefaultMinCols}
}

// Grid is an immutable snapshot of all sheets in a workbook. Every sheet is
// rectangular: each row has the same number of columns.
type Grid struct {
	names []string
	cells map[string][][]string
}

// New builds a Grid from raw sheet data. Sheets listed in names but missing
// from data become empty padded sheets; sheets in data but not in names are
// appended sorted by name.
func New(names []string, data map[string][][]string, pad Padding) *Grid {
	g := &Grid{
		names: make([]string, 0, len(names)),
		cells: make(map[string][][]string, len(names)),
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		g.names = append(g.names, name)
		g.cells[name] = padRows(data[name], pad)
	}

	for _, name := range slices.Sorted(maps.Keys(data)) {
		if seen[name] {
			continue
		}
		g.names = append(g.names, name)
		g.cells[name] = padRows(data[name], pad)
	}

	return g
}

// SheetNames returns the sheet names in workbook order.
func (g *Grid) SheetNames() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Has reports whether the workbook contains the named sheet.
func (g *Grid) Has(sheet string) bool {
	_, ok := g.cells[sheet]
	return ok
}

// Dims returns the padded row and column count of a sheet.
func (g *Grid) Dims(sheet string) (rows, cols int) {
	data := g.cells[sheet]
	if len(data) == 0 {
		return 0, 0
	}
	return len(data), len(data[0])
}

// Value returns the raw value at c. ok is false when c is out of bounds.
func (g *Grid) Value(sheet string, c cellref.Cell) (string, bool) {
	data := g.cells[sheet]
	if c.Row < 0 || c.Row >= len(data) {
		return "", false
	}
	row := data[c.Row]
	if c.Col < 0 || c.Col >= len(row) {
		return "", false
	}
	return row[c.Col], true
}

// Values returns a copy of the cells inside r, clipped to the sheet bounds.
func (g *Grid) Values(sheet string, r cellref.Range) [][]string {
	rows, cols := g.Dims(sheet)
	if rows == 0 || r.MinRow >= rows || r.MinCol >= cols {
		return nil
	}

	maxRow := min(r.MaxRow, rows-1)
	maxCol := min(r.MaxCol, cols-1)
	out := make([][]string, 0, maxRow-r.MinRow+1)
	for row := r.MinRow; row <= maxRow; row++ {
		line := make([]string, maxCol-r.MinCol+1)
		copy(line, g.cells[sheet][row][r.MinCol:maxCol+1])
		out = append(out, line)
	}
	return out
}

// Raw returns a deep copy of the padded data of every sheet, for
// serialization.
func (g *Grid) Raw() map[string][][]string {
	out := make(map[string][][]string, len(g.cells))
	for name, rows := range g.cells {
		cp := make([][]string, len(rows))
		for i, row := range rows {
			cp[i] = slices.Clone(row)
		}
		out[name] = cp
	}
	return out
}

func padRows(rows [][]string, pad Padding) [][]string {
	width := pad.MinCols
	for _, row := range rows {
		width = max(width, len(row))
	}
	height := max(pad.MinRows, len(rows))

	out := make([][]string, height)
	for i := range out {
		line := make([]string, width)
		if i < len(rows) {
			copy(line, rows[i])
		}
		out[i] = line
	}
	return out
}
