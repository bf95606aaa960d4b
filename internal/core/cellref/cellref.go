// Package cellref converts between zero-indexed grid coordinates and
// spreadsheet-style addresses ("AB12", "Sheet1!A1:B5") and provides the
// rectangle math used by selections and annotations.
package cellref

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidCoordinate is returned for grid positions outside the worksheet.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ParseError describes a malformed address string.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse address %q: %s", e.Input, e.Reason)
}

// Cell is a zero-indexed, sheet-relative grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Validate reports ErrInvalidCoordinate if either axis is negative.
func (c Cell) Validate() error {
	if c.Row < 0 || c.Col < 0 {
		return fmt.Errorf("%w: row=%d col=%d", ErrInvalidCoordinate, c.Row, c.Col)
	}
	return nil
}

// String returns the canonical address, e.g. "B3". Invalid cells render as "?".
func (c Cell) String() string {
	name, err := ColumnName(c.Col)
	if err != nil || c.Row < 0 {
		return "?"
	}
	return name + strconv.Itoa(c.Row+1)
}

// ColumnName encodes a zero-indexed column as bijective base-26 letters:
// 0 -> "A", 25 -> "Z", 26 -> "AA", 701 -> "ZZ". Columns past the
// worksheet limit (XFD) are rejected.
func ColumnName(col int) (string, error) {
	if col < 0 || col >= excelize.MaxColumns {
		return "", fmt.Errorf("%w: column %d", ErrInvalidCoordinate, col)
	}

	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return "", fmt.Errorf("%w: column %d: %v", ErrInvalidCoordinate, col, err)
	}
	return name, nil
}

// ColumnIndex is the inverse of ColumnName. Letters are case-insensitive.
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, &ParseError{Input: letters, Reason: "empty column"}
	}

	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0, &ParseError{Input: letters, Reason: err.Error()}
	}
	return n - 1, nil
}

// ParseCell parses a single-cell reference such as "AB12" (no sheet prefix,
// "$" absolute markers are ignored).
func ParseCell(s string) (Cell, error) {
	ref := strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if ref == "" {
		return Cell{}, &ParseError{Input: s, Reason: "empty cell reference"}
	}

	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return Cell{}, &ParseError{Input: s, Reason: err.Error()}
	}
	return Cell{Row: row - 1, Col: col - 1}, nil
}

// Address is a parsed "Sheet!A1:B5" reference.
type Address struct {
	Sheet string
	Range Range
}

// ParseAddress parses "A1", "A1:B5", "Sheet1!A1" or "'My Sheet'!A1:B5".
func ParseAddress(s string) (Address, error) {
	var addr Address

	ref := strings.TrimSpace(s)
	if i := strings.LastIndexByte(ref, '!'); i >= 0 {
		sheet := ref[:i]
		if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
			sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
		}
		if sheet == "" {
			return Address{}, &ParseError{Input: s, Reason: "empty sheet name"}
		}
		addr.Sheet = sheet
		ref = ref[i+1:]
	}

	start, end, found := strings.Cut(ref, ":")
	a, err := ParseCell(start)
	if err != nil {
		return Address{}, &ParseError{Input: s, Reason: err.(*ParseError).Reason}
	}
	b := a
	if found {
		b, err = ParseCell(end)
		if err != nil {
			return Address{}, &ParseError{Input: s, Reason: err.(*ParseError).Reason}
		}
	}

	addr.Range = Normalize(a, b)
	return addr, nil
}

// FormatAddress renders "Sheet!A1" for single cells and "Sheet!A1:B5" for
// larger ranges. The sheet prefix is omitted when sheet is empty.
func FormatAddress(sheet string, r Range) string {
	var sb strings.Builder
	if sheet != "" {
		sb.WriteString(quoteSheet(sheet))
		sb.WriteByte('!')
	}
	sb.WriteString(r.Start().String())
	if !r.IsSingle() {
		sb.WriteByte(':')
		sb.WriteString(r.End().String())
	}
	return sb.String()
}

func quoteSheet(sheet string) string {
	if !strings.ContainsAny(sheet, " !'") {
		return sheet
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
