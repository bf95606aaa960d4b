package annotation

import "github.com/colonyops/sheetmark/internal/core/cellref"

// StyleKind identifies which overlay wins for a cell.
type StyleKind int

const (
	StyleNone StyleKind = iota
	StyleSelection
	StyleMapping
	StyleReference
)

func (k StyleKind) String() string {
	switch k {
	case StyleSelection:
		return "selection"
	case StyleMapping:
		return "mapping"
	case StyleReference:
		return "reference"
	default:
		return "none"
	}
}

// Style is the resolved overlay for one cell. Color is only set for
// mappings.
type Style struct {
	Kind  StyleKind
	Color string
}

// ResolveCellStyle picks the overlay for a cell with fixed priority:
// selection, then mapping, then reference, then none.
func (s *Store) ResolveCellStyle(sheet string, cell cellref.Cell, selected bool) Style {
	if selected {
		return Style{Kind: StyleSelection}
	}
	if m := s.FindCovering(KindMapping, sheet, cell); m != nil {
		return Style{Kind: StyleMapping, Color: m.ColorOr(s.opts.MappingColor)}
	}
	if s.FindCovering(KindReference, sheet, cell) != nil {
		return Style{Kind: StyleReference}
	}
	return Style{Kind: StyleNone}
}
