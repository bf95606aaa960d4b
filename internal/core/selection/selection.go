// Package selection tracks the rectangular cell ranges selected on the
// active sheet and the drag state that grows them.
package selection

import (
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/sheet"
)

// Selection is one dragged range. Start is the drag anchor and End the
// current pointer cell; they are not normalized.
type Selection struct {
	Sheet string
	Start cellref.Cell
	End   cellref.Cell
}

// Range returns the normalized rectangle covered by the selection.
func (s Selection) Range() cellref.Range {
	return cellref.Normalize(s.Start, s.End)
}

// Controller owns the selection state. Pointer handlers and the auto-scroll
// frame loop both write through it, so they always observe the same state.
type Controller struct {
	sheet    string
	ranges   []Selection
	dragging bool
	anchor   *cellref.Cell
}

func New(sheet string) *Controller {
	return &Controller{sheet: sheet}
}

// Sheet returns the sheet selections belong to.
func (c *Controller) Sheet() string { return c.sheet }

// SetSheet switches the active sheet. Selections never span sheets, so
// switching clears them and ends any drag.
func (c *Controller) SetSheet(name string) {
	if name == c.sheet {
		return
	}
	c.sheet = name
	c.Clear()
}

// Begin starts a new range at cell. Without additive the existing ranges are
// replaced; with it (ctrl-click) the new range is appended.
func (c *Controller) Begin(cell cellref.Cell, sheet string, additive bool) {
	if sheet != c.sheet {
		c.sheet = sheet
		additive = false
	}

	sel := Selection{Sheet: sheet, Start: cell, End: cell}
	if additive {
		c.ranges = append(c.ranges, sel)
	} else {
		c.ranges = []Selection{sel}
	}

	c.dragging = true
	anchor := cell
	c.anchor = &anchor
}

// Extend moves the end of the active range to cell while dragging. It reports
// whether anything changed, so repeated calls with the same cell are free.
func (c *Controller) Extend(cell cellref.Cell) bool {
	if !c.dragging || len(c.ranges) == 0 {
		return false
	}
	last := &c.ranges[len(c.ranges)-1]
	if last.End == cell {
		return false
	}
	last.End = cell
	return true
}

// End finishes the drag. Ranges persist until the next Begin.
func (c *Controller) End() {
	c.dragging = false
	c.anchor = nil
}

// Clear drops every range and ends any drag.
func (c *Controller) Clear() {
	c.ranges = nil
	c.End()
}

// Context handles a right-click at cell. Existing ranges are kept when one
// already covers the cell; otherwise a single-cell selection replaces them so
// context actions always have a target. It returns true if the selection
// changed.
func (c *Controller) Context(cell cellref.Cell, sheet string) bool {
	if sheet == c.sheet && c.Contains(cell) {
		return false
	}
	c.sheet = sheet
	c.ranges = []Selection{{Sheet: sheet, Start: cell, End: cell}}
	c.End()
	return true
}

// Move handles keyboard navigation. Without extend the selection collapses
// to the active cell moved by (dr, dc); with extend the active range's end
// moves instead. Positions are clamped to rows x cols.
func (c *Controller) Move(dr, dc int, extend bool, rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	clamp := func(p cellref.Cell) cellref.Cell {
		p.Row = max(0, min(rows-1, p.Row))
		p.Col = max(0, min(cols-1, p.Col))
		return p
	}

	active, ok := c.Active()
	if !ok {
		c.ranges = []Selection{{Sheet: c.sheet}}
		return
	}

	if extend {
		end := clamp(cellref.Cell{Row: active.End.Row + dr, Col: active.End.Col + dc})
		c.ranges[len(c.ranges)-1].End = end
		return
	}

	next := clamp(cellref.Cell{Row: active.Start.Row + dr, Col: active.Start.Col + dc})
	c.ranges = []Selection{{Sheet: c.sheet, Start: next, End: next}}
}

// Dragging reports whether a pointer drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Anchor returns the drag anchor, or nil when not dragging.
func (c *Controller) Anchor() *cellref.Cell {
	if c.anchor == nil {
		return nil
	}
	a := *c.anchor
	return &a
}

// Ranges returns a copy of all selections, oldest first.
func (c *Controller) Ranges() []Selection {
	out := make([]Selection, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Active returns the last selection, the target of single-range operations.
func (c *Controller) Active() (Selection, bool) {
	if len(c.ranges) == 0 {
		return Selection{}, false
	}
	return c.ranges[len(c.ranges)-1], true
}

// ActiveRange returns the normalized active range.
func (c *Controller) ActiveRange() (cellref.Range, bool) {
	sel, ok := c.Active()
	if !ok {
		return cellref.Range{}, false
	}
	return sel.Range(), true
}

// Contains reports whether any selection on the active sheet covers cell.
func (c *Controller) Contains(cell cellref.Cell) bool {
	for _, sel := range c.ranges {
		if sel.Sheet == c.sheet && sel.Range().Contains(cell) {
			return true
		}
	}
	return false
}

// ActiveRangeAddress formats the active range, e.g. "Sheet1!A1:C3", or ""
// when nothing is selected.
func (c *Controller) ActiveRangeAddress() string {
	sel, ok := c.Active()
	if !ok {
		return ""
	}
	return cellref.FormatAddress(sel.Sheet, sel.Range())
}

// ActiveCellValue returns the raw value at the active range's start cell, or
// "" when there is no selection or the cell is out of bounds.
func (c *Controller) ActiveCellValue(grid *sheet.Grid) string {
	sel, ok := c.Active()
	if !ok || grid == nil {
		return ""
	}
	v, _ := grid.Value(sel.Sheet, sel.Start)
	return v
}
