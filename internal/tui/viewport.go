package tui

import (
	"strconv"

	"github.com/colonyops/sheetmark/internal/core/autoscroll"
	"github.com/colonyops/sheetmark/internal/core/cellref"
)

// The auto-scroll engine works in a virtual pixel space so its speed curve
// stays independent of terminal size. One terminal cell is pxPerCol wide and
// pxPerLine tall.
const (
	pxPerCol  = 8.0
	pxPerLine = 16.0

	chromeTop    = 2 // formula bar, column headers
	chromeBottom = 2 // sheet tabs, status line
	scrollbarW   = 1
	minGutter    = 4
)

// gridView is the scrollable body of the grid. It maps terminal cells to
// sheet cells and owns the scroll offset.
type gridView struct {
	width, height int
	colWidth      int
	rows, cols    int

	scrollX, scrollY float64 // px
}

var (
	_ autoscroll.Viewport    = (*gridView)(nil)
	_ autoscroll.CellLocator = (*gridView)(nil)
)

func newGridView(colWidth int) *gridView {
	if colWidth < 3 {
		colWidth = 3
	}
	return &gridView{colWidth: colWidth}
}

func (v *gridView) setSize(w, h int) {
	v.width, v.height = w, h
	v.clamp()
}

// setDims switches to a sheet of the given size and scrolls home.
func (v *gridView) setDims(rows, cols int) {
	v.rows, v.cols = rows, cols
	v.scrollX, v.scrollY = 0, 0
}

// gutter is the width of the row number column.
func (v *gridView) gutter() int {
	return max(minGutter, len(strconv.Itoa(v.rows))+1)
}

func (v *gridView) bodyHeight() int {
	return max(0, v.height-chromeTop-chromeBottom)
}

func (v *gridView) bodyWidth() int {
	return max(0, v.width-v.gutter()-scrollbarW)
}

// visibleRows is the number of sheet rows on screen.
func (v *gridView) visibleRows() int {
	return min(v.bodyHeight(), max(0, v.rows-v.firstRow()))
}

// visibleCols is the number of whole sheet columns on screen.
func (v *gridView) visibleCols() int {
	return min(v.bodyWidth()/v.colWidth, max(0, v.cols-v.firstCol()))
}

func (v *gridView) colPx() float64 {
	return float64(v.colWidth) * pxPerCol
}

func (v *gridView) firstRow() int {
	return int(v.scrollY / pxPerLine)
}

func (v *gridView) firstCol() int {
	return int(v.scrollX / v.colPx())
}

func (v *gridView) maxScroll() (x, y float64) {
	maxCol := max(0, v.cols-v.bodyWidth()/v.colWidth)
	maxRow := max(0, v.rows-v.bodyHeight())
	return float64(maxCol) * v.colPx(), float64(maxRow) * pxPerLine
}

func (v *gridView) clamp() {
	mx, my := v.maxScroll()
	v.scrollX = max(0, min(mx, v.scrollX))
	v.scrollY = max(0, min(my, v.scrollY))
}

// Bounds returns the body rectangle in pixels. It is absent until the first
// window size arrives or when the terminal is too small to show any cell.
func (v *gridView) Bounds() (autoscroll.Rect, bool) {
	if v.bodyHeight() == 0 || v.bodyWidth() < v.colWidth {
		return autoscroll.Rect{}, false
	}
	left := float64(v.gutter())
	right := left + float64(v.bodyWidth())
	return autoscroll.Rect{
		Left:   left * pxPerCol,
		Top:    chromeTop * pxPerLine,
		Right:  right * pxPerCol,
		Bottom: float64(chromeTop+v.bodyHeight()) * pxPerLine,
	}, true
}

// ScrollBy moves the viewport, clamped to the sheet.
func (v *gridView) ScrollBy(dx, dy float64) {
	v.scrollX += dx
	v.scrollY += dy
	v.clamp()
}

// Locate resolves a pixel position to a cell. Terminal pointers never leave
// the window, so positions over the chrome resolve to the nearest visible
// edge cell; that is what lets a drag keep extending while auto-scrolling.
func (v *gridView) Locate(x, y float64) (cellref.Cell, bool) {
	rows, cols := v.visibleRows(), v.visibleCols()
	if rows == 0 || cols == 0 {
		return cellref.Cell{}, false
	}

	tx := int(x / pxPerCol)
	ty := int(y / pxPerLine)
	tx = max(v.gutter(), min(v.gutter()+cols*v.colWidth-1, tx))
	ty = max(chromeTop, min(chromeTop+rows-1, ty))

	return v.cellAt(tx, ty)
}

// cellAt returns the cell drawn at terminal position (tx, ty).
func (v *gridView) cellAt(tx, ty int) (cellref.Cell, bool) {
	rows, cols := v.visibleRows(), v.visibleCols()
	bx := tx - v.gutter()
	by := ty - chromeTop
	if bx < 0 || by < 0 || by >= rows || bx >= cols*v.colWidth {
		return cellref.Cell{}, false
	}
	return cellref.Cell{Row: v.firstRow() + by, Col: v.firstCol() + bx/v.colWidth}, true
}

// origin returns the terminal position of a cell's top-left corner.
func (v *gridView) origin(c cellref.Cell) (tx, ty int, visible bool) {
	dr := c.Row - v.firstRow()
	dc := c.Col - v.firstCol()
	if dr < 0 || dc < 0 || dr >= v.visibleRows() || dc >= v.visibleCols() {
		return 0, 0, false
	}
	return v.gutter() + dc*v.colWidth, chromeTop + dr, true
}

// ensureVisible scrolls the minimum distance that brings c on screen.
func (v *gridView) ensureVisible(c cellref.Cell) {
	bodyRows := v.bodyHeight()
	bodyCols := v.bodyWidth() / v.colWidth
	if bodyRows == 0 || bodyCols == 0 {
		return
	}

	first := v.firstRow()
	switch {
	case c.Row < first:
		v.scrollY = float64(c.Row) * pxPerLine
	case c.Row >= first+bodyRows:
		v.scrollY = float64(c.Row-bodyRows+1) * pxPerLine
	}

	firstCol := v.firstCol()
	switch {
	case c.Col < firstCol:
		v.scrollX = float64(c.Col) * v.colPx()
	case c.Col >= firstCol+bodyCols:
		v.scrollX = float64(c.Col-bodyCols+1) * v.colPx()
	}
	v.clamp()
}

// toPixels maps a terminal cell to the pixel at its center.
func toPixels(tx, ty int) (x, y float64) {
	return float64(tx)*pxPerCol + pxPerCol/2, float64(ty)*pxPerLine + pxPerLine/2
}
