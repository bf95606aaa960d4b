package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/sheet"
)

func cell(row, col int) cellref.Cell {
	return cellref.Cell{Row: row, Col: col}
}

func TestController_DragProducesAddress(t *testing.T) {
	c := New("Sheet1")

	c.Begin(cell(0, 0), "Sheet1", false)
	c.Extend(cell(1, 1))
	c.Extend(cell(2, 2))
	c.End()

	assert.Equal(t, "Sheet1!A1:C3", c.ActiveRangeAddress())
	assert.False(t, c.Dragging())
	assert.Nil(t, c.Anchor())
}

func TestController_ReverseDragNormalizes(t *testing.T) {
	c := New("Sheet1")

	c.Begin(cell(4, 3), "Sheet1", false)
	c.Extend(cell(1, 0))

	sel, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, cell(4, 3), sel.Start, "start is not pre-normalized")
	assert.Equal(t, "Sheet1!A2:D5", c.ActiveRangeAddress())
}

func TestController_ExtendIdempotent(t *testing.T) {
	once := New("S")
	once.Begin(cell(0, 0), "S", false)
	assert.True(t, once.Extend(cell(3, 3)))

	twice := New("S")
	twice.Begin(cell(0, 0), "S", false)
	assert.True(t, twice.Extend(cell(3, 3)))
	assert.False(t, twice.Extend(cell(3, 3)), "second identical extend is a no-op")

	a, _ := once.Active()
	b, _ := twice.Active()
	assert.Equal(t, a.End, b.End)
}

func TestController_ExtendWithoutDrag(t *testing.T) {
	c := New("S")
	assert.False(t, c.Extend(cell(1, 1)))

	c.Begin(cell(0, 0), "S", false)
	c.End()
	assert.False(t, c.Extend(cell(5, 5)))
	assert.Equal(t, "S!A1", c.ActiveRangeAddress())
}

func TestController_AdditiveBegin(t *testing.T) {
	c := New("S")

	c.Begin(cell(0, 0), "S", false)
	c.Extend(cell(1, 1))
	c.End()

	c.Begin(cell(5, 5), "S", true)
	c.Extend(cell(6, 6))
	c.End()

	require.Len(t, c.Ranges(), 2)
	assert.Equal(t, "S!F6:G7", c.ActiveRangeAddress())
	assert.True(t, c.Contains(cell(1, 0)))
	assert.True(t, c.Contains(cell(6, 5)))
	assert.False(t, c.Contains(cell(3, 3)))

	c.Begin(cell(9, 9), "S", false)
	assert.Len(t, c.Ranges(), 1, "non-additive begin replaces")
	assert.Equal(t, cell(9, 9), *c.Anchor())
}

func TestController_BeginOnOtherSheetResets(t *testing.T) {
	c := New("A")
	c.Begin(cell(0, 0), "A", false)
	c.End()

	c.Begin(cell(1, 1), "B", true)
	assert.Len(t, c.Ranges(), 1)
	assert.Equal(t, "B", c.Sheet())
}

func TestController_Context(t *testing.T) {
	t.Run("creates single cell when empty", func(t *testing.T) {
		c := New("S")
		assert.True(t, c.Context(cell(2, 3), "S"))
		assert.Equal(t, "S!D3", c.ActiveRangeAddress())
	})

	t.Run("keeps covering selection", func(t *testing.T) {
		c := New("S")
		c.Begin(cell(0, 0), "S", false)
		c.Extend(cell(4, 4))
		c.End()

		assert.False(t, c.Context(cell(2, 2), "S"))
		assert.Equal(t, "S!A1:E5", c.ActiveRangeAddress())
	})

	t.Run("replaces when outside", func(t *testing.T) {
		c := New("S")
		c.Begin(cell(0, 0), "S", false)
		c.End()

		assert.True(t, c.Context(cell(7, 7), "S"))
		assert.Equal(t, "S!H8", c.ActiveRangeAddress())
		assert.Len(t, c.Ranges(), 1)
	})
}

func TestController_ActiveCellValue(t *testing.T) {
	grid := sheet.New([]string{"S"}, map[string][][]string{
		"S": {{"a", "b"}, {"c", "d"}},
	}, sheet.Padding{MinRows: 2, MinCols: 2})

	c := New("S")
	assert.Empty(t, c.ActiveCellValue(grid))

	c.Begin(cell(1, 1), "S", false)
	c.Extend(cell(0, 0))
	assert.Equal(t, "d", c.ActiveCellValue(grid), "value comes from the start cell")

	c.Begin(cell(10, 10), "S", false)
	assert.Empty(t, c.ActiveCellValue(grid))
	assert.Empty(t, c.ActiveCellValue(nil))
}

func TestController_Move(t *testing.T) {
	c := New("S")

	c.Move(1, 0, false, 10, 10)
	assert.Equal(t, "S!A1", c.ActiveRangeAddress(), "first move selects origin")

	c.Move(1, 1, false, 10, 10)
	assert.Equal(t, "S!B2", c.ActiveRangeAddress())

	c.Move(2, 0, true, 10, 10)
	assert.Equal(t, "S!B2:B4", c.ActiveRangeAddress())

	c.Move(-50, -50, false, 10, 10)
	assert.Equal(t, "S!A1", c.ActiveRangeAddress(), "clamped to grid")

	c.Move(50, 50, true, 10, 10)
	assert.Equal(t, "S!A1:J10", c.ActiveRangeAddress())
}

func TestController_SetSheetClears(t *testing.T) {
	c := New("A")
	c.Begin(cell(0, 0), "A", false)

	c.SetSheet("A")
	assert.True(t, c.Dragging(), "same sheet is a no-op")

	c.SetSheet("B")
	assert.Empty(t, c.Ranges())
	assert.False(t, c.Dragging())
	assert.Empty(t, c.ActiveRangeAddress())
}
