package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/cellref"
)

func TestNew_PadsToMinimum(t *testing.T) {
	g := New([]string{"Sheet1"}, map[string][][]string{
		"Sheet1": {{"a", "b"}, {"c"}},
	}, Padding{MinRows: 4, MinCols: 3})

	rows, cols := g.Dims("Sheet1")
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)

	v, ok := g.Value("Sheet1", cellref.Cell{Row: 1, Col: 0})
	require.True(t, ok)
	assert.Equal(t, "c", v)

	v, ok = g.Value("Sheet1", cellref.Cell{Row: 1, Col: 2})
	require.True(t, ok)
	assert.Empty(t, v)
}

func TestNew_WideRowsExtendWidth(t *testing.T) {
	g := New([]string{"S"}, map[string][][]string{
		"S": {{"1", "2", "3", "4", "5"}},
	}, Padding{MinRows: 1, MinCols: 2})

	rows, cols := g.Dims("S")
	assert.Equal(t, 1, rows)
	assert.Equal(t, 5, cols)
}

func TestNew_SheetOrder(t *testing.T) {
	g := New([]string{"B", "A", "B"}, map[string][][]string{
		"A": {{"x"}},
		"Z": {{"z"}},
		"C": {{"c"}},
	}, DefaultPadding())

	assert.Equal(t, []string{"B", "A", "C", "Z"}, g.SheetNames())
	assert.True(t, g.Has("B"))
	assert.False(t, g.Has("missing"))

	rows, cols := g.Dims("B")
	assert.Equal(t, DefaultMinRows, rows)
	assert.Equal(t, DefaultMinCols, cols)
}

func TestValue_OutOfBounds(t *testing.T) {
	g := New([]string{"S"}, nil, Padding{MinRows: 2, MinCols: 2})

	_, ok := g.Value("S", cellref.Cell{Row: 2, Col: 0})
	assert.False(t, ok)
	_, ok = g.Value("S", cellref.Cell{Row: 0, Col: -1})
	assert.False(t, ok)
	_, ok = g.Value("nope", cellref.Cell{})
	assert.False(t, ok)
}

func TestValues_ClipsToBounds(t *testing.T) {
	g := New([]string{"S"}, map[string][][]string{
		"S": {{"a", "b"}, {"c", "d"}},
	}, Padding{MinRows: 2, MinCols: 2})

	got := g.Values("S", cellref.Range{MinRow: 0, MaxRow: 10, MinCol: 1, MaxCol: 10})
	assert.Equal(t, [][]string{{"b"}, {"d"}}, got)

	assert.Nil(t, g.Values("S", cellref.Range{MinRow: 5, MaxRow: 6}))
}

func TestSheetNames_ReturnsCopy(t *testing.T) {
	g := New([]string{"S"}, nil, DefaultPadding())
	names := g.SheetNames()
	names[0] = "mutated"
	assert.Equal(t, []string{"S"}, g.SheetNames())
}

func TestRaw_ReturnsDeepCopy(t *testing.T) {
	g := New([]string{"S"}, map[string][][]string{"S": {{"a", "b"}}}, Padding{MinRows: 1, MinCols: 2})

	raw := g.Raw()
	require.Equal(t, [][]string{{"a", "b"}}, raw["S"])

	raw["S"][0][0] = "mutated"
	raw["S"][0] = append(raw["S"][0], "extra")
	raw["S"] = nil

	v, ok := g.Value("S", cellref.Cell{Row: 0, Col: 0})
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, [][]string{{"a", "b"}}, g.Raw()["S"])
}
