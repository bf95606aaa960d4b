package cellref

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{16383, "XFD"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := ColumnName(tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnName_OutOfRange(t *testing.T) {
	for _, col := range []int{-1, 16384, 1 << 40, 1 << 62, math.MaxInt} {
		t.Run(strconv.Itoa(col), func(t *testing.T) {
			var (
				name string
				err  error
			)
			require.NotPanics(t, func() { name, err = ColumnName(col) })
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
			assert.Empty(t, name)
		})
	}
}

func TestCell_StringHugeColumn(t *testing.T) {
	var got string
	require.NotPanics(t, func() { got = Cell{Row: 3, Col: 1 << 40}.String() })
	assert.Equal(t, "?", got)

	got = FormatAddress("Sheet1", Normalize(Cell{}, Cell{Row: 1, Col: 1 << 62}))
	assert.Equal(t, "Sheet1!A1:?", got)
}

func TestColumnIndex_RoundTrip(t *testing.T) {
	for col := 0; col <= 1000; col++ {
		name, err := ColumnName(col)
		require.NoError(t, err)

		got, err := ColumnIndex(name)
		require.NoError(t, err)
		require.Equal(t, col, got, "round trip of %q", name)
	}
}

func TestColumnIndex_CaseInsensitive(t *testing.T) {
	got, err := ColumnIndex("ab")
	require.NoError(t, err)
	assert.Equal(t, 27, got)
}

func TestColumnIndex_Invalid(t *testing.T) {
	for _, in := range []string{"", "A1", "-", "Ä", "XFE", "AAAAAAAAAAAAAAAAAAAA"} {
		t.Run(in, func(t *testing.T) {
			_, err := ColumnIndex(in)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want Cell
	}{
		{"A1", Cell{Row: 0, Col: 0}},
		{"ab12", Cell{Row: 11, Col: 27}},
		{"$C$3", Cell{Row: 2, Col: 2}},
		{"ZZ100", Cell{Row: 99, Col: 701}},
		{"XFD1048576", Cell{Row: 1048575, Col: 16383}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCell(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCell_Malformed(t *testing.T) {
	for _, in := range []string{"", "12", "A", "A0", "A1B", "1A", "A-1", "XFE1", "A1048577"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseCell(in)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, in, perr.Input)
		})
	}
}

func TestCell_StringRoundTrip(t *testing.T) {
	for row := 0; row < 30; row += 7 {
		for col := 0; col < 800; col += 37 {
			c := Cell{Row: row, Col: col}
			got, err := ParseCell(c.String())
			require.NoError(t, err)
			assert.Equal(t, c, got)
		}
	}
}

func TestCell_Validate(t *testing.T) {
	assert.NoError(t, Cell{}.Validate())
	assert.ErrorIs(t, Cell{Row: -1}.Validate(), ErrInvalidCoordinate)
	assert.ErrorIs(t, Cell{Col: -3}.Validate(), ErrInvalidCoordinate)
	assert.Equal(t, "?", Cell{Row: -1}.String())
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		r     Range
		want  string
	}{
		{"single with sheet", "Sheet1", Single(Cell{}), "Sheet1!A1"},
		{"multi with sheet", "Sheet1", Normalize(Cell{0, 0}, Cell{2, 2}), "Sheet1!A1:C3"},
		{"no sheet", "", Normalize(Cell{4, 1}, Cell{0, 0}), "A1:B5"},
		{"quoted sheet", "Q1 Data", Single(Cell{Row: 9, Col: 26}), "'Q1 Data'!AA10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAddress(tt.sheet, tt.r))
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in    string
		sheet string
		r     Range
	}{
		{"A1", "", Single(Cell{})},
		{"Sheet1!A1:B5", "Sheet1", Range{MinRow: 0, MaxRow: 4, MinCol: 0, MaxCol: 1}},
		{"Sheet1!B5:A1", "Sheet1", Range{MinRow: 0, MaxRow: 4, MinCol: 0, MaxCol: 1}},
		{"'Q1 Data'!C3", "Q1 Data", Single(Cell{Row: 2, Col: 2})},
		{"'Bob''s'!A1", "Bob's", Single(Cell{})},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddress(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.sheet, got.Sheet)
			assert.Equal(t, tt.r, got.Range)

			again, err := ParseAddress(FormatAddress(got.Sheet, got.Range))
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestParseAddress_Malformed(t *testing.T) {
	for _, in := range []string{"!A1", "Sheet1!", "A1:", "A1:9", "Sheet1!1A"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAddress(in)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}
