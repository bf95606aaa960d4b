package cellref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	got := Normalize(Cell{Row: 5, Col: 1}, Cell{Row: 2, Col: 4})
	assert.Equal(t, Range{MinRow: 2, MaxRow: 5, MinCol: 1, MaxCol: 4}, got)
	assert.Equal(t, 4, got.Rows())
	assert.Equal(t, 4, got.Cols())
	assert.False(t, got.IsSingle())
	assert.True(t, Single(Cell{Row: 3, Col: 3}).IsSingle())
}

func TestRange_Contains(t *testing.T) {
	r := Range{MinRow: 2, MaxRow: 4, MinCol: 1, MaxCol: 3}

	for _, c := range []Cell{{2, 1}, {4, 3}, {3, 2}} {
		assert.True(t, r.Contains(c), "expected %v inside", c)
	}
	for _, c := range []Cell{{1, 1}, {5, 5}, {2, 4}} {
		assert.False(t, r.Contains(c), "expected %v outside", c)
	}
}

func TestRange_Overlaps(t *testing.T) {
	base := Range{MinRow: 2, MaxRow: 4, MinCol: 2, MaxCol: 4}

	tests := []struct {
		name  string
		other Range
		want  bool
	}{
		{"identical", base, true},
		{"corner touch", Range{MinRow: 4, MaxRow: 6, MinCol: 4, MaxCol: 6}, true},
		{"contained", Range{MinRow: 3, MaxRow: 3, MinCol: 3, MaxCol: 3}, true},
		{"enclosing", Range{MinRow: 0, MaxRow: 9, MinCol: 0, MaxCol: 9}, true},
		{"left of", Range{MinRow: 2, MaxRow: 4, MinCol: 0, MaxCol: 1}, false},
		{"below", Range{MinRow: 5, MaxRow: 8, MinCol: 2, MaxCol: 4}, false},
		{"row overlap only", Range{MinRow: 3, MaxRow: 3, MinCol: 6, MaxCol: 7}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, Single(Cell{}).Validate())
	assert.ErrorIs(t, Range{MinRow: -1}.Validate(), ErrInvalidCoordinate)
}
