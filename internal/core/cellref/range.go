package cellref

// Range is a rectangle of cells with inclusive, normalized bounds.
type Range struct {
	MinRow int `json:"minRow"`
	MaxRow int `json:"maxRow"`
	MinCol int `json:"minCol"`
	MaxCol int `json:"maxCol"`
}

// Normalize builds the Range spanned by two corners given in any order.
func Normalize(a, b Cell) Range {
	return Range{
		MinRow: min(a.Row, b.Row),
		MaxRow: max(a.Row, b.Row),
		MinCol: min(a.Col, b.Col),
		MaxCol: max(a.Col, b.Col),
	}
}

// Single returns the one-cell range at c.
func Single(c Cell) Range {
	return Normalize(c, c)
}

// Contains reports whether c lies inside r, bounds inclusive.
func (r Range) Contains(c Cell) bool {
	return c.Row >= r.MinRow && c.Row <= r.MaxRow &&
		c.Col >= r.MinCol && c.Col <= r.MaxCol
}

// Overlaps reports whether the two rectangles share at least one cell.
func (r Range) Overlaps(o Range) bool {
	return r.MinRow <= o.MaxRow && o.MinRow <= r.MaxRow &&
		r.MinCol <= o.MaxCol && o.MinCol <= r.MaxCol
}

// Start is the top-left cell.
func (r Range) Start() Cell { return Cell{Row: r.MinRow, Col: r.MinCol} }

// End is the bottom-right cell.
func (r Range) End() Cell { return Cell{Row: r.MaxRow, Col: r.MaxCol} }

func (r Range) IsSingle() bool {
	return r.MinRow == r.MaxRow && r.MinCol == r.MaxCol
}

func (r Range) Rows() int { return r.MaxRow - r.MinRow + 1 }

func (r Range) Cols() int { return r.MaxCol - r.MinCol + 1 }

// Validate reports ErrInvalidCoordinate for negative bounds.
func (r Range) Validate() error {
	if err := r.Start().Validate(); err != nil {
		return err
	}
	return r.End().Validate()
}
