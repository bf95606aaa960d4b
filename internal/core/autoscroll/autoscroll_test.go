package autoscroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/selection"
	"github.com/colonyops/sheetmark/pkg/schedule"
)

// fakeGrid is a viewport over a uniform grid of 10x10 unit cells whose
// visible box is [0,100]x[0,100] shifted by the scroll offset.
type fakeGrid struct {
	present bool
	scrollX float64
	scrollY float64
	scrolls int
}

func (g *fakeGrid) Bounds() (Rect, bool) {
	return Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}, g.present
}

func (g *fakeGrid) ScrollBy(dx, dy float64) {
	g.scrollX = max(0, g.scrollX+dx)
	g.scrollY = max(0, g.scrollY+dy)
	g.scrolls++
}

// Locate clamps the pointer into the visible box like a DOM hit test that
// only sees rendered cells.
func (g *fakeGrid) Locate(x, y float64) (cellref.Cell, bool) {
	if !g.present {
		return cellref.Cell{}, false
	}
	x = max(0, min(99, x))
	y = max(0, min(99, y))
	return cellref.Cell{
		Row: int((y + g.scrollY) / 10),
		Col: int((x + g.scrollX) / 10),
	}, true
}

type nowhere struct{}

func (nowhere) Locate(float64, float64) (cellref.Cell, bool) { return cellref.Cell{}, false }

func newEngine(t *testing.T, g *fakeGrid, loc CellLocator) (*Engine, *selection.Controller, *schedule.Loop) {
	t.Helper()
	sel := selection.New("S")
	loop := schedule.NewLoop()
	if loc == nil {
		loc = g
	}
	e := New(g, loc, sel, loop, Options{FrameInterval: 16 * time.Millisecond})
	return e, sel, loop
}

func TestSpeed_BoundsAndMonotonic(t *testing.T) {
	c := DefaultCurve()

	assert.Zero(t, Speed(0, c))
	assert.Zero(t, Speed(-5, c))
	assert.InDelta(t, c.MaxSpeed, Speed(c.MaxDistance, c), 1e-9)
	assert.InDelta(t, c.MaxSpeed, Speed(10*c.MaxDistance, c), 1e-9, "distance is clamped")

	prev := 0.0
	for d := 1.0; d <= c.MaxDistance; d++ {
		v := Speed(d, c)
		assert.GreaterOrEqual(t, v, prev, "speed must not decrease at d=%v", d)
		assert.GreaterOrEqual(t, v, c.MinSpeed)
		assert.LessOrEqual(t, v, c.MaxSpeed)
		prev = v
	}
}

func TestSpeed_CurveShape(t *testing.T) {
	c := DefaultCurve()
	// (0.5)^0.8 ≈ 0.5743
	assert.InDelta(t, 3+27*0.574349, Speed(50, c), 1e-3)
}

func TestAxis_Signs(t *testing.T) {
	c := DefaultCurve()

	assert.Zero(t, Axis(50, 0, 100, c))
	assert.Zero(t, Axis(0, 0, 100, c))
	assert.Less(t, Axis(-20, 0, 100, c), 0.0)
	assert.Greater(t, Axis(130, 0, 100, c), 0.0)
	assert.InDelta(t, -Speed(20, c), Axis(-20, 0, 100, c), 1e-9)
}

func TestEngine_StartStopIsDeterministic(t *testing.T) {
	g := &fakeGrid{present: true}
	e, _, loop := newEngine(t, g, nil)

	e.Start()
	e.Start()
	assert.True(t, e.Running())
	assert.Equal(t, 1, loop.Pending(), "double start schedules one frame")

	timers := loop.Drain()
	require.Len(t, timers, 1)

	e.Stop()
	assert.False(t, e.Running())
	assert.Zero(t, loop.Pending())
	assert.False(t, loop.Fire(timers[0].Handle), "stale frame is dropped")
}

func TestEngine_ScrollsPastBottomAndExtends(t *testing.T) {
	g := &fakeGrid{present: true}
	e, sel, loop := newEngine(t, g, nil)

	sel.Begin(cellref.Cell{Row: 0, Col: 0}, "S", false)
	e.UpdatePointer(50, 150) // 50 units below the bottom edge
	e.SetButtonDown(true)
	e.Start()

	for range 10 {
		loop.Advance(16 * time.Millisecond)
	}

	assert.Greater(t, g.scrollY, 0.0)
	assert.Zero(t, g.scrollX)

	active, ok := sel.Active()
	require.True(t, ok)
	assert.Greater(t, active.End.Row, 9, "selection extends past the visible window")
	assert.Equal(t, 5, active.End.Col)
	assert.True(t, e.Running())
}

func TestEngine_NoScrollStillTracksPointer(t *testing.T) {
	g := &fakeGrid{present: true}
	e, sel, _ := newEngine(t, g, nil)

	sel.Begin(cellref.Cell{}, "S", false)
	e.SetButtonDown(true)
	e.Start()

	e.UpdatePointer(35, 42)
	res := e.Frame()
	assert.False(t, res.Scrolled)
	assert.True(t, res.Extended)
	assert.Equal(t, cellref.Cell{Row: 4, Col: 3}, res.Cell)

	res = e.Frame()
	assert.True(t, res.Located)
	assert.False(t, res.Extended, "unchanged cell is not re-extended")
}

func TestEngine_ButtonUpPausesWithoutStopping(t *testing.T) {
	g := &fakeGrid{present: true}
	e, sel, loop := newEngine(t, g, nil)

	sel.Begin(cellref.Cell{}, "S", false)
	e.UpdatePointer(50, 150)
	e.SetButtonDown(false)
	e.Start()

	loop.Advance(16 * time.Millisecond)
	assert.Zero(t, g.scrolls)
	assert.True(t, e.Running())
	assert.Equal(t, 1, loop.Pending(), "loop keeps scheduling while paused")

	e.SetButtonDown(true)
	loop.Advance(16 * time.Millisecond)
	assert.Equal(t, 1, g.scrolls)
}

func TestEngine_MissingViewportRetries(t *testing.T) {
	g := &fakeGrid{present: false}
	e, _, loop := newEngine(t, g, nil)

	e.UpdatePointer(50, 150)
	e.SetButtonDown(true)
	e.Start()

	assert.Equal(t, 1, loop.Advance(16*time.Millisecond))
	assert.Zero(t, g.scrolls)
	assert.Equal(t, 1, loop.Pending())

	g.present = true
	loop.Advance(16 * time.Millisecond)
	assert.Equal(t, 1, g.scrolls)
}

func TestEngine_LocatorFailureSkipsExtend(t *testing.T) {
	g := &fakeGrid{present: true}
	e, sel, _ := newEngine(t, g, nowhere{})

	sel.Begin(cellref.Cell{Row: 1, Col: 1}, "S", false)
	e.UpdatePointer(50, 150)
	e.SetButtonDown(true)
	e.Start()

	res := e.Frame()
	assert.True(t, res.Scrolled)
	assert.False(t, res.Located)
	assert.False(t, res.Extended)

	active, _ := sel.Active()
	assert.Equal(t, cellref.Cell{Row: 1, Col: 1}, active.End)
}

func TestEngine_FrameAfterStopIsNoop(t *testing.T) {
	g := &fakeGrid{present: true}
	e, _, loop := newEngine(t, g, nil)

	e.UpdatePointer(50, 150)
	e.SetButtonDown(true)
	e.Start()
	e.Stop()

	res := e.Frame()
	assert.False(t, res.Scrolled)
	assert.Zero(t, loop.Pending())
}

func TestEngine_Reset(t *testing.T) {
	g := &fakeGrid{present: true}
	e, _, loop := newEngine(t, g, nil)

	e.UpdatePointer(1, 2)
	e.SetButtonDown(true)
	e.Start()
	e.Reset()

	x, y := e.Pointer()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.False(t, e.ButtonDown())
	assert.Zero(t, loop.Pending())
}
