// Package autoscroll scrolls a viewport while a drag selection is held past
// its edge, and keeps extending the selection to whatever cell ends up under
// the pointer.
package autoscroll

import (
	"math"
	"time"

	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/pkg/schedule"
)

// DefaultFrameInterval is roughly one display frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Rect is a viewport bounding box in screen space.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Viewport is the scrollable grid container.
type Viewport interface {
	// Bounds returns the current bounding box. ok is false while the
	// container is absent, in which case the frame is skipped.
	Bounds() (r Rect, ok bool)
	ScrollBy(dx, dy float64)
}

// CellLocator resolves the grid cell under a screen position.
type CellLocator interface {
	Locate(x, y float64) (cellref.Cell, bool)
}

// Extender grows the active selection. Extend reports whether the selection
// changed.
type Extender interface {
	Extend(cell cellref.Cell) bool
}

// Curve maps pointer distance past an edge to a per-frame scroll speed:
// v = MinSpeed + (MaxSpeed-MinSpeed) * (d/MaxDistance)^Exponent.
type Curve struct {
	MinSpeed    float64
	MaxSpeed    float64
	MaxDistance float64
	Exponent    float64
}

func DefaultCurve() Curve {
	return Curve{MinSpeed: 3, MaxSpeed: 30, MaxDistance: 100, Exponent: 0.8}
}

// Speed returns the unsigned speed for a pointer d units past an edge.
// Distances are clamped to [0, MaxDistance]; a pointer on or inside the edge
// does not scroll.
func Speed(d float64, c Curve) float64 {
	if d <= 0 || c.MaxDistance <= 0 {
		return 0
	}
	d = min(d, c.MaxDistance)
	return c.MinSpeed + (c.MaxSpeed-c.MinSpeed)*math.Pow(d/c.MaxDistance, c.Exponent)
}

// Axis returns the signed speed along one axis for a pointer at pos and a
// viewport spanning [lo, hi]. Negative values scroll toward lo.
func Axis(pos, lo, hi float64, c Curve) float64 {
	switch {
	case pos < lo:
		return -Speed(lo-pos, c)
	case pos > hi:
		return Speed(pos-hi, c)
	default:
		return 0
	}
}

// Options configures an Engine.
type Options struct {
	Curve         Curve
	FrameInterval time.Duration
}

// FrameResult reports what a single frame did.
type FrameResult struct {
	VX, VY   float64
	Scrolled bool
	Cell     cellref.Cell
	Located  bool
	Extended bool
}

// Engine runs the per-frame auto-scroll loop for one viewer session. It owns
// the pointer state the loop reads; callers feed it through UpdatePointer and
// SetButtonDown. It is not safe for concurrent use.
type Engine struct {
	viewport Viewport
	locator  CellLocator
	target   Extender
	sched    schedule.Scheduler
	curve    Curve
	interval time.Duration

	x, y       float64
	hasPointer bool
	buttonDown bool

	running  bool
	handle   schedule.Handle
	lastCell *cellref.Cell
}

func New(vp Viewport, loc CellLocator, target Extender, sched schedule.Scheduler, opts Options) *Engine {
	if opts.Curve == (Curve{}) {
		opts.Curve = DefaultCurve()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}

	return &Engine{
		viewport: vp,
		locator:  loc,
		target:   target,
		sched:    sched,
		curve:    opts.Curve,
		interval: opts.FrameInterval,
	}
}

// UpdatePointer records the latest pointer screen position.
func (e *Engine) UpdatePointer(x, y float64) {
	e.x, e.y = x, y
	e.hasPointer = true
}

// SetButtonDown records whether the primary button is held.
func (e *Engine) SetButtonDown(down bool) {
	e.buttonDown = down
}

// Pointer returns the last recorded pointer position.
func (e *Engine) Pointer() (x, y float64) {
	return e.x, e.y
}

// ButtonDown reports the recorded button state.
func (e *Engine) ButtonDown() bool { return e.buttonDown }

// Running reports whether frames are being scheduled.
func (e *Engine) Running() bool { return e.running }

// Start begins scheduling frames. Calling Start while running is a no-op.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.lastCell = nil
	e.scheduleNext()
}

// Stop cancels the pending frame. No frame runs after Stop returns.
func (e *Engine) Stop() {
	e.running = false
	if e.handle != 0 {
		e.sched.Cancel(e.handle)
		e.handle = 0
	}
}

// Reset stops the loop and forgets pointer state, for session teardown.
func (e *Engine) Reset() {
	e.Stop()
	e.x, e.y = 0, 0
	e.hasPointer = false
	e.buttonDown = false
	e.lastCell = nil
}

// Frame runs one iteration of the loop and schedules the next while running.
// Frames are skipped, never failed, when the viewport is absent or the
// pointer is over something that is not a cell.
func (e *Engine) Frame() FrameResult {
	var res FrameResult
	if !e.running {
		return res
	}
	if e.handle != 0 {
		e.sched.Cancel(e.handle)
		e.handle = 0
	}
	defer e.scheduleNext()

	if !e.hasPointer || !e.buttonDown {
		return res
	}

	bounds, ok := e.viewport.Bounds()
	if !ok {
		return res
	}

	res.VX = Axis(e.x, bounds.Left, bounds.Right, e.curve)
	res.VY = Axis(e.y, bounds.Top, bounds.Bottom, e.curve)
	if res.VX != 0 || res.VY != 0 {
		e.viewport.ScrollBy(res.VX, res.VY)
		res.Scrolled = true
	}

	cell, ok := e.locator.Locate(e.x, e.y)
	if !ok {
		return res
	}
	res.Cell, res.Located = cell, true

	if e.lastCell != nil && *e.lastCell == cell {
		return res
	}
	e.lastCell = &cell
	res.Extended = e.target.Extend(cell)
	return res
}

func (e *Engine) scheduleNext() {
	if !e.running {
		return
	}
	e.handle = e.sched.After(e.interval, func() { e.Frame() })
}
