// Package hovermenu decides when the floating action menu for an annotated
// cell is shown and hidden.
package hovermenu

import (
	"time"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/pkg/schedule"
)

// DefaultHideDelay is how long the menu lingers after the pointer leaves an
// annotated cell, giving it time to reach the menu itself.
const DefaultHideDelay = 200 * time.Millisecond

// State of the menu.
type State int

const (
	Idle    State = iota
	Pending       // visible, hide timer armed
	Visible
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Visible:
		return "visible"
	default:
		return "idle"
	}
}

// Target is the annotation the menu acts on, anchored below the hovered cell.
type Target struct {
	Kind     annotation.Kind
	Evidence annotation.RangeEvidence
	Sheet    string
	Anchor   cellref.Cell
}

// Finder looks up the annotation covering a cell.
type Finder interface {
	FindCovering(kind annotation.Kind, sheet string, cell cellref.Cell) *annotation.RangeEvidence
}

// Conditions that suppress hover handling.
type Conditions struct {
	Dragging  bool
	ModalOpen bool
}

// Controller is the hover menu state machine. It is not safe for concurrent
// use.
type Controller struct {
	finder Finder
	sched  schedule.Scheduler
	delay  time.Duration

	state  State
	target *Target
	timer  schedule.Handle
}

func New(finder Finder, sched schedule.Scheduler, hideDelay time.Duration) *Controller {
	if hideDelay <= 0 {
		hideDelay = DefaultHideDelay
	}
	return &Controller{finder: finder, sched: sched, delay: hideDelay}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Shown reports whether the menu is on screen (Visible or Pending).
func (c *Controller) Shown() bool { return c.state != Idle }

// Target returns the annotation the menu is showing, if any.
func (c *Controller) Target() (Target, bool) {
	if c.target == nil || c.state == Idle {
		return Target{}, false
	}
	return *c.target, true
}

// Hover handles the pointer moving over cell. Mappings take precedence over
// references when both cover the cell, matching cell coloring.
func (c *Controller) Hover(sheet string, cell cellref.Cell, cond Conditions) {
	if cond.Dragging || cond.ModalOpen {
		return
	}

	if t, ok := c.covering(sheet, cell); ok {
		c.cancelTimer()
		c.target = &t
		c.state = Visible
		return
	}

	if c.state == Visible {
		c.armTimer()
	}
}

// EnterMenu keeps the menu open while the pointer is over it.
func (c *Controller) EnterMenu() {
	if c.state == Pending {
		c.cancelTimer()
		c.state = Visible
	}
}

// LeaveMenu starts the hide timer when the pointer leaves the menu.
func (c *Controller) LeaveMenu() {
	if c.state == Visible {
		c.armTimer()
	}
}

// OpenView returns the target for a view dialog and hides the menu so it
// cannot reappear underneath the dialog.
func (c *Controller) OpenView() (Target, bool) {
	t, ok := c.Target()
	c.Dismiss()
	return t, ok
}

// Dismiss hides the menu immediately and clears any pending timer.
func (c *Controller) Dismiss() {
	c.cancelTimer()
	c.state = Idle
	c.target = nil
}

func (c *Controller) covering(sheet string, cell cellref.Cell) (Target, bool) {
	for _, kind := range []annotation.Kind{annotation.KindMapping, annotation.KindReference} {
		if ev := c.finder.FindCovering(kind, sheet, cell); ev != nil {
			return Target{Kind: kind, Evidence: *ev, Sheet: sheet, Anchor: cell}, true
		}
	}
	return Target{}, false
}

func (c *Controller) armTimer() {
	if c.state == Pending {
		return
	}
	c.state = Pending
	c.timer = c.sched.After(c.delay, c.hide)
}

func (c *Controller) hide() {
	c.timer = 0
	if c.state != Pending {
		return
	}
	c.state = Idle
	c.target = nil
}

func (c *Controller) cancelTimer() {
	if c.timer != 0 {
		c.sched.Cancel(c.timer)
		c.timer = 0
	}
}
