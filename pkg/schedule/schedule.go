// Package schedule provides cancellable deferred callbacks that run on a
// single cooperative event loop. Callbacks never run on a goroutine of their
// own: the owner of a Loop decides when timers fire, either by turning drained
// requests into UI-loop timer messages and calling Fire, or by calling Advance.
package schedule

import (
	"slices"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler defers callbacks and cancels them deterministically.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// Timer is a scheduling request the event loop must deliver back via Fire.
type Timer struct {
	Handle Handle
	Delay  time.Duration
}

type entry struct {
	fn        func()
	remaining time.Duration
}

// Loop is a Scheduler owned by one event loop. It is not safe for concurrent
// use; all calls must come from the loop's goroutine.
type Loop struct {
	next    Handle
	pending map[Handle]*entry
	queued  []Timer
}

var _ Scheduler = (*Loop)(nil)

func NewLoop() *Loop {
	return &Loop{pending: make(map[Handle]*entry)}
}

// After registers fn to run once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) Handle {
	l.next++
	h := l.next
	l.pending[h] = &entry{fn: fn, remaining: d}
	l.queued = append(l.queued, Timer{Handle: h, Delay: d})
	return h
}

// Cancel drops a pending callback. Cancelling an unknown or already fired
// handle is a no-op.
func (l *Loop) Cancel(h Handle) {
	delete(l.pending, h)
}

// Drain returns timers requested since the last Drain that are still pending.
func (l *Loop) Drain() []Timer {
	if len(l.queued) == 0 {
		return nil
	}
	out := make([]Timer, 0, len(l.queued))
	for _, t := range l.queued {
		if _, ok := l.pending[t.Handle]; ok {
			out = append(out, t)
		}
	}
	l.queued = l.queued[:0]
	return out
}

// Fire runs the callback for h if it is still pending. It returns false for
// cancelled or already fired handles, which lets stale timer messages be
// dropped safely.
func (l *Loop) Fire(h Handle) bool {
	e, ok := l.pending[h]
	if !ok {
		return false
	}
	delete(l.pending, h)
	e.fn()
	return true
}

// Advance moves the loop's clock forward by d and fires every timer that
// became due, oldest first. Timers scheduled by those callbacks start counting
// after this call. It returns the number of callbacks run. Advance-driven
// loops do not use Drain, so queued requests are discarded.
func (l *Loop) Advance(d time.Duration) int {
	var due []Handle
	for h, e := range l.pending {
		e.remaining -= d
		if e.remaining <= 0 {
			due = append(due, h)
		}
	}
	slices.Sort(due)

	fired := 0
	for _, h := range due {
		if l.Fire(h) {
			fired++
		}
	}
	l.queued = l.queued[:0]
	return fired
}

// Pending reports how many callbacks are waiting to fire.
func (l *Loop) Pending() int {
	return len(l.pending)
}
