package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/sheetmark/pkg/schedule"
)

// timerFiredMsg delivers a schedule.Loop timer back to the update loop.
type timerFiredMsg struct {
	handle schedule.Handle
}

// scheduleTimers turns timers requested during the last update into ticks.
// A tick whose timer was cancelled in the meantime is dropped by Fire.
func (m *Model) scheduleTimers() tea.Cmd {
	timers := m.loop.Drain()
	if len(timers) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(timers))
	for _, t := range timers {
		h := t.Handle
		cmds = append(cmds, tea.Tick(t.Delay, func(time.Time) tea.Msg {
			return timerFiredMsg{handle: h}
		}))
	}
	return tea.Batch(cmds...)
}
