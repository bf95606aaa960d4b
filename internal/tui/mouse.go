package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/hovermenu"
)

const wheelLines = 3

// handleMouse routes pointer input. Dialogs are keyboard driven, so only the
// viewer (wheel scrolling) and menus receive mouse events while open.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch m.state {
	case stateContextMenu:
		return m.contextMenuMouse(msg)
	case stateViewing:
		return m.viewer.update(msg)
	case stateDialog, stateHelp:
		return nil
	}

	mouse := msg.Mouse()
	switch msg.(type) {
	case tea.MouseClickMsg:
		switch mouse.Button {
		case tea.MouseLeft:
			return m.leftPress(mouse)
		case tea.MouseRight:
			return m.rightPress(mouse)
		}

	case tea.MouseWheelMsg:
		shift := mouse.Mod.Contains(tea.ModShift)
		switch mouse.Button {
		case tea.MouseWheelUp:
			m.wheel(0, -1, shift)
		case tea.MouseWheelDown:
			m.wheel(0, 1, shift)
		case tea.MouseWheelLeft:
			m.wheel(-1, 0, false)
		case tea.MouseWheelRight:
			m.wheel(1, 0, false)
		}

	case tea.MouseMotionMsg:
		if m.engine.ButtonDown() {
			m.drag(mouse)
			return nil
		}
		m.pointerMoved(mouse)

	case tea.MouseReleaseMsg:
		m.endDrag()
	}
	return nil
}

func (m *Model) leftPress(msg tea.Mouse) tea.Cmd {
	if m.hoverMenu != nil && m.hoverMenu.contains(msg.X, msg.Y) {
		i, ok := m.hoverMenu.itemAt(msg.X, msg.Y)
		if !ok {
			return nil
		}
		it := m.hoverMenu.items[i]
		if it.action == actionView {
			if t, ok := m.hover.OpenView(); ok {
				return m.openViewer(t.Evidence)
			}
		}
		return m.runAction(it.action, it.target)
	}

	if msg.Y == m.tabsRow() {
		if idx, ok := m.tabAt(msg.X); ok && idx != m.sheetIdx {
			m.switchSheet(idx)
		}
		return nil
	}

	cell, ok := m.view.cellAt(msg.X, msg.Y)
	if !ok {
		return nil
	}

	// Many terminals swallow ctrl+click, so alt+click also adds a range.
	m.hover.Dismiss()
	m.sel.Begin(cell, m.activeSheet(), msg.Mod.Contains(tea.ModCtrl) || msg.Mod.Contains(tea.ModAlt))

	x, y := toPixels(msg.X, msg.Y)
	m.engine.UpdatePointer(x, y)
	m.engine.SetButtonDown(true)
	m.engine.Start()
	return nil
}

// drag tracks the pointer while the button is held. The selection follows
// immediately; the engine keeps extending it while it scrolls.
func (m *Model) drag(msg tea.Mouse) {
	x, y := toPixels(msg.X, msg.Y)
	m.engine.UpdatePointer(x, y)
	if cell, ok := m.view.Locate(x, y); ok {
		m.sel.Extend(cell)
	}
}

func (m *Model) rightPress(msg tea.Mouse) tea.Cmd {
	m.endDrag()

	cell, ok := m.view.cellAt(msg.X, msg.Y)
	if !ok {
		return nil
	}

	m.hover.Dismiss()
	sheet := m.activeSheet()
	m.sel.Context(cell, sheet)

	mapping := m.wb.Store.FindCovering(annotation.KindMapping, sheet, cell)
	reference := m.wb.Store.FindCovering(annotation.KindReference, sheet, cell)

	mn := newMenu(m.sel.ActiveRangeAddress(), contextItems(mapping, reference))
	w, h := mn.size()
	mn.x, mn.y = fitBox(msg.X, msg.Y+1, w, h, m.width, m.height)
	m.ctxMenu = mn
	m.state = stateContextMenu
	return nil
}

func (m *Model) wheel(dx, dy int, horizontal bool) {
	if horizontal {
		dx, dy = dy, 0
	}
	m.view.ScrollBy(float64(dx)*m.view.colPx(), float64(dy*wheelLines)*pxPerLine)
	m.hover.Dismiss()

	if m.engine.ButtonDown() {
		if cell, ok := m.view.Locate(m.engine.Pointer()); ok {
			m.sel.Extend(cell)
		}
	}
}

// pointerMoved drives the hover menu from motion without a button.
func (m *Model) pointerMoved(msg tea.Mouse) {
	if m.hoverMenu != nil {
		if m.hoverMenu.contains(msg.X, msg.Y) {
			if !m.inHoverMenu {
				m.inHoverMenu = true
				m.hover.EnterMenu()
			}
			m.hoverMenu.cursor = -1
			if i, ok := m.hoverMenu.itemAt(msg.X, msg.Y); ok {
				m.hoverMenu.cursor = i
			}
			return
		}
		if m.inHoverMenu {
			m.inHoverMenu = false
			m.hover.LeaveMenu()
		}
	}

	cond := hovermenu.Conditions{
		Dragging:  m.sel.Dragging(),
		ModalOpen: m.state != stateNormal,
	}
	if cell, ok := m.view.cellAt(msg.X, msg.Y); ok {
		m.hover.Hover(m.activeSheet(), cell, cond)
		return
	}
	m.hover.LeaveMenu()
}

func (m *Model) contextMenuMouse(msg tea.MouseMsg) tea.Cmd {
	mn := m.ctxMenu
	mouse := msg.Mouse()
	switch msg.(type) {
	case tea.MouseMotionMsg:
		if i, ok := mn.itemAt(mouse.X, mouse.Y); ok {
			mn.cursor = i
		}
	case tea.MouseClickMsg:
		if mouse.Button != tea.MouseLeft {
			m.closeOverlay()
			return nil
		}
		if i, ok := mn.itemAt(mouse.X, mouse.Y); ok {
			mn.cursor = i
			return m.activateContextItem()
		}
		if !mn.contains(mouse.X, mouse.Y) {
			m.closeOverlay()
		}
	}
	return nil
}

func (m *Model) contextMenuKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k", "shift+tab":
		m.ctxMenu.move(-1)
	case "down", "j", "tab":
		m.ctxMenu.move(1)
	case "enter", "space":
		return m.activateContextItem()
	case "esc", "q":
		m.closeOverlay()
	}
	return nil
}

func (m *Model) activateContextItem() tea.Cmd {
	it, ok := m.ctxMenu.selected()
	if !ok {
		return nil
	}
	m.closeOverlay()
	return m.runAction(it.action, it.target)
}

func (m *Model) tabsRow() int { return m.height - chromeBottom }

// tabAt returns the sheet index of the tab drawn at column x.
func (m *Model) tabAt(x int) (int, bool) {
	for _, span := range m.tabSpans() {
		if x >= span.start && x < span.end {
			return span.index, true
		}
	}
	return 0, false
}
