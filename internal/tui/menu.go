package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/styles"
)

type menuAction int

const (
	actionNone menuAction = iota
	actionAddMapping
	actionAddReference
	actionView
	actionEdit
	actionAttach
	actionDelete
)

type menuItem struct {
	label    string
	action   menuAction
	target   *annotation.RangeEvidence
	disabled bool
}

// menu is a floating list of actions. Its position is in terminal cells and
// is recorded at render time so pointer events can be hit-tested against it.
type menu struct {
	title  string
	items  []menuItem
	cursor int // -1 when nothing is highlighted
	x, y   int
}

// menu rows above the first item: top border and title.
const menuHeaderRows = 2

func newMenu(title string, items []menuItem) *menu {
	m := &menu{title: title, items: items, cursor: -1}
	return m
}

func (m *menu) View() string {
	lines := make([]string, 0, len(m.items)+1)
	lines = append(lines, styles.MenuTitleStyle.Render(m.title))

	width := lipgloss.Width(m.title)
	for _, it := range m.items {
		width = max(width, lipgloss.Width(it.label)+2)
	}

	for i, it := range m.items {
		label := " " + it.label + strings.Repeat(" ", width-lipgloss.Width(it.label)-1)
		switch {
		case it.disabled:
			lines = append(lines, styles.MenuItemDisabledStyle.Render(label))
		case i == m.cursor:
			lines = append(lines, styles.MenuItemSelectedStyle.Render(label))
		default:
			lines = append(lines, styles.MenuItemStyle.Render(label))
		}
	}

	return styles.MenuStyle.Render(strings.Join(lines, "\n"))
}

func (m *menu) size() (w, h int) {
	v := m.View()
	return lipgloss.Width(v), lipgloss.Height(v)
}

func (m *menu) contains(x, y int) bool {
	w, h := m.size()
	return x >= m.x && x < m.x+w && y >= m.y && y < m.y+h
}

// itemAt returns the index of the enabled item drawn at (x, y).
func (m *menu) itemAt(x, y int) (int, bool) {
	if !m.contains(x, y) {
		return 0, false
	}
	i := y - m.y - menuHeaderRows
	if i < 0 || i >= len(m.items) || m.items[i].disabled {
		return 0, false
	}
	return i, true
}

// move highlights the next enabled item in direction delta, wrapping.
func (m *menu) move(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	i := m.cursor
	for range n {
		i = ((i+delta)%n + n) % n
		if !m.items[i].disabled {
			m.cursor = i
			return
		}
	}
}

func (m *menu) selected() (menuItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) || m.items[m.cursor].disabled {
		return menuItem{}, false
	}
	return m.items[m.cursor], true
}

// contextItems lists the actions for a right-click. Add actions are always
// offered; view, edit and delete follow the annotations covering the cell.
func contextItems(mapping, reference *annotation.RangeEvidence) []menuItem {
	items := []menuItem{
		{label: "Add mapping", action: actionAddMapping},
		{label: "Add reference", action: actionAddReference},
	}
	if mapping != nil {
		items = append(items,
			menuItem{label: "View mapping", action: actionView, target: mapping},
			menuItem{label: "Edit mapping", action: actionEdit, target: mapping},
			menuItem{label: "Delete mapping", action: actionDelete, target: mapping},
		)
	}
	if reference != nil {
		items = append(items,
			menuItem{label: "View reference", action: actionView, target: reference},
			menuItem{label: "Edit reference", action: actionEdit, target: reference},
			menuItem{label: "Attach files", action: actionAttach, target: reference},
			menuItem{label: "Delete reference", action: actionDelete, target: reference},
		)
	}
	return items
}

// hoverItems lists the actions of the floating hover menu.
func hoverItems(ev annotation.RangeEvidence) []menuItem {
	items := []menuItem{
		{label: "View", action: actionView, target: &ev},
		{label: "Edit", action: actionEdit, target: &ev},
	}
	if ev.Type == annotation.KindReference {
		items = append(items, menuItem{label: "Attach files", action: actionAttach, target: &ev})
	}
	return append(items, menuItem{label: "Delete", action: actionDelete, target: &ev})
}

func kindIcon(k annotation.Kind) string {
	if k == annotation.KindReference {
		return styles.IconReference
	}
	return styles.IconMapping
}
