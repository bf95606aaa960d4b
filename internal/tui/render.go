package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/styles"
)

const formulaRefWidth = 20

type tabSpan struct {
	start, end int
	index      int
}

func (m *Model) View() tea.View {
	if m.quitting || m.width == 0 || m.height == 0 {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.ReportFocus = true
	return v
}

func (m *Model) render() string {

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderFormulaBar(), m.renderHeader())
	lines = append(lines, m.renderBody()...)
	lines = append(lines, m.renderTabs(), m.renderStatus())
	out := strings.Join(lines, "\n")

	if m.hoverMenu != nil && m.hover.Shown() {
		out = overlayAt(out, m.hoverMenu.View(), m.hoverMenu.x, m.hoverMenu.y, 1)
	}

	switch m.state {
	case stateContextMenu:
		out = overlayAt(out, m.ctxMenu.View(), m.ctxMenu.x, m.ctxMenu.y, 1)
	case stateDialog:
		out = overlayCenter(out, m.dialog.View(), m.width, m.height)
	case stateViewing:
		out = overlayCenter(out, m.viewer.View(), m.width, m.height)
	case stateHelp:
		out = overlayCenter(out, m.helpView(), m.width, m.height)
	}

	return m.toastView.Overlay(out, m.width, m.height)
}

func (m *Model) renderFormulaBar() string {
	addr := ansi.Truncate(m.sel.ActiveRangeAddress(), formulaRefWidth-1, "…")
	ref := styles.FormulaRefStyle.Width(formulaRefWidth).Render(addr)

	value := strings.ReplaceAll(m.sel.ActiveCellValue(m.wb.Grid), "\n", "⏎")
	line := ref + styles.TextMutedStyle.Render("fx ") + styles.FormulaBarStyle.Render(value)
	return ansi.Truncate(line, m.width, "…")
}

func (m *Model) renderHeader() string {
	v := m.view
	rng, hasSel := m.sel.ActiveRange()

	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render(strings.Repeat(" ", v.gutter())))

	first := v.firstCol()
	for i := range v.visibleCols() {
		col := first + i
		name, _ := cellref.ColumnName(col)
		style := styles.HeaderStyle
		if hasSel && col >= rng.MinCol && col <= rng.MaxCol {
			style = styles.HeaderActiveStyle
		}
		b.WriteString(style.Width(v.colWidth).Align(lipgloss.Center).Render(name))
	}

	if rest := m.width - ansi.StringWidth(b.String()); rest > 0 {
		b.WriteString(styles.HeaderStyle.Render(strings.Repeat(" ", rest)))
	}
	return b.String()
}

func (m *Model) renderBody() []string {
	v := m.view
	sheet := m.activeSheet()
	rng, hasSel := m.sel.ActiveRange()
	active, hasActive := m.sel.Active()

	bodyRows := v.bodyHeight()
	lines := make([]string, 0, bodyRows)
	first, firstCol := v.firstRow(), v.firstCol()
	cols := v.visibleCols()
	used := v.gutter() + cols*v.colWidth

	for i := range bodyRows {
		var b strings.Builder
		row := first + i

		if row < v.rows {
			style := styles.HeaderStyle
			if hasSel && row >= rng.MinRow && row <= rng.MaxRow {
				style = styles.HeaderActiveStyle
			}
			b.WriteString(style.Width(v.gutter() - 1).Align(lipgloss.Right).Render(strconv.Itoa(row + 1)))
			b.WriteString(styles.HeaderStyle.Render(" "))

			for j := range cols {
				cell := cellref.Cell{Row: row, Col: firstCol + j}
				isActive := hasActive && cell == active.Start
				b.WriteString(m.renderCell(sheet, cell, isActive))
			}
		} else {
			b.WriteString(strings.Repeat(" ", used))
		}

		if pad := m.width - scrollbarW - used; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(m.scrollbar(i))
		lines = append(lines, b.String())
	}
	return lines
}

func (m *Model) renderCell(sheet string, cell cellref.Cell, isActive bool) string {
	w := m.view.colWidth
	value, _ := m.wb.Grid.Value(sheet, cell)
	text := ansi.Truncate(strings.ReplaceAll(value, "\n", " "), w-1, "…")

	pad := strings.Repeat(" ", max(0, w-ansi.StringWidth(text)))
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && value != "" {
		text = pad[1:] + text + " "
	} else {
		text += pad
	}

	st := m.wb.Store.ResolveCellStyle(sheet, cell, m.sel.Contains(cell))
	style := m.cellStyle(st)
	if isActive {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(text)
}

// cellStyle maps a resolved overlay to a lipgloss style. Styles are cached
// per color since every visible cell is restyled on each frame.
func (m *Model) cellStyle(st annotation.Style) lipgloss.Style {
	var color string
	switch st.Kind {
	case annotation.StyleSelection:
		color = m.cfg.Colors.Selection
	case annotation.StyleMapping:
		color = st.Color
	case annotation.StyleReference:
		color = m.cfg.Colors.Reference
	default:
		return styles.CellStyle
	}

	if s, ok := m.styleCache[color]; ok {
		return s
	}
	s := styles.Highlight(color)
	m.styleCache[color] = s
	return s
}

// scrollbar returns the scrollbar glyph for body line i.
func (m *Model) scrollbar(i int) string {
	v := m.view
	body := v.bodyHeight()
	if v.rows <= body || body == 0 {
		return " "
	}

	thumbLen := max(1, body*body/v.rows)
	thumbStart := min(body-thumbLen, v.firstRow()*body/v.rows)
	if i >= thumbStart && i < thumbStart+thumbLen {
		return styles.TextPrimaryStyle.Render("┃")
	}
	return styles.TextMutedStyle.Render("│")
}

// tabSpans lays out the sheet tabs; used for rendering and hit-testing.
func (m *Model) tabSpans() []tabSpan {
	spans := make([]tabSpan, 0, len(m.sheets))
	x := 0
	for i, name := range m.sheets {
		w := lipgloss.Width(styles.TabStyle.Render(tabLabel(name)))
		spans = append(spans, tabSpan{start: x, end: x + w, index: i})
		x += w
	}
	return spans
}

func tabLabel(name string) string {
	return styles.IconSheet + " " + name
}

func (m *Model) renderTabs() string {
	var b strings.Builder
	for i, name := range m.sheets {
		style := styles.TabStyle
		if i == m.sheetIdx {
			style = styles.TabActiveStyle
		}
		b.WriteString(style.Render(tabLabel(name)))
	}
	return ansi.Truncate(b.String(), m.width, "…")
}

func (m *Model) renderStatus() string {
	mappings, references := m.wb.Store.Counts()

	parts := []string{
		styles.TextForegroundBoldStyle.Render(styles.IconFile + " " + m.wb.ID),
		fmt.Sprintf("%s %d  %s %d", styles.IconMapping, mappings, styles.IconReference, references),
	}
	if m.wb.Local {
		parts = append(parts, "local file")
	}
	switch {
	case m.reloading:
		parts = append(parts, styles.TextWarningStyle.Render("reloading…"))
	case m.sel.Dragging():
		parts = append(parts, styles.TextPrimaryStyle.Render("selecting "+m.sel.ActiveRangeAddress()))
	case len(m.sel.Ranges()) > 1:
		parts = append(parts, fmt.Sprintf("%d ranges", len(m.sel.Ranges())))
	}

	left := styles.StatusBarStyle.Render(" " + strings.Join(parts, styles.TextMutedStyle.Render(" │ ")))
	right := m.help.ShortHelpView(m.keys.ShortHelp())

	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right) - 1
	if gap < 1 {
		return ansi.Truncate(left, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) helpView() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keyboard shortcuts"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		styles.ModalHelpStyle.Render("Mouse: drag to select • ctrl/alt+drag adds a range • right-click for actions • hover an annotation for its menu"),
	)
	return styles.ModalStyle.Render(content)
}
