// Package form provides keyboard driven form fields and the dialog that
// cycles focus between them.
package form

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/sheetmark/internal/core/styles"
)

// Field is the interface implemented by all form field types.
type Field interface {
	Update(msg tea.Msg) (Field, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Value() string
	Label() string
	// Validate checks the current value and keeps the message for View.
	// It returns "" when the value is accepted.
	Validate() string
}

// renderField draws a label, the input and an optional error inside the
// field border.
func renderField(label, input, errMsg string, focused bool) string {
	titleStyle := styles.TextMutedStyle
	borderStyle := styles.FormFieldStyle
	if focused {
		titleStyle = styles.FormTitleStyle
		borderStyle = styles.FormFieldFocusedStyle
	}

	parts := []string{titleStyle.Render(label), input}
	if errMsg != "" {
		parts = append(parts, styles.FormErrorStyle.Render(errMsg))
	}
	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
