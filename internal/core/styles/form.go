package styles

import (
	"image/color"

	"github.com/charmbracelet/huh"
	lipglossv1 "github.com/charmbracelet/lipgloss"
)

// v1 converts a palette color for huh, which still styles with lipgloss v1.
func v1(c color.Color) lipglossv1.Color {
	return lipglossv1.Color(Hex(c))
}

// FormTheme returns a huh theme matching the active palette. It styles the
// CLI prompts; the TUI dialogs use the Form* styles.
func FormTheme() *huh.Theme {
	p := CurrentPalette
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(v1(p.Primary))
	t.Focused.Title = t.Focused.Title.Foreground(v1(p.Primary)).Bold(true)
	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(v1(p.Primary)).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(v1(p.Muted))
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(v1(p.Error))
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(v1(p.Error))
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(v1(p.Secondary))
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(v1(p.Muted))
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(v1(p.Secondary))
	t.Focused.TextInput.Text = t.Focused.TextInput.Text.Foreground(v1(p.Foreground))
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(v1(p.Background)).Background(v1(p.Primary))
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(v1(p.Foreground)).Background(v1(p.Surface))

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipglossv1.HiddenBorder())

	return t
}
