package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	darkText  = lipgloss.Color("#1a1a1a")
	lightText = lipgloss.Color("#f5f5f5")
)

// ReadableForeground picks dark or light text for a background hex color.
// Unparseable colors fall back to the theme foreground.
func ReadableForeground(bg string) color.Color {
	c, err := colorful.Hex(bg)
	if err != nil {
		return CurrentPalette.Foreground
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return darkText
	}
	return lightText
}

// Tint blends a hex color toward the theme background. amount 0 keeps the
// color, 1 returns the background.
func Tint(hex string, amount float64) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return lipgloss.Color(hex)
	}
	bg, ok := colorful.MakeColor(CurrentPalette.Background)
	if !ok {
		return c
	}
	amount = min(max(amount, 0), 1)
	return lipgloss.Color(c.BlendLab(bg, amount).Clamped().Hex())
}

// Highlight returns a cell style filled with the given hex color and a
// readable foreground.
func Highlight(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(ReadableForeground(hex))
}
