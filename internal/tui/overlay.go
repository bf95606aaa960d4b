package tui

import (
	lipgloss "charm.land/lipgloss/v2"
)

// overlayAt composites fg over bg with its top-left corner at (x, y). Higher
// z draws on top of lower layers.
func overlayAt(bg, fg string, x, y, z int) string {
	bgLayer := lipgloss.NewLayer(bg)
	fgLayer := lipgloss.NewLayer(fg)
	fgLayer.X(max(0, x)).Y(max(0, y)).Z(z)
	return lipgloss.NewCompositor(bgLayer, fgLayer).Render()
}

// overlayCenter composites fg centered over a width x height background.
func overlayCenter(bg, fg string, width, height int) string {
	x := (width - lipgloss.Width(fg)) / 2
	y := (height - lipgloss.Height(fg)) / 2
	return overlayAt(bg, fg, x, y, 1)
}

// fitBox returns a top-left position that keeps a w x h box on screen,
// preferring (x, y).
func fitBox(x, y, w, h, screenW, screenH int) (int, int) {
	if x+w > screenW {
		x = screenW - w
	}
	if y+h > screenH {
		y = screenH - h
	}
	return max(0, x), max(0, y)
}
