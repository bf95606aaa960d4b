package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/pkg/tuitest"
)

func labels(items []menuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.label
	}
	return out
}

func TestContextItems(t *testing.T) {
	mapping := &annotation.RangeEvidence{ID: "m1", Type: annotation.KindMapping}
	reference := &annotation.RangeEvidence{ID: "r1", Type: annotation.KindReference}

	assert.Equal(t, []string{"Add mapping", "Add reference"}, labels(contextItems(nil, nil)))

	items := contextItems(mapping, reference)
	assert.Equal(t, []string{
		"Add mapping", "Add reference",
		"View mapping", "Edit mapping", "Delete mapping",
		"View reference", "Edit reference", "Attach files", "Delete reference",
	}, labels(items))
	assert.Same(t, mapping, items[4].target)
	assert.Same(t, reference, items[7].target)
}

func TestHoverItems(t *testing.T) {
	m := hoverItems(annotation.RangeEvidence{ID: "m1", Type: annotation.KindMapping})
	assert.Equal(t, []string{"View", "Edit", "Delete"}, labels(m))

	r := hoverItems(annotation.RangeEvidence{ID: "r1", Type: annotation.KindReference})
	assert.Equal(t, []string{"View", "Edit", "Attach files", "Delete"}, labels(r))
	assert.Equal(t, "r1", r[2].target.ID)
}

func TestMenu_moveSkipsDisabled(t *testing.T) {
	mn := newMenu("menu", []menuItem{
		{label: "one", action: actionView},
		{label: "two", action: actionEdit, disabled: true},
		{label: "three", action: actionDelete},
	})

	_, ok := mn.selected()
	assert.False(t, ok)

	mn.move(1)
	assert.Equal(t, 0, mn.cursor)
	mn.move(1)
	assert.Equal(t, 2, mn.cursor)
	mn.move(1)
	assert.Equal(t, 0, mn.cursor, "wraps")
	mn.move(-1)
	assert.Equal(t, 2, mn.cursor)

	it, ok := mn.selected()
	require.True(t, ok)
	assert.Equal(t, actionDelete, it.action)
}

func TestMenu_itemAt(t *testing.T) {
	mn := newMenu("B2:C3", []menuItem{
		{label: "View"},
		{label: "Edit", disabled: true},
		{label: "Delete"},
	})
	mn.x, mn.y = 10, 5
	w, h := mn.size()
	assert.Equal(t, 3+menuHeaderRows+1, h, "border, title, items, border")

	i, ok := mn.itemAt(12, 5+menuHeaderRows)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = mn.itemAt(12, 5+menuHeaderRows+1)
	assert.False(t, ok, "disabled")

	i, ok = mn.itemAt(10+w-1, 5+menuHeaderRows+2)
	require.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = mn.itemAt(12, 5+1)
	assert.False(t, ok, "title row")
	_, ok = mn.itemAt(10+w, 5+menuHeaderRows)
	assert.False(t, ok, "outside")
}

func TestMenu_View(t *testing.T) {
	mn := newMenu("◆ Controls!B2:C3", hoverItems(annotation.RangeEvidence{ID: "m1"}))
	mn.cursor = 1

	out := tuitest.StripANSI(mn.View())

	assert.Contains(t, out, "Controls!B2:C3")
	assert.Contains(t, out, "View")
	assert.Contains(t, out, "Delete")
}
