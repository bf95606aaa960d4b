package tui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	ExtendLeft  key.Binding
	ExtendRight key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	NextSheet   key.Binding
	PrevSheet   key.Binding

	AddMapping   key.Binding
	AddReference key.Binding
	View         key.Binding
	Edit         key.Binding
	Attach       key.Binding
	Delete       key.Binding

	Escape  key.Binding
	Dismiss key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend up")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend down")),
		ExtendLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "extend left")),
		ExtendRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "extend right")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "go to A1")),
		NextSheet:   key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next sheet")),
		PrevSheet:   key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "previous sheet")),

		AddMapping:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "add mapping")),
		AddReference: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "add reference")),
		View:         key.NewBinding(key.WithKeys("enter", "v"), key.WithHelp("enter", "view annotation")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit annotation")),
		Attach:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attach files")),
		Delete:       key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete annotation")),

		Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close / clear")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
		Reload:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddMapping, k.AddReference, k.View, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home},
		{k.ExtendUp, k.ExtendDown, k.ExtendLeft, k.ExtendRight, k.NextSheet, k.PrevSheet},
		{k.AddMapping, k.AddReference, k.View, k.Edit, k.Attach, k.Delete},
		{k.Escape, k.Dismiss, k.Reload, k.Help, k.Quit},
	}
}
