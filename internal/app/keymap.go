package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines global and pane-specific bindings.
type KeyMap struct {
	Quit            key.Binding
	ToggleFocus     key.Binding
	Up              key.Binding
	Down            key.Binding
	PageUp          key.Binding
	PageDown        key.Binding
	Top             key.Binding
	Bottom          key.Binding
	Refresh         key.Binding
	CycleSource     key.Binding
	ToggleUntracked key.Binding
	OpenEditor      key.Binding
	Copy            key.Binding
	HideList        key.Binding
	Help            key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ToggleFocus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Up:              key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "move up")),
		Down:            key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "move down")),
		PageUp:          key.NewBinding(key.WithKeys("ctrl+b", "pgup"), key.WithHelp("ctrl-b", "page up")),
		PageDown:        key.NewBinding(key.WithKeys("ctrl+f", "pgdown"), key.WithHelp("ctrl-f", "page down")),
		Top:             key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:          key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Refresh:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		CycleSource:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "working/staged")),
		ToggleUntracked: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "untracked")),
		OpenEditor:      key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o", "open in editor")),
		Copy:            key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy hunk")),
		HideList:        key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "hide hunk list")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}
