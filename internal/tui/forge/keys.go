package forge

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the forge TUI.
type KeyMap struct {
	// Panes
	FormPane    key.Binding
	HistoryPane key.Binding
	BuildsPane  key.Binding
	NextPane    key.Binding

	// Form
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Submit    key.Binding

	// Actions
	Build   key.Binding
	Install key.Binding

	// Log scrolling
	LogUp   key.Binding
	LogDown key.Binding

	// History and builds panes
	Load    key.Binding
	Delete  key.Binding
	Rescan  key.Binding
	Reveal  key.Binding
	Dismiss key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		FormPane: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "form"),
		),
		HistoryPane: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "history"),
		),
		BuildsPane: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "builds"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next pane"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "press"),
		),
		Build: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "build app"),
		),
		Install: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "install deps"),
		),
		LogUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "log up"),
		),
		LogDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "log down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use / open"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Reveal: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open folder"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "dismiss"),
		),
		Help: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("F5", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FormPane, k.HistoryPane, k.BuildsPane, k.Build, k.Install, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FormPane, k.HistoryPane, k.BuildsPane, k.NextPane},
		{k.NextField, k.PrevField, k.Toggle, k.Submit},
		{k.Build, k.Install, k.LogUp, k.LogDown},
		{k.Load, k.Delete, k.Rescan, k.Reveal},
		{k.Dismiss, k.Help, k.Quit},
	}
}
