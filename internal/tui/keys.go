package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding

	// Navigation
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding

	// Pages
	GoCompose   key.Binding
	GoDashboard key.Binding
	GoPublic    key.Binding
	GoLogin     key.Binding

	// Listing
	Search       key.Binding
	CycleLang    key.Binding
	CycleSort    key.Binding
	ResetFilters key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	Refresh      key.Binding

	// Paste actions
	Delete      key.Binding
	Edit        key.Binding
	CopyContent key.Binding
	CopyLink    key.Binding

	// Composer
	Submit       key.Binding
	NextField    key.Binding
	LangOption   key.Binding
	ExpiryOption key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		GoCompose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "new paste"),
		),
		GoDashboard: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "my pastes"),
		),
		GoPublic: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "public"),
		),
		GoLogin: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "login"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CycleLang: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "language filter"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ResetFilters: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset filters"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←/[", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→/]", "next page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		CopyContent: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy content"),
		),
		CopyLink: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "copy link"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		LangOption: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "language"),
		),
		ExpiryOption: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "expiry"),
		),
	}
}
