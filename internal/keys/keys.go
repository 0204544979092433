package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings the background agent listens for.
type KeyMap struct {
	Quit key.Binding

	// Preferences
	ToggleNotifications key.Binding
	ToggleTheme         key.Binding

	// Re-arm every pending reminder
	Restore key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ToggleNotifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "toggle notifications"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore schedules"),
		),
	}
}

// ShortHelp returns the bindings announced at startup.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleNotifications, k.ToggleTheme, k.Restore, k.Quit}
}
