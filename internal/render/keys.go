package render

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/rileyhilliard/sysview/internal/interact"
)

// KeyMap lists the bindings shown in the footer for each mode.
type KeyMap struct {
	Select  key.Binding
	Up      key.Binding
	Down    key.Binding
	Kill    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the dashboard's key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("k", "K"),
			key.WithHelp("k", "select process"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Kill: key.NewBinding(
			key.WithKeys("k", "K"),
			key.WithHelp("k", "kill"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ForMode returns the bindings that do something in mode.
func (k KeyMap) ForMode(mode interact.Mode) []key.Binding {
	switch mode {
	case interact.ModeSelect:
		return []key.Binding{k.Up, k.Down, k.Kill, k.Back, k.Quit}
	case interact.ModeConfirm:
		return []key.Binding{k.Confirm, k.Cancel, k.Quit}
	default:
		return []key.Binding{k.Select, k.Quit}
	}
}

// modeHelp adapts a mode's bindings to help.KeyMap.
type modeHelp []key.Binding

func (m modeHelp) ShortHelp() []key.Binding  { return m }
func (m modeHelp) FullHelp() [][]key.Binding { return [][]key.Binding{m} }

// HelpView renders the one-line key help for mode.
func (k KeyMap) HelpView(h help.Model, mode interact.Mode) string {
	return h.View(modeHelp(k.ForMode(mode)))
}
