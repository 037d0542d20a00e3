package dashboard

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	prevRange key.Binding
	nextRange key.Binding
	up        key.Binding
	down      key.Binding
	top       key.Binding
	bottom    key.Binding
	refresh   key.Binding
	quit      key.Binding
}

var defaultKeymap = keymap{
	prevRange: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev range"),
	),
	nextRange: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next range"),
	),
	up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keymap) shortHelp() []key.Binding {
	return []key.Binding{k.prevRange, k.nextRange, k.up, k.down, k.refresh, k.quit}
}
