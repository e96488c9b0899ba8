package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the top-level key bindings
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Search     key.Binding
	Filter     key.Binding
	ToggleMode key.Binding
	Edit       key.Binding
	Delete     key.Binding
	New        key.Binding
	Tags       key.Binding
}

// quickSelectHelp is the footer shown in QuickSelect mode
type quickSelectHelp struct{ k KeyMap }

// ShortHelp returns keybindings to show in the mini help view
func (h quickSelectHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Select, h.k.Search, h.k.Filter, h.k.ToggleMode, h.k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (h quickSelectHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// managementHelp is the footer shown in Management mode
type managementHelp struct{ k KeyMap }

// ShortHelp returns keybindings to show in the mini help view
func (h managementHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Edit, h.k.New, h.k.Delete, h.k.Tags, h.k.Search, h.k.Filter, h.k.ToggleMode, h.k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (h managementHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.Search, h.k.Filter},
		{h.k.Edit, h.k.New, h.k.Delete, h.k.Tags},
		{h.k.ToggleMode, h.k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy & quit"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter by tag"),
	),
	ToggleMode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mode"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Tags: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tags"),
	),
}

// dialog-local bindings
var (
	keyEsc       = key.NewBinding(key.WithKeys("esc"))
	keyEnter     = key.NewBinding(key.WithKeys("enter"))
	keyTab       = key.NewBinding(key.WithKeys("tab", "shift+tab"))
	keyBackspace = key.NewBinding(key.WithKeys("backspace"))
	keyYes       = key.NewBinding(key.WithKeys("y", "Y"))
	keyNo        = key.NewBinding(key.WithKeys("n", "N", "esc"))
	keyListUp    = key.NewBinding(key.WithKeys("up", "k"))
	keyListDown  = key.NewBinding(key.WithKeys("down", "j"))
	keyArrowUp   = key.NewBinding(key.WithKeys("up"))
	keyArrowDown = key.NewBinding(key.WithKeys("down"))
	keyPrev      = key.NewBinding(key.WithKeys("left", "h"))
	keyNext      = key.NewBinding(key.WithKeys("right", "l"))
	keyClear     = key.NewBinding(key.WithKeys("c"))
	keyAddTag    = key.NewBinding(key.WithKeys("a"))
	keyRemoveTag = key.NewBinding(key.WithKeys("r"))
	keyComplete  = key.NewBinding(key.WithKeys("tab"))
)
