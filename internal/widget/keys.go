package widget

import "github.com/charmbracelet/bubbles/key"

// ComboboxKeyMap defines key bindings for a focused combobox
type ComboboxKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
	Clear  key.Binding
	Remove key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k ComboboxKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Select, k.Close, k.Clear}
}

// FullHelp returns keybindings for the expanded help view
func (k ComboboxKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Close, k.Clear, k.Remove},
	}
}

// DefaultComboboxKeyMap returns the standard bindings
func DefaultComboboxKeyMap() ComboboxKeyMap {
	return ComboboxKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear"),
		),
		Remove: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "remove last"),
		),
	}
}

// MenuKeyMap defines key bindings for selects and popup menus
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Close  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Close}
}

// FullHelp returns keybindings for the expanded help view
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Choose, k.Close}}
}

// DefaultMenuKeyMap returns the standard bindings
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "choose"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// PagerKeyMap defines key bindings for a pager
type PagerKeyMap struct {
	Previous key.Binding
	Next     key.Binding
	Jump     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k PagerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Jump}
}

// FullHelp returns keybindings for the expanded help view
func (k PagerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Previous, k.Next, k.Jump}}
}

// DefaultPagerKeyMap returns the standard bindings
func DefaultPagerKeyMap() PagerKeyMap {
	return PagerKeyMap{
		Previous: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←", "previous page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→", "next page"),
		),
		Jump: key.NewBinding(
			key.WithKeys("enter", "g"),
			key.WithHelp("enter", "first/last"),
		),
	}
}
