package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the form's global bindings. Everything else goes to the
// focused input.
type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Toggle     key.Binding
	AddAddress key.Binding
	Save       key.Binding
	TestData   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down", "enter"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab", "prev"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "left", "right"),
			key.WithHelp("space", "choose"),
		),
		AddAddress: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("^a", "add address"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^s", "save"),
		),
		TestData: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("^t", "test data"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.AddAddress, k.Save, k.TestData, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Toggle},
		{k.AddAddress, k.TestData, k.Save},
		{k.Help, k.Quit},
	}
}
