package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Generate key.Binding
	Rename   key.Binding
	Stop     key.Binding
	Undo     key.Binding
	Add      key.Binding
	Remove   key.Binding
	Clear    key.Binding
	SortName key.Binding
	SortDir  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "preview")),
		Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add path")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		SortName: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "sort name")),
		SortDir:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "sort dir")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// apply enables the bindings allowed in a.
func (k *keyMap) apply(a Actions) {
	k.Rename.SetEnabled(a.Rename)
	k.Stop.SetEnabled(a.Stop)
	k.Undo.SetEnabled(a.Undo)
	k.Quit.SetEnabled(a.Exit)
	k.Clear.SetEnabled(a.ClearItems)
	k.Remove.SetEnabled(a.ClearItems)
	k.Add.SetEnabled(a.ClearItems)
	k.Generate.SetEnabled(a.ChangeSettings)
	k.MoveUp.SetEnabled(a.ClearItems)
	k.MoveDown.SetEnabled(a.ClearItems)
	k.SortName.SetEnabled(a.ClearItems)
	k.SortDir.SetEnabled(a.ClearItems)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Rename, k.Stop, k.Undo, k.Add, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Generate, k.Rename, k.Stop, k.Undo},
		{k.Add, k.Remove, k.Clear},
		{k.SortName, k.SortDir, k.Help, k.Quit},
	}
}
