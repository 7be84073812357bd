package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings for the file browser
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Open      key.Binding
	GoUp      key.Binding
	Back      key.Binding
	Forward   key.Binding
	Toggle    key.Binding
	Refresh   key.Binding
	Rename    key.Binding
	NewFolder key.Binding
	Delete    key.Binding
	Upload    key.Binding
	Download  key.Binding
	Preview   key.Binding
	Search    key.Binding
	Locate    key.Binding
	Menu      key.Binding
	SortName  key.Binding
	SortSize  key.Binding
	SortTime  key.Binding
	CopyLink  key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "go to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to end"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "open folder"),
		),
		GoUp: key.NewBinding(
			key.WithKeys("backspace", "h", "left"),
			key.WithHelp("⌫/h", "parent folder"),
		),
		Back: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "forward"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle select"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/f5", "refresh"),
		),
		Rename: key.NewBinding(
			key.WithKeys("f2", "e"),
			key.WithHelp("f2/e", "rename"),
		),
		NewFolder: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new folder"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "x"),
			key.WithHelp("del/x", "delete"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Locate: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "locate hit"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m", "."),
			key.WithHelp("m", "menu"),
		),
		SortName: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort by name"),
		),
		SortSize: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort by size"),
		),
		SortTime: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort by time"),
		),
		CopyLink: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "no"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.GoUp, k.Menu, k.Search, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Open, k.GoUp, k.Back, k.Forward, k.Toggle, k.Refresh},
		{k.Rename, k.NewFolder, k.Delete, k.Upload, k.Download, k.Preview},
		{k.Search, k.Locate, k.Menu, k.SortName, k.SortSize, k.SortTime},
		{k.CopyLink, k.Help, k.Quit},
	}
}
