package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	Claude      key.Binding
	Search      key.Binding
	Presets     key.Binding
	Focus       key.Binding
	SortLeft    key.Binding
	SortRight   key.Binding
	Sort        key.Binding
	Tooltip     key.Binding
	Theme       key.Binding
	Collapse    key.Binding
	Narrower    key.Binding
	Wider       key.Binding
	Retry       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle project")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		DeselectAll: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "deselect all")),
		Claude:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "hide claude")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Presets:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "date range")),
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "projects/table")),
		SortLeft:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		SortRight:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Sort:        key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter/s", "sort")),
		Tooltip:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "chart info")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Collapse:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "sidebar")),
		Narrower:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "narrower")),
		Wider:       key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "wider")),
		Retry:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Presets, k.Search, k.Focus, k.Sort, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.SelectAll, k.DeselectAll},
		{k.Claude, k.Search, k.Presets, k.Focus},
		{k.SortLeft, k.SortRight, k.Sort, k.Tooltip},
		{k.Theme, k.Collapse, k.Narrower, k.Wider, k.Retry, k.Quit},
	}
}
