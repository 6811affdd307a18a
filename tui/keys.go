package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Learn       key.Binding
	NextCommand key.Binding
	PrevCommand key.Binding
	NextGroup   key.Binding
	KnobMode    key.Binding
	SendValue   key.Binding
	WhenRecv    key.Binding
	Clear       key.Binding

	Import key.Binding
	Export key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       bind("up", "k", "up"),
		Down:     bind("down", "j", "down"),
		PageUp:   bind("page up", "pgup", "K"),
		PageDown: bind("page down", "pgdown", "J"),

		Learn:       bind("learn", "l"),
		NextCommand: bind("next command", "]", "c"),
		PrevCommand: bind("prev command", "[", "C"),
		NextGroup:   bind("next group", "g"),
		KnobMode:    bind("knob mode", "m"),
		SendValue:   bind("feedback", "f"),
		WhenRecv:    bind("when received", "w"),
		Clear:       bind("clear slot", "x", "delete"),

		Import: bind("import", "i"),
		Export: bind("export", "e"),
		Help:   bind("help", "?"),
		Quit:   bind("quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Learn, k.NextCommand, k.Import, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Learn, k.NextCommand, k.PrevCommand, k.NextGroup},
		{k.KnobMode, k.SendValue, k.WhenRecv, k.Clear},
		{k.Import, k.Export, k.Help, k.Quit},
	}
}
