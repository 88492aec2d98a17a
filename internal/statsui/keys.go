package statsui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	PrevTab   key.Binding
	NextTab   key.Binding
	Filter    key.Binding
	Reload    key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Apply     key.Binding
	Cancel    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		PrevTab:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		NextTab:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter keys")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Apply:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.NextTab, k.Filter, k.Reload, k.Top, k.Bottom, k.Quit}
}

func (k keyMap) filterHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Cancel, k.ForceQuit}
}
