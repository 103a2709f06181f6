package taketest

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Clear   key.Binding
	Mark    key.Binding
	Jump    key.Binding
	Submit  key.Binding
	Dismiss key.Binding
	Retry   key.Binding
	Help    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next")),
		Prev:    key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev")),
		Clear:   key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "clear")),
		Mark:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "review")),
		Jump:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
		Submit:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry"), key.WithDisabled()),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Mark, k.Submit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Jump},
		{k.Clear, k.Mark, k.Dismiss},
		{k.Submit, k.Retry, k.Help},
	}
}
