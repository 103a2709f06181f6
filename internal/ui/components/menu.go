package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/jeeace/jeeace/internal/ui/theme"
)

// MenuItem is one action of a Menu. A disabled item is shown but cannot
// be selected.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

type menuKeys struct {
	up, down, choose key.Binding
}

var menuKeyMap = menuKeys{
	up:     key.NewBinding(key.WithKeys("up", "k")),
	down:   key.NewBinding(key.WithKeys("down", "j")),
	choose: key.NewBinding(key.WithKeys("enter", "space")),
}

// Menu is the list of actions under a summary. Items can also be run
// by their number.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.next(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

func (m Menu) enabled(i int) bool {
	return i >= 0 && i < len(m.Items) && !m.Items[i].Disabled
}

// next finds the nearest enabled item after Selected in direction dir.
func (m Menu) next(dir int) int {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if m.enabled(i) {
			return i
		}
	}
	return m.Selected
}

func (m Menu) run(i int) tea.Cmd {
	if !m.enabled(i) || m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, menuKeyMap.up):
		m.Selected = m.next(-1)
	case key.Matches(k, menuKeyMap.down):
		m.Selected = m.next(1)
	case key.Matches(k, menuKeyMap.choose):
		return m, m.run(m.Selected)
	default:
		if s := k.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); m.enabled(i) {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		line := fmt.Sprintf("%d. %s", i+1, item.Label)
		switch {
		case item.Disabled:
			b.WriteString(theme.Hint.Render("    " + line))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + line))
		default:
			b.WriteString(theme.Unselected.Render("    " + line))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
