// Package app runs the terminal UI: a router of screens drawn inside the
// layout chrome.
package app

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/jeeace/jeeace/internal/router"
	"github.com/jeeace/jeeace/internal/screen"
	"github.com/jeeace/jeeace/internal/ui/layout"
)

var (
	quitHint = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	backHint = layout.KeyHint{Key: "Esc", Description: "Back"}
)

// Model is the root Bubble Tea model.
type Model struct {
	screens       *router.Router
	width, height int
}

func New(root screen.Screen) Model {
	return Model{screens: router.New(root)}
}

func (m Model) Init() tea.Cmd {
	if s := m.screens.Active(); s != nil {
		return s.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			m.screens.Close()
			return m, tea.Quit
		case "esc":
			if m.screens.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}
	return m, m.screens.Update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		v.SetContent(m.chrome().Render(m.width, m.height, m.screens.View))
	}
	return v
}

// chrome collects the header and footer content from the active screen.
func (m Model) chrome() layout.Chrome {
	c := layout.Chrome{Hints: []layout.KeyHint{quitHint}}
	if m.screens.Depth() > 1 {
		c.Hints = []layout.KeyHint{backHint, quitHint}
	}
	s := m.screens.Active()
	if s == nil {
		return c
	}
	c.Title = s.Title()
	if sp, ok := s.(screen.StatusProvider); ok {
		c.Status = sp.Status()
	}
	if kp, ok := s.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); hints != nil {
			c.Hints = hints
		}
	}
	return c
}

// Run shows root until the user quits or ctx is cancelled.
func Run(ctx context.Context, root screen.Screen) error {
	m := New(root)
	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	m.screens.Close()
	if errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
