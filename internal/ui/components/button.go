package components

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/ui/theme"
)

// Button is a styled button component.
type Button struct {
	Label   string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Press runs OnPress.
func (b Button) Press() tea.Cmd {
	if b.OnPress == nil {
		return nil
	}
	return b.OnPress()
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

var (
	confirmSwitch = key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"))
	confirmPress  = key.NewBinding(key.WithKeys("enter"))
	confirmYes    = key.NewBinding(key.WithKeys("y", "Y"))
	confirmNo     = key.NewBinding(key.WithKeys("n", "N", "esc"))
)

// Confirm is a yes/no dialog built from two buttons. The "no" button has
// focus initially.
type Confirm struct {
	Prompt string
	Detail string
	Yes    Button
	No     Button
}

// NewConfirm creates a dialog whose buttons run onYes and onNo.
func NewConfirm(prompt, detail, yes, no string, onYes, onNo func() tea.Cmd) Confirm {
	return Confirm{
		Prompt: prompt,
		Detail: detail,
		Yes:    NewButton(yes, false, onYes),
		No:     NewButton(no, true, onNo),
	}
}

// Update switches focus and presses buttons. y and n act directly.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch {
	case key.Matches(kmsg, confirmYes):
		return c, c.Yes.Press()
	case key.Matches(kmsg, confirmNo):
		return c, c.No.Press()
	case key.Matches(kmsg, confirmSwitch):
		c.Yes.Active, c.No.Active = !c.Yes.Active, !c.No.Active
	case key.Matches(kmsg, confirmPress):
		if c.Yes.Active {
			return c, c.Yes.Press()
		}
		return c, c.No.Press()
	}
	return c, nil
}

// View renders the dialog as a card.
func (c Confirm) View(width int) string {
	body := theme.Body.Bold(true).Render(c.Prompt)
	if c.Detail != "" {
		body += "\n\n" + theme.Body.Render(c.Detail)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, c.Yes.View(), "   ", c.No.View())
	card := theme.Card.Width(min(width-4, 60)).Render(body + "\n\n" + buttons)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
