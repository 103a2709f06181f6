package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/testconfig"
	"github.com/jeeace/jeeace/internal/ui/theme"
)

// OptionChosenMsg is emitted when the user picks an option.
type OptionChosenMsg struct {
	Index int
}

// OptionKeyMap holds the bindings the option list reacts to.
type OptionKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
}

// DefaultOptionKeys moves with the arrows or j/k and picks with enter or space.
// Digits 1-4 and letters a-d pick directly.
var DefaultOptionKeys = OptionKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "choose")),
}

// OptionList renders the lettered choices of one question. In review mode it
// is read-only and marks the correct and chosen options.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int // -1 when nothing is selected
	Correct int // -1 when unknown
	Review  bool
	Keys    OptionKeyMap
}

// NewOptionList creates a list with the cursor on the chosen option, or the
// first one when nothing is chosen.
func NewOptionList(options []string, chosen int) OptionList {
	cursor := max(chosen, 0)
	return OptionList{
		Options: options,
		Cursor:  cursor,
		Chosen:  chosen,
		Correct: -1,
		Keys:    DefaultOptionKeys,
	}
}

// NewReviewList creates a read-only list that reveals the correct option.
func NewReviewList(options []string, chosen, correct int) OptionList {
	o := NewOptionList(options, chosen)
	o.Correct = correct
	o.Review = true
	return o
}

// Update moves the cursor and emits OptionChosenMsg on a pick.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Review {
		return o, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch {
	case key.Matches(kmsg, o.Keys.Up):
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, nil
	case key.Matches(kmsg, o.Keys.Down):
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, nil
	case key.Matches(kmsg, o.Keys.Choose):
		return o.choose(o.Cursor)
	}

	if i := directIndex(kmsg.String()); i >= 0 && i < len(o.Options) {
		return o.choose(i)
	}
	return o, nil
}

func (o OptionList) choose(i int) (OptionList, tea.Cmd) {
	o.Cursor = i
	o.Chosen = i
	return o, func() tea.Msg { return OptionChosenMsg{Index: i} }
}

// directIndex maps "1".."4" and "a".."d" to an option index.
func directIndex(k string) int {
	if len(k) != 1 {
		return -1
	}
	c := k[0]
	switch {
	case c >= '1' && c <= '4':
		return int(c - '1')
	case c >= 'a' && c <= 'd':
		return int(c - 'a')
	}
	return -1
}

// View renders the options, wrapping text to width.
func (o OptionList) View(width int) string {
	var b strings.Builder
	textWidth := max(width-8, 10)

	for i, opt := range o.Options {
		pointer := "  "
		if i == o.Cursor && !o.Review {
			pointer = "▸ "
		}
		mark := " "
		if i == o.Chosen {
			mark = "●"
		}
		label := fmt.Sprintf("%s%s %s. ", pointer, mark, testconfig.OptionCode(i))
		body := lipgloss.NewStyle().Width(textWidth).Render(RenderMath(opt))

		line := lipgloss.JoinHorizontal(lipgloss.Top, label, body)
		b.WriteString(o.style(i).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (o OptionList) style(i int) lipgloss.Style {
	if o.Review {
		switch {
		case i == o.Correct:
			return theme.Correct
		case i == o.Chosen:
			return theme.Incorrect
		default:
			return lipgloss.NewStyle().Foreground(theme.TextDim)
		}
	}
	switch {
	case i == o.Cursor:
		return theme.Selected
	case i == o.Chosen:
		return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	default:
		return theme.Unselected
	}
}
