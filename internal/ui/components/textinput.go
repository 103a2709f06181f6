package components

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/ui/theme"
)

// ErrOutOfRange is returned by NumberInput.Number for values outside
// [Min, Max].
var ErrOutOfRange = errors.New("out of range")

// NumberInput wraps bubbles/textinput to accept a whole number in a range,
// such as a question number to jump to.
type NumberInput struct {
	Model textinput.Model
	Min   int
	Max   int
	err   error
}

// NewNumberInput creates a focused input for values in [lo, hi].
func NewNumberInput(prompt string, lo, hi int) NumberInput {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = fmt.Sprintf("%d-%d", lo, hi)
	ti.CharLimit = len(strconv.Itoa(hi))
	ti.SetWidth(ti.CharLimit + 2)
	ti.Focus()

	return NumberInput{Model: ti, Min: lo, Max: hi}
}

// Init returns the cursor blink command.
func (n NumberInput) Init() tea.Cmd {
	return n.Model.Focus()
}

// Update drops non-digit runes and forwards everything else.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		k := kmsg.String()
		if len(k) == 1 && (k[0] < '0' || k[0] > '9') {
			return n, nil
		}
		n.err = nil
	}

	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

// Number parses the value and checks the range. The error is also shown
// by View until the next keystroke.
func (n *NumberInput) Number() (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(n.Model.Value()))
	switch {
	case err != nil:
		n.err = fmt.Errorf("enter a number between %d and %d", n.Min, n.Max)
	case v < n.Min || v > n.Max:
		n.err = fmt.Errorf("%w: %d is not between %d and %d", ErrOutOfRange, v, n.Min, n.Max)
	default:
		n.err = nil
		return v, nil
	}
	return 0, n.err
}

// View renders the input and any validation error.
func (n NumberInput) View() string {
	view := n.Model.View()
	if n.err != nil {
		view += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+n.err.Error())
	}
	return view
}
