package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/ui/theme"
)

// QuestionPalette is the grid of question numbers showing which are
// answered, marked for review, and current.
type QuestionPalette struct {
	Current  int
	Answered []bool
	Marked   []bool
	Columns  int
}

// NewQuestionPalette builds a palette from the answer codes and review marks
// of a session snapshot.
func NewQuestionPalette(current int, answers []string, marked []bool) QuestionPalette {
	answered := make([]bool, len(answers))
	for i, a := range answers {
		answered[i] = a != ""
	}
	return QuestionPalette{
		Current:  current,
		Answered: answered,
		Marked:   marked,
		Columns:  5,
	}
}

// CellState classifies one cell.
type CellState int

const (
	CellUnanswered CellState = iota
	CellAnswered
	CellMarked
	CellAnsweredMarked
)

// State returns the state of cell i.
func (p QuestionPalette) State(i int) CellState {
	answered := i < len(p.Answered) && p.Answered[i]
	marked := i < len(p.Marked) && p.Marked[i]
	switch {
	case answered && marked:
		return CellAnsweredMarked
	case marked:
		return CellMarked
	case answered:
		return CellAnswered
	default:
		return CellUnanswered
	}
}

func cellStyle(s CellState) lipgloss.Style {
	base := lipgloss.NewStyle().Width(4).Align(lipgloss.Center)
	switch s {
	case CellAnswered:
		return base.Foreground(theme.Success).Bold(true)
	case CellMarked:
		return base.Foreground(theme.Warning).Bold(true)
	case CellAnsweredMarked:
		return base.Foreground(theme.Accent).Bold(true).Underline(true)
	default:
		return base.Foreground(theme.TextDim)
	}
}

// View renders the grid followed by a legend.
func (p QuestionPalette) View() string {
	cols := max(p.Columns, 1)
	n := len(p.Answered)

	var rows []string
	for start := 0; start < n; start += cols {
		var cells []string
		for i := start; i < min(start+cols, n); i++ {
			label := fmt.Sprintf("%d", i+1)
			st := cellStyle(p.State(i))
			if i == p.Current {
				label = "[" + label + "]"
				st = st.Reverse(true)
			}
			cells = append(cells, st.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	legend := strings.Join([]string{
		cellStyle(CellAnswered).UnsetWidth().Render("■") + " answered",
		cellStyle(CellMarked).UnsetWidth().Render("■") + " review",
		cellStyle(CellAnsweredMarked).UnsetWidth().Render("■") + " both",
	}, "  ")

	return strings.Join(rows, "\n") + "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(legend)
}
