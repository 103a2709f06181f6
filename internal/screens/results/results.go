// Package results shows the score of a completed test and lets the user
// review every answer.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/router"
	"github.com/jeeace/jeeace/internal/screen"
	"github.com/jeeace/jeeace/internal/session"
	"github.com/jeeace/jeeace/internal/testconfig"
	"github.com/jeeace/jeeace/internal/ui/components"
	"github.com/jeeace/jeeace/internal/ui/layout"
	"github.com/jeeace/jeeace/internal/ui/theme"
)

// Screen displays the summary of a completed test.
type Screen struct {
	test    *testconfig.TestConfiguration
	outcome *session.Outcome
	summary *session.Summary
	menu    components.Menu
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New builds the summary of outcome. marked is the number of questions
// still marked for review at submission.
func New(test *testconfig.TestConfiguration, outcome *session.Outcome, marked int) *Screen {
	s := &Screen{
		test:    test,
		outcome: outcome,
		summary: session.BuildSummary(test, outcome, marked),
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Review answers", Action: s.openReview, Disabled: len(test.Questions) == 0},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

// Summary returns the figures shown on the screen.
func (s *Screen) Summary() *session.Summary { return s.summary }

func (s *Screen) openReview() tea.Cmd {
	review := NewReview(s.test, s.outcome)
	return func() tea.Msg { return router.PushScreenMsg{Screen: review} }
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Results" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	sum := s.summary
	inner := min(width-8, 72)

	var b strings.Builder
	b.WriteString(theme.Title.Width(inner).Render(s.heading()))
	b.WriteString("\n\n")

	score := lipgloss.NewStyle().Foreground(components.ScoreColor(sum.Percentage)).Bold(true).
		Render(fmt.Sprintf("%s / %s", formatMarks(sum.Score), formatMarks(sum.MaxScore)))
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center,
		score+theme.Subtitle.Render(fmt.Sprintf("   (%.1f%%)", sum.Percentage))))
	b.WriteString("\n\n")

	b.WriteString(countsLine(sum))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Time taken  %s of %s",
		session.FormatClock(sum.TimeTaken), session.FormatClock(sum.TimeLimit))))
	b.WriteString("\n")
	if sum.Scheme != nil {
		b.WriteString(theme.Hint.Render("Marking  " + describeScheme(sum.Scheme)))
		b.WriteString("\n")
	}

	if len(sum.Subjects) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Body.Bold(true).Render("By subject"))
		b.WriteString("\n")
		b.WriteString(subjectBars(sum.Subjects, inner))
	}

	b.WriteString("\n")
	b.WriteString(persistLine(sum))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Width(inner+6).Render(b.String()))
}

func (s *Screen) heading() string {
	if s.test.TestName != "" {
		return s.test.TestName + " complete"
	}
	return "Test complete"
}

func countsLine(sum *session.Summary) string {
	return theme.Correct.Render(fmt.Sprintf("✓ %d correct", sum.Correct)) + "   " +
		theme.Incorrect.Render(fmt.Sprintf("✗ %d incorrect", sum.Incorrect)) + "   " +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("○ %d unattempted", sum.Unattempted)) +
		reviewNote(sum.Marked)
}

func reviewNote(marked int) string {
	if marked == 0 {
		return ""
	}
	return "   " + lipgloss.NewStyle().Foreground(theme.Warning).Render(fmt.Sprintf("⚑ %d marked", marked))
}

func subjectBars(stats []session.SubjectStat, width int) string {
	labelWidth := 0
	for _, st := range stats {
		labelWidth = max(labelWidth, lipgloss.Width(st.Subject))
	}

	var b strings.Builder
	for _, st := range stats {
		frac := 0.0
		if st.Total > 0 {
			frac = float64(st.Correct) / float64(st.Total)
		}
		bar := components.ProgressBar{
			Label:      st.Subject,
			LabelWidth: labelWidth,
			Percent:    frac,
			Width:      width - 10,
			Fill:       components.ScoreColor(frac * 100),
		}
		b.WriteString(bar.View())
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d/%d", st.Correct, st.Total)))
		b.WriteString("\n")
	}
	return b.String()
}

func persistLine(sum *session.Summary) string {
	switch {
	case sum.PersistErr != nil:
		return lipgloss.NewStyle().Foreground(theme.Warning).
			Render("Result not saved: " + sum.PersistErr.Error())
	case sum.ResultID != "":
		return theme.Hint.Render("Saved as " + sum.ResultID)
	default:
		return ""
	}
}

func describeScheme(m *evaluator.MarkingScheme) string {
	s := fmt.Sprintf("%s correct, %s incorrect, %s unattempted",
		signed(m.Correct), signed(m.Incorrect), signed(m.Unattempted))
	if m.Name != "" {
		s = m.Name + ": " + s
	}
	return s
}

func signed(f float64) string {
	if f > 0 {
		return "+" + formatMarks(f)
	}
	return formatMarks(f)
}

// formatMarks drops a zero fractional part.
func formatMarks(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
