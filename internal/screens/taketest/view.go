package taketest

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/session"
	"github.com/jeeace/jeeace/internal/ui/components"
	"github.com/jeeace/jeeace/internal/ui/layout"
	"github.com/jeeace/jeeace/internal/ui/theme"
)

// paletteWidth is the space reserved for the question palette column.
const paletteWidth = 26

func (s *Screen) View(width, height int) string {
	switch {
	case s.err != nil:
		return renderError(width, s.err)
	case s.sess == nil:
		return centered(width, "\n\n"+s.spinner.View()+" Loading test...")
	case s.mode == modeConfirm:
		return "\n\n" + s.confirm.View(width)
	}

	snap := s.sess.Snapshot()
	if snap.Phase == session.PhaseSubmitting || snap.Phase == session.PhaseCompleted {
		return s.renderSubmitting(width, snap)
	}

	var b strings.Builder
	if snap.WarningVisible {
		banner := theme.Banner.Render(fmt.Sprintf("Only %s left. Review your answers and submit.", session.FormatClock(snap.Remaining)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, banner))
		b.WriteString("\n")
	}

	mainWidth := width - 4
	showPalette := layout.IsWide(width)
	if showPalette {
		mainWidth = width - paletteWidth - 6
	}

	main := s.renderQuestion(mainWidth, snap)
	if showPalette {
		side := lipgloss.NewStyle().
			Width(paletteWidth).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.Border).
			PaddingLeft(1).
			Render(s.renderPalette(snap))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  "+main, "  ", side))
	} else {
		b.WriteString(indent(main))
		b.WriteString("\n")
		b.WriteString(indent(progressLine(snap)))
	}

	b.WriteString("\n\n")
	if s.mode == modeJump {
		b.WriteString("  " + s.jump.View())
		b.WriteString("\n")
	}
	if s.help.ShowAll {
		s.help.SetWidth(width - 4)
		b.WriteString(indent(s.help.View(s.keys)))
	}
	return b.String()
}

func (s *Screen) renderQuestion(width int, snap session.Snapshot) string {
	q := s.test.Questions[snap.Current]

	var b strings.Builder
	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", snap.Current+1, snap.Total))
	if q.Subject != "" {
		info += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ·  " + q.Subject)
	}
	if snap.Current < len(snap.Marked) && snap.Marked[snap.Current] {
		info += "  " + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("⚑ marked for review")
	}
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0))))
	b.WriteString("\n\n")

	stem := lipgloss.NewStyle().Width(width).Foreground(theme.Text).Bold(true).
		Render(components.RenderMath(q.Question))
	b.WriteString(stem)
	b.WriteString("\n\n")

	if q.ImageCaption != "" {
		b.WriteString(theme.Hint.Render("[figure] " + q.ImageCaption))
		b.WriteString("\n\n")
	}

	b.WriteString(s.options.View(width))
	return b.String()
}

func (s *Screen) renderPalette(snap session.Snapshot) string {
	p := components.NewQuestionPalette(snap.Current, snap.Answers, snap.Marked)
	return progressLine(snap) + "\n\n" + p.View()
}

func progressLine(snap session.Snapshot) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Answered %d/%d  ·  Review %d", snap.AnsweredCount, snap.Total, snap.MarkedCount))
}

func (s *Screen) renderSubmitting(width int, snap session.Snapshot) string {
	if snap.SubmitErr == nil {
		return centered(width, "\n\n"+s.spinner.View()+" Submitting your answers...")
	}
	msg := theme.Incorrect.Render("Submission failed") + "\n\n" +
		theme.Body.Render(snap.SubmitErr.Error()) + "\n\n" +
		theme.Hint.Render("Your answers are kept. Press r to try again.")
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(msg))
}

func renderError(width int, err error) string {
	msg := err.Error()
	switch {
	case session.NeedsCreate(err):
		msg = "No test is ready to take.\n\nCreate one first with `jeeace create`."
	case errors.Is(err, session.ErrUnauthenticated):
		msg = "Not signed in.\n\nSet user-id or session-token, or run `jeeace take --offline`."
	}
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Render(theme.Incorrect.Render("Cannot start the test")+"\n\n"+theme.Body.Render(msg)))
}

func centered(width int, s string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Render(s)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

func confirmDetail(snap session.Snapshot) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d of %d questions answered.", snap.AnsweredCount, snap.Total))
	if n := snap.Unanswered(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unanswered.", n))
	}
	if snap.MarkedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d marked for review.", snap.MarkedCount))
	}
	parts = append(parts, "Time left "+session.FormatClock(snap.Remaining)+".")
	return strings.Join(parts, " ")
}
