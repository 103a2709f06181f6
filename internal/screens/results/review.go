package results

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/screen"
	"github.com/jeeace/jeeace/internal/session"
	"github.com/jeeace/jeeace/internal/testconfig"
	"github.com/jeeace/jeeace/internal/ui/components"
	"github.com/jeeace/jeeace/internal/ui/layout"
	"github.com/jeeace/jeeace/internal/ui/theme"
)

// Filter limits which questions the review walks through.
type Filter int

const (
	FilterAll Filter = iota
	FilterIncorrect
	FilterUnattempted
)

func (f Filter) String() string {
	switch f {
	case FilterIncorrect:
		return "incorrect"
	case FilterUnattempted:
		return "unattempted"
	default:
		return "all"
	}
}

var reviewKeys = struct {
	Next, Prev, Filter key.Binding
}{
	Next:   key.NewBinding(key.WithKeys("right", "n", "l"), key.WithHelp("→/n", "next")),
	Prev:   key.NewBinding(key.WithKeys("left", "p", "h"), key.WithHelp("←/p", "prev")),
	Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
}

// Review steps through each question showing the chosen and correct option.
type Review struct {
	test    *testconfig.TestConfiguration
	answers []string
	details []evaluator.Detail
	filter  Filter
	visible []int // question indices passing the filter
	pos     int
}

var (
	_ screen.Screen          = (*Review)(nil)
	_ screen.KeyHintProvider = (*Review)(nil)
)

// NewReview creates a review of outcome over test.
func NewReview(test *testconfig.TestConfiguration, outcome *session.Outcome) *Review {
	r := &Review{test: test, answers: outcome.Answers}
	if outcome.Result != nil {
		r.details = outcome.Result.Details
	}
	r.applyFilter(FilterAll)
	return r
}

func (r *Review) Init() tea.Cmd { return nil }

func (r *Review) Title() string { return "Review" }

func (r *Review) KeyHints() []layout.KeyHint {
	hints := layout.HintsFromBindings(reviewKeys.Next, reviewKeys.Prev, reviewKeys.Filter)
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Current returns the index of the displayed question, or -1 when the
// filter matches nothing.
func (r *Review) Current() int {
	if len(r.visible) == 0 {
		return -1
	}
	return r.visible[r.pos]
}

func (r *Review) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch {
	case key.Matches(kmsg, reviewKeys.Next):
		if r.pos < len(r.visible)-1 {
			r.pos++
		}
	case key.Matches(kmsg, reviewKeys.Prev):
		if r.pos > 0 {
			r.pos--
		}
	case key.Matches(kmsg, reviewKeys.Filter):
		r.applyFilter((r.filter + 1) % 3)
	}
	return r, nil
}

func (r *Review) applyFilter(f Filter) {
	r.filter = f
	r.visible = r.visible[:0]
	for i := range r.test.Questions {
		d, ok := r.detail(i)
		switch f {
		case FilterIncorrect:
			if !ok || !d.Attempted() || d.IsCorrect {
				continue
			}
		case FilterUnattempted:
			if ok && d.Attempted() {
				continue
			}
		}
		r.visible = append(r.visible, i)
	}
	r.pos = 0
}

func (r *Review) detail(i int) (evaluator.Detail, bool) {
	if i < len(r.details) {
		return r.details[i], true
	}
	return evaluator.Detail{}, false
}

// correctIndex prefers the evaluator's verdict and falls back to the answer
// carried by the question.
func (r *Review) correctIndex(i int) int {
	if d, ok := r.detail(i); ok && d.CorrectAnswer != "" {
		return testconfig.OptionIndex(d.CorrectAnswer)
	}
	if a := r.test.Questions[i].Answer; a != "" {
		return testconfig.OptionIndex(a)
	}
	return -1
}

func (r *Review) View(width, height int) string {
	inner := width - 6
	header := theme.Hint.Render(fmt.Sprintf("Showing %s questions", r.filter))

	idx := r.Current()
	if idx < 0 {
		return "\n  " + header + "\n\n  " + theme.Body.Render("Nothing to show. Press f to change the filter.")
	}

	q := r.test.Questions[idx]
	chosen := -1
	if idx < len(r.answers) && r.answers[idx] != "" {
		chosen = testconfig.OptionIndex(r.answers[idx])
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", idx+1, len(r.test.Questions))))
	if q.Subject != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ·  " + q.Subject))
	}
	b.WriteString("   ")
	b.WriteString(r.verdict(idx))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Bold(true).Foreground(theme.Text).
		Render(components.RenderMath(q.Question)))
	b.WriteString("\n\n")
	b.WriteString(components.NewReviewList(q.Options, chosen, r.correctIndex(idx)).View(inner))

	if q.SourceText != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(inner).Render(q.SourceText))
	}
	return indent(b.String())
}

func (r *Review) verdict(i int) string {
	d, ok := r.detail(i)
	switch {
	case !ok || !d.Attempted():
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ unattempted")
	case d.IsCorrect:
		return theme.Correct.Render("✓ correct " + signed(d.Marks))
	default:
		return theme.Incorrect.Render("✗ incorrect " + signed(d.Marks))
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
