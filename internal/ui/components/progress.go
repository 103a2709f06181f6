package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/ui/theme"
)

// ProgressBar draws a fraction between 0 and 1 as a filled bar, such as
// the share of a subject answered correctly.
type ProgressBar struct {
	Label       string
	LabelWidth  int // pad Label to this width so stacked bars align
	Percent     float64
	ShowPercent bool
	Width       int         // whole line including label and percent
	Fill        color.Color // defaults to theme.Secondary
}

const percentCols = 6

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		pad := max(p.LabelWidth-lipgloss.Width(p.Label), 0)
		b.WriteString(theme.Body.Render(p.Label + strings.Repeat(" ", pad)))
		b.WriteString("  ")
	}

	cols := p.Width - lipgloss.Width(b.String())
	if p.ShowPercent {
		cols -= percentCols
	}
	cols = max(cols, 4)
	on := min(max(int(p.Percent*float64(cols)), 0), cols)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	b.WriteString(cells(on, fill))
	b.WriteString(cells(cols-on, theme.Border))

	if p.ShowPercent {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%*d%%", percentCols-1, int(p.Percent*100+0.5))))
	}
	return b.String()
}

func cells(n int, c color.Color) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(c).Render(strings.Repeat(" ", n))
}

// ScoreColor maps a percentage to success (70 and up), warning (40 and
// up) or error.
func ScoreColor(percent float64) color.Color {
	if percent >= 70 {
		return theme.Success
	}
	if percent >= 40 {
		return theme.Warning
	}
	return theme.Error
}
