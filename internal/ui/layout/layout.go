// Package layout draws the frame around the active screen: a header with
// the app name, screen title and status, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/ui/theme"
)

// Minimum terminal size, and the width from which screens may use a side
// column.
const (
	MinWidth  = 80
	MinHeight = 24
	WideWidth = 100
)

const appName = "JEE Ace"

// KeyHint is one entry of the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HintsFromBindings lists the enabled bindings as hints.
func HintsFromBindings(bindings ...key.Binding) []KeyHint {
	hints := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if b.Enabled() {
			hints = append(hints, KeyHint{Key: b.Help().Key, Description: b.Help().Desc})
		}
	}
	return hints
}

// IsWide reports whether width leaves room for a side column.
func IsWide(width int) bool { return width >= WideWidth }

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("The test needs a larger terminal.\n\nResize to at least %d x %d (now %d x %d).",
			MinWidth, MinHeight, width, height))
}

// Chrome is everything drawn around a screen's own content.
type Chrome struct {
	Title  string
	Status string
	Hints  []KeyHint
}

// Render draws the frame at width x height. body is called with the size
// left between header and footer.
func (c Chrome) Render(width, height int, body func(w, h int) string) string {
	header := c.header(width)
	footer := c.footer(width)
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(h).MaxHeight(h).Render(body(width, h))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (c Chrome) header(width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + appName)
	title := lipgloss.NewStyle().Foreground(theme.Text).Render(c.Title)

	// Center the title in the bar; the status takes what is left on the right.
	inner := max(width-4, 0)
	nameW, titleW, statusW := lipgloss.Width(name), lipgloss.Width(title), lipgloss.Width(c.Status)
	gapL := max((inner-titleW)/2-nameW, 1)
	gapR := max(inner-nameW-gapL-titleW-statusW, 1)

	return box(width).Render(name + strings.Repeat(" ", gapL) + title + strings.Repeat(" ", gapR) + c.Status)
}

func (c Chrome) footer(width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(c.Hints))
	for i, h := range c.Hints {
		parts[i] = keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
	}
	return box(width).Render("  " + strings.Join(parts, "   "))
}

func box(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
