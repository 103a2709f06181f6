package components

import (
	"strings"

	"github.com/jeeace/jeeace/internal/mathtext"
	"github.com/jeeace/jeeace/internal/ui/theme"
)

// MathRenderer highlights math segments with theme.Math. Inline math keeps
// its place in the sentence; block math gets its own line.
var MathRenderer mathtext.Renderer = mathtext.RenderFunc(renderMath)

func renderMath(segs []mathtext.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		switch seg.Kind {
		case mathtext.Inline:
			b.WriteString(theme.Math.Render(seg.Text))
		case mathtext.Block:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			b.WriteString("    ")
			b.WriteString(theme.Math.Render(strings.TrimSpace(seg.Text)))
			b.WriteByte('\n')
		default:
			b.WriteString(seg.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderMath renders s with MathRenderer.
func RenderMath(s string) string {
	return mathtext.Render(MathRenderer, s)
}
