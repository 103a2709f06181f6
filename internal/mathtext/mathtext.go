// Package mathtext splits question text into plain and math segments.
//
// Recognized delimiters: $$...$$ and \[...\] for block math, $...$ and
// \(...\) for inline math. A backslash-escaped dollar (\$) is literal. An
// opening delimiter without a matching close is treated as plain text.
package mathtext

import "strings"

// Kind classifies a segment.
type Kind int

const (
	Plain Kind = iota
	Inline
	Block
)

func (k Kind) String() string {
	switch k {
	case Inline:
		return "inline"
	case Block:
		return "block"
	default:
		return "plain"
	}
}

// Segment is a run of text. For math segments Text excludes the delimiters
// and Raw keeps them.
type Segment struct {
	Kind Kind
	Text string
	Raw  string
}

type delim struct {
	open, close string
	kind        Kind
}

// Longer openers first so "$$" is not read as two inline "$".
var delims = []delim{
	{"$$", "$$", Block},
	{`\[`, `\]`, Block},
	{`\(`, `\)`, Inline},
	{"$", "$", Inline},
}

// Split breaks s into segments. Concatenating every Raw reproduces s, except
// that \$ is unescaped to $.
func Split(s string) []Segment {
	var (
		out   []Segment
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() > 0 {
			out = append(out, Segment{Kind: Plain, Text: plain.String(), Raw: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], `\$`) {
			plain.WriteByte('$')
			i += 2
			continue
		}

		matched := false
		for _, d := range delims {
			if !strings.HasPrefix(s[i:], d.open) {
				continue
			}
			start := i + len(d.open)
			end := findClose(s, start, d.close)
			if end < 0 || (d.kind == Inline && end == start) {
				break
			}
			flush()
			out = append(out, Segment{Kind: d.kind, Text: s[start:end], Raw: s[i : end+len(d.close)]})
			i = end + len(d.close)
			matched = true
			break
		}
		if matched {
			continue
		}

		plain.WriteByte(s[i])
		i++
	}
	flush()
	return out
}

// findClose returns the index of the first unescaped close at or after from,
// or -1.
func findClose(s string, from int, close string) int {
	for j := from; j+len(close) <= len(s); j++ {
		if close == "$" && j > 0 && s[j-1] == '\\' {
			continue
		}
		if strings.HasPrefix(s[j:], close) {
			if close == "$" && strings.HasPrefix(s[j:], "$$") {
				return -1
			}
			return j
		}
	}
	return -1
}

// HasMath reports whether s contains at least one math segment.
func HasMath(s string) bool {
	for _, seg := range Split(s) {
		if seg.Kind != Plain {
			return true
		}
	}
	return false
}

// Renderer formats segments for display.
type Renderer interface {
	Render(segs []Segment) string
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(segs []Segment) string

func (f RenderFunc) Render(segs []Segment) string { return f(segs) }

// PassThrough renders s unmodified, apart from \$ unescaping. It is the
// renderer used when nothing better is available.
var PassThrough Renderer = RenderFunc(func(segs []Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg.Raw)
	}
	return b.String()
})

// Render splits s and renders it with r. A nil r uses PassThrough.
func Render(r Renderer, s string) string {
	if r == nil {
		r = PassThrough
	}
	return r.Render(Split(s))
}
