package questiongen

import (
	"fmt"
	"strings"
	"unicode"
)

// buildDedup formats prior questions for the prompt, keeping the most
// recent max entries. Returns "None" if there are none.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}

	if max > 0 && len(priorQuestions) > max {
		priorQuestions = priorQuestions[len(priorQuestions)-max:]
	}

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(q, 160))
	}
	return strings.TrimRight(b.String(), "\n")
}

// normalizeStem lowercases a stem and collapses punctuation and spacing so
// trivially reworded duplicates compare equal.
func normalizeStem(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
