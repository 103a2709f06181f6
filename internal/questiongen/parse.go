package questiongen

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// ErrUnparsable is returned when a text block is not a complete MCQ.
var ErrUnparsable = errors.New("not a complete multiple-choice question")

var (
	stemRe   = regexp.MustCompile(`(?s)Q:\s*(.*?)\n\s*A\.`)
	answerRe = regexp.MustCompile(`Answer:\s*([ABCD])`)
	optionRe = [4]*regexp.Regexp{
		regexp.MustCompile(`(?ms)^\s*A\.\s*(.*?)\n\s*B\.`),
		regexp.MustCompile(`(?ms)^\s*B\.\s*(.*?)\n\s*C\.`),
		regexp.MustCompile(`(?ms)^\s*C\.\s*(.*?)\n\s*D\.`),
		regexp.MustCompile(`(?ms)^\s*D\.\s*(.*?)\n\s*Answer:`),
	}
	blockSplitRe = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]\s*)?Q:`)
)

// ParseMCQText parses one question in the form
//
//	Q: stem
//	A. option
//	B. option
//	C. option
//	D. option
//	Answer: X
//
// Only the first line of each option is kept.
func ParseMCQText(s string) (testconfig.Question, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	m := stemRe.FindStringSubmatch(s)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return testconfig.Question{}, ErrUnparsable
	}
	q := testconfig.Question{Question: strings.TrimSpace(m[1])}

	for _, re := range optionRe {
		om := re.FindStringSubmatch(s)
		if om == nil {
			return testconfig.Question{}, ErrUnparsable
		}
		opt, _, _ := strings.Cut(strings.TrimSpace(om[1]), "\n")
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return testconfig.Question{}, ErrUnparsable
		}
		q.Options = append(q.Options, opt)
	}

	am := answerRe.FindStringSubmatch(s)
	if am == nil {
		return testconfig.Question{}, ErrUnparsable
	}
	q.Answer = am[1]
	return q, nil
}

// ParseMCQBatch splits text on "Q:" markers and parses each block,
// skipping blocks that do not parse.
func ParseMCQBatch(s string) []testconfig.Question {
	idx := blockSplitRe.FindAllStringIndex(s, -1)
	var out []testconfig.Question
	for i, loc := range idx {
		end := len(s)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		block := strings.TrimSpace(s[loc[0]:end])
		// Drop a leading "1." list marker so the stem pattern matches.
		if j := strings.Index(block, "Q:"); j > 0 {
			block = block[j:]
		}
		if q, err := ParseMCQText(block); err == nil {
			out = append(out, q)
		}
	}
	return out
}
