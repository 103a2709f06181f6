package questiongen

import (
	"strings"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// Length limits for generated text.
const (
	maxStemLen   = 1000
	maxOptionLen = 300
)

// StructuralValidator checks that a question has a stem, four distinct
// non-empty options and an answer letter in A-D.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *testconfig.Question, _ GenerateInput) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	if strings.TrimSpace(q.Question) == "" {
		return fail("question is empty")
	}
	if len(q.Question) > maxStemLen {
		return fail("question exceeds 1000 characters")
	}
	if len(q.Options) != testconfig.OptionsPerQuestion {
		return fail("question must have exactly 4 options")
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" {
			return fail("option is empty")
		}
		if len(o) > maxOptionLen {
			return fail("option exceeds 300 characters")
		}
		if seen[key] {
			return fail("options must be distinct")
		}
		seen[key] = true
	}
	idx := testconfig.OptionIndex(q.Answer)
	if idx < 0 || idx >= testconfig.OptionsPerQuestion {
		return fail(`answer must be one of "A", "B", "C", "D"`)
	}
	return nil
}

// DedupValidator rejects questions whose stem repeats a prior question.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(q *testconfig.Question, input GenerateInput) *ValidationError {
	stem := normalizeStem(q.Question)
	for _, p := range input.PriorQuestions {
		if normalizeStem(p) == stem {
			return &ValidationError{Validator: v.Name(), Message: "duplicate of an earlier question"}
		}
	}
	return nil
}
