// Package grading scores submissions against answer keys.
package grading

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/testconfig"
)

var (
	// ErrInvalidInput is returned for empty or misaligned submissions.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownScheme is returned by SchemeByName for unrecognized names.
	ErrUnknownScheme = errors.New("unknown marking scheme")
)

// JEE awards +4 for a correct answer, -1 for a wrong one and 0 when skipped.
var JEE = evaluator.MarkingScheme{Name: "jee", Correct: 4, Incorrect: -1, Unattempted: 0}

// Simple awards one point per correct answer.
var Simple = evaluator.MarkingScheme{Name: "simple", Correct: 1, Incorrect: 0, Unattempted: 0}

// SchemeByName resolves a configured scheme name.
func SchemeByName(name string) (evaluator.MarkingScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "jee":
		return JEE, nil
	case "simple":
		return Simple, nil
	default:
		return evaluator.MarkingScheme{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

// Evaluate scores userAnswers against each question's Answer. The two slices
// must be non-empty and of equal length.
func Evaluate(questions []testconfig.Question, userAnswers []string, scheme evaluator.MarkingScheme) (*evaluator.Result, error) {
	if len(questions) == 0 || len(questions) != len(userAnswers) {
		return nil, ErrInvalidInput
	}

	res := &evaluator.Result{
		Total:         len(questions),
		MaxScore:      scheme.Correct * float64(len(questions)),
		Details:       make([]evaluator.Detail, len(questions)),
		MarkingScheme: &scheme,
	}

	for i, q := range questions {
		correct := strings.ToUpper(strings.TrimSpace(q.Answer))
		given := strings.ToUpper(strings.TrimSpace(userAnswers[i]))

		d := evaluator.Detail{
			Question:      q.Question,
			Subject:       q.Subject,
			CorrectAnswer: correct,
			UserAnswer:    given,
		}
		switch {
		case given == "":
			d.Marks = scheme.Unattempted
			res.UnattemptedCount++
		case given == correct:
			d.IsCorrect = true
			d.Marks = scheme.Correct
			res.CorrectCount++
		default:
			d.Marks = scheme.Incorrect
			res.IncorrectCount++
		}
		res.Score += d.Marks
		res.Details[i] = d
	}

	pct := 0.0
	if res.MaxScore > 0 {
		pct = round2(res.Score / res.MaxScore * 100)
	}
	res.Percentage = evaluator.NewPercent(pct)
	return res, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Local scores submissions in process. It satisfies the session evaluator
// when no API server is used.
type Local struct {
	Scheme evaluator.MarkingScheme
}

func (l Local) Evaluate(_ context.Context, req evaluator.EvaluateRequest) (*evaluator.Result, error) {
	return Evaluate(req.Questions, req.UserAnswers, l.Scheme)
}
