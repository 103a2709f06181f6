package session

import (
	"errors"
	"sort"

	"github.com/jeeace/jeeace/internal/testconfig"
)

var (
	// ErrIndexOutOfRange is returned for a question index outside the test.
	ErrIndexOutOfRange = errors.New("question index out of range")

	// ErrInvalidOption is returned for an option code the question does not have.
	ErrInvalidOption = errors.New("invalid option code")
)

// Ledger maps question index to the selected option code. Entries exist only
// for questions the user answered.
type Ledger struct {
	optionCounts []int
	answers      map[int]string
}

// NewLedger creates an empty ledger for questions.
func NewLedger(questions []testconfig.Question) *Ledger {
	counts := make([]int, len(questions))
	for i, q := range questions {
		counts[i] = len(q.Options)
	}
	return &Ledger{optionCounts: counts, answers: make(map[int]string)}
}

// Select records code for index, replacing any earlier choice.
func (l *Ledger) Select(index int, code string) error {
	if index < 0 || index >= len(l.optionCounts) {
		return ErrIndexOutOfRange
	}
	opt := testconfig.OptionIndex(code)
	if opt < 0 || opt >= l.optionCounts[index] || opt >= testconfig.OptionsPerQuestion {
		return ErrInvalidOption
	}
	l.answers[index] = testconfig.OptionCode(opt)
	return nil
}

// Clear removes the selection for index. No-op when absent.
func (l *Ledger) Clear(index int) {
	delete(l.answers, index)
}

// Answer returns the selection for index.
func (l *Ledger) Answer(index int) (string, bool) {
	a, ok := l.answers[index]
	return a, ok
}

// AnsweredCount returns the number of questions with a selection.
func (l *Ledger) AnsweredCount() int {
	return len(l.answers)
}

// Answers returns one entry per question, "" where unanswered.
func (l *Ledger) Answers() []string {
	out := make([]string, len(l.optionCounts))
	for i, a := range l.answers {
		out[i] = a
	}
	return out
}

// AnsweredIndices returns the answered indices in ascending order.
func (l *Ledger) AnsweredIndices() []int {
	out := make([]int, 0, len(l.answers))
	for i := range l.answers {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// ReviewMarks flags questions for later review, independently of answers.
type ReviewMarks struct {
	n     int
	marks map[int]bool
}

// NewReviewMarks creates marks for n questions.
func NewReviewMarks(n int) *ReviewMarks {
	return &ReviewMarks{n: n, marks: make(map[int]bool)}
}

// Toggle flips the mark on index and returns the new state.
func (r *ReviewMarks) Toggle(index int) (bool, error) {
	if index < 0 || index >= r.n {
		return false, ErrIndexOutOfRange
	}
	if r.marks[index] {
		delete(r.marks, index)
		return false, nil
	}
	r.marks[index] = true
	return true, nil
}

func (r *ReviewMarks) IsMarked(index int) bool { return r.marks[index] }

func (r *ReviewMarks) Count() int { return len(r.marks) }

// Slice returns one flag per question.
func (r *ReviewMarks) Slice() []bool {
	out := make([]bool, r.n)
	for i := range r.marks {
		out[i] = true
	}
	return out
}
