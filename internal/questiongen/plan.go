package questiongen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// Per-subject question count bounds.
const (
	DefaultPerSubject = 25
	MinPerSubject     = 5
	MaxPerSubject     = 50
)

// DefaultDuration is the preset used when none is given.
const DefaultDuration = "1hour"

// DefaultSubjects are the three JEE papers.
var DefaultSubjects = []string{"Physics", "Chemistry", "Mathematics"}

// durations maps preset names to minutes.
var durations = map[string]int{
	"15min":  15,
	"30min":  30,
	"1hour":  60,
	"3hours": 180,
}

var (
	ErrNoSubjects      = errors.New("select at least one subject")
	ErrUnknownDuration = errors.New("unknown duration")
)

// SubjectPlan is the request for a single subject.
type SubjectPlan struct {
	Subject string
	Count   int
	Topics  []string
}

// Plan describes a test to create.
type Plan struct {
	Subjects   []SubjectPlan
	TimeLimit  int // minutes
	Difficulty Difficulty
	Mode       Mode
	Name       string
}

// PlanOptions are the user-facing knobs for NewPlan.
type PlanOptions struct {
	// Subjects lists subject names; empty selects DefaultSubjects.
	Subjects []string

	// Counts overrides the per-subject count by subject name.
	Counts map[string]int

	// Duration is a preset name such as "30min". Empty uses DefaultDuration.
	Duration string

	Difficulty Difficulty
	Mode       Mode
	Topics     []string
	Name       string
}

// ClampCount keeps a per-subject count within [MinPerSubject, MaxPerSubject].
func ClampCount(n int) int {
	return max(MinPerSubject, min(n, MaxPerSubject))
}

// DurationMinutes resolves a preset name to minutes.
func DurationMinutes(name string) (int, error) {
	if name == "" {
		name = DefaultDuration
	}
	m, ok := durations[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w %q (want 15min, 30min, 1hour or 3hours)", ErrUnknownDuration, name)
	}
	return m, nil
}

// NewPlan builds a Plan from options, applying defaults and clamping counts.
func NewPlan(opts PlanOptions) (*Plan, error) {
	subjects := opts.Subjects
	if len(subjects) == 0 {
		subjects = DefaultSubjects
	}

	minutes, err := DurationMinutes(opts.Duration)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		TimeLimit:  minutes,
		Difficulty: opts.Difficulty,
		Mode:       opts.Mode,
		Name:       opts.Name,
	}
	if p.Difficulty == "" {
		p.Difficulty = DifficultyMixed
	}
	if p.Mode == "" {
		p.Mode = ModeTimed
	}

	seen := map[string]bool{}
	for _, s := range subjects {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		n := DefaultPerSubject
		if c, ok := opts.Counts[s]; ok {
			n = c
		}
		p.Subjects = append(p.Subjects, SubjectPlan{Subject: s, Count: ClampCount(n), Topics: opts.Topics})
	}
	if len(p.Subjects) == 0 {
		return nil, ErrNoSubjects
	}
	return p, nil
}

// TotalQuestions is the sum of the per-subject counts.
func (p *Plan) TotalQuestions() int {
	n := 0
	for _, s := range p.Subjects {
		n += s.Count
	}
	return n
}

// SubjectNames lists the planned subjects in order.
func (p *Plan) SubjectNames() []string {
	out := make([]string, len(p.Subjects))
	for i, s := range p.Subjects {
		out[i] = s.Subject
	}
	return out
}

// Configuration assembles a test configuration from the plan and the
// generated questions.
func (p *Plan) Configuration(questions []testconfig.Question) *testconfig.TestConfiguration {
	return &testconfig.TestConfiguration{
		TestName:        p.Name,
		Questions:       questions,
		TimeLimit:       p.TimeLimit,
		TestType:        testconfig.TestTypeCustom,
		Subjects:        p.SubjectNames(),
		TotalQuestions:  len(questions),
		DifficultyLevel: string(p.Difficulty),
		TestMode:        string(p.Mode),
	}
}
