package session

import (
	"fmt"
	"math"

	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/testconfig"
)

// SubjectStat is the per-subject breakdown of a result.
type SubjectStat struct {
	Subject    string
	Total      int
	Correct    int
	Percentage string // one decimal place, e.g. "50.0"
}

// SubjectStats groups questions by subject and counts correct details per
// group. An empty or missing details list yields an empty map.
func SubjectStats(questions []testconfig.Question, res *evaluator.Result) map[string]SubjectStat {
	out := make(map[string]SubjectStat)
	for _, st := range OrderedSubjectStats(questions, res) {
		out[st.Subject] = st
	}
	return out
}

// OrderedSubjectStats is SubjectStats in first-seen subject order.
func OrderedSubjectStats(questions []testconfig.Question, res *evaluator.Result) []SubjectStat {
	if res == nil || len(res.Details) == 0 {
		return nil
	}

	var order []string
	counts := make(map[string]*SubjectStat)
	for i, q := range questions {
		st, ok := counts[q.Subject]
		if !ok {
			st = &SubjectStat{Subject: q.Subject}
			counts[q.Subject] = st
			order = append(order, q.Subject)
		}
		st.Total++
		if i < len(res.Details) && res.Details[i].IsCorrect {
			st.Correct++
		}
	}

	out := make([]SubjectStat, 0, len(order))
	for _, subj := range order {
		st := counts[subj]
		st.Percentage = fmt.Sprintf("%.1f", round1(float64(st.Correct)/float64(st.Total)*100))
		out = append(out, *st)
	}
	return out
}

// OverallPercentage returns the result's percentage when present, else
// score over max score (or total) as a percentage. Zero when there is no
// denominator.
func OverallPercentage(res *evaluator.Result) float64 {
	if res == nil {
		return 0
	}
	if res.Percentage != nil {
		return res.Percentage.Float()
	}
	denom := res.MaxScore
	if denom <= 0 {
		denom = float64(res.Total)
	}
	if denom <= 0 {
		return 0
	}
	return res.Score / denom * 100
}

// Summary holds the data displayed on the results screen.
type Summary struct {
	Score       float64
	MaxScore    float64
	Percentage  float64
	Correct     int
	Incorrect   int
	Unattempted int
	TimeTaken   int
	TimeLimit   int
	Marked      int
	Subjects    []SubjectStat
	Scheme      *evaluator.MarkingScheme
	ResultID    string
	PersistErr  error
}

// BuildSummary derives the results view from a completed outcome.
func BuildSummary(test *testconfig.TestConfiguration, outcome *Outcome, marked int) *Summary {
	res := outcome.Result
	maxScore := res.MaxScore
	if maxScore <= 0 {
		maxScore = float64(res.Total)
	}
	return &Summary{
		Score:       res.Score,
		MaxScore:    maxScore,
		Percentage:  OverallPercentage(res),
		Correct:     res.CorrectCount,
		Incorrect:   res.IncorrectCount,
		Unattempted: res.UnattemptedCount,
		TimeTaken:   outcome.TimeTaken,
		TimeLimit:   test.TimeLimitSeconds(),
		Marked:      marked,
		Subjects:    OrderedSubjectStats(test.Questions, res),
		Scheme:      res.MarkingScheme,
		ResultID:    outcome.ResultID,
		PersistErr:  outcome.PersistErr,
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
