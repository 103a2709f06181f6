package evaluator

import (
	"time"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// EvaluateRequest is the body sent to the evaluation endpoint. UserAnswers is
// positionally aligned with Questions; "" marks an unattempted question.
type EvaluateRequest struct {
	Questions   []testconfig.Question `json:"questions" validate:"required,min=1"`
	UserAnswers []string              `json:"userAnswers" validate:"required,min=1"`
}

// MarkingScheme is the per-question point rule applied by the evaluator.
type MarkingScheme struct {
	Name        string  `json:"name,omitempty"`
	Correct     float64 `json:"correct"`
	Incorrect   float64 `json:"incorrect"`
	Unattempted float64 `json:"unattempted"`
}

// Detail is the evaluator's verdict on one question.
type Detail struct {
	Question      string  `json:"question,omitempty"`
	Subject       string  `json:"subject,omitempty"`
	CorrectAnswer string  `json:"correct_answer,omitempty"`
	UserAnswer    string  `json:"user_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Marks         float64 `json:"marks"`
}

// Attempted reports whether the user chose an option for this question.
func (d Detail) Attempted() bool {
	return d.UserAnswer != ""
}

// Result is the scored response for one submission. Produced once and
// treated as read-only afterwards.
type Result struct {
	Score            float64        `json:"score"`
	Total            int            `json:"total"`
	MaxScore         float64        `json:"max_score,omitempty"`
	CorrectCount     int            `json:"correct_count"`
	IncorrectCount   int            `json:"incorrect_count"`
	UnattemptedCount int            `json:"unattempted_count"`
	Percentage       *Percent       `json:"percentage,omitempty"`
	Details          []Detail       `json:"details"`
	MarkingScheme    *MarkingScheme `json:"marking_scheme,omitempty"`
}

// ResultRecord is the persistence payload for a completed session.
type ResultRecord struct {
	ID             string    `json:"_id,omitempty"`
	UserID         string    `json:"userId" validate:"required"`
	UserEmail      string    `json:"userEmail,omitempty"`
	TestID         string    `json:"testId" validate:"required"`
	TestName       string    `json:"testName,omitempty"`
	TestType       string    `json:"testType,omitempty"`
	Subjects       []string  `json:"subjects"`
	TotalQuestions int       `json:"totalQuestions"`
	Results        *Result   `json:"results" validate:"required"`
	TimeTaken      int       `json:"timeTaken"`
	TimeLimit      int       `json:"timeLimit"`
	CompletedAt    time.Time `json:"completedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SavedTest is a test configuration persisted on the server.
type SavedTest struct {
	TestID         string                `json:"testId"`
	UserID         string                `json:"userId,omitempty"`
	TestName       string                `json:"testName,omitempty"`
	TestType       string                `json:"testType"`
	Subjects       []string              `json:"subjects"`
	TotalQuestions int                   `json:"totalQuestions"`
	TimeLimit      int                   `json:"timeLimit"`
	Questions      []testconfig.Question `json:"questions"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalResults int  `json:"total_results"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// ResultPage is a page of stored results, newest first.
type ResultPage struct {
	Results    []ResultRecord `json:"results"`
	Pagination Pagination     `json:"pagination"`
}

// RecentTest summarizes one of the latest results in UserStats.
type RecentTest struct {
	TestName    string    `json:"testName"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
	Subjects    []string  `json:"subjects"`
}

// SubjectPerformance is the average percentage across results that cover a
// subject.
type SubjectPerformance struct {
	Subject      string  `json:"_id"`
	AverageScore float64 `json:"averageScore"`
	TestCount    int     `json:"testCount"`
}

// UserStats aggregates a user's stored results.
type UserStats struct {
	TotalTests         int                  `json:"totalTests"`
	AverageScore       float64              `json:"averageScore"`
	TotalQuestions     int                  `json:"totalQuestions"`
	TotalTimeTaken     int                  `json:"totalTimeTaken"`
	BestScore          float64              `json:"bestScore"`
	RecentTests        []RecentTest         `json:"recentTests"`
	SubjectPerformance []SubjectPerformance `json:"subjectPerformance"`
}

// GenerateRequest asks the server for questions on one subject.
type GenerateRequest struct {
	Subject string   `json:"subject" validate:"required"`
	Count   int      `json:"count" validate:"gte=1,lte=25"`
	Topics  []string `json:"topics,omitempty"`
}

// GenerateResponse carries generated questions.
type GenerateResponse struct {
	Questions []testconfig.Question `json:"questions"`
	Count     int                   `json:"count"`
}
