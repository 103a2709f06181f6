package testconfig

import "strings"

// StorageKey is the key the create flow writes the current test under and
// the take flow reads it from.
const StorageKey = "currentTest"

// OptionsPerQuestion is the fixed number of choices on every question.
const OptionsPerQuestion = 4

// TestType distinguishes full syllabus tests from custom subject mixes.
type TestType string

const (
	TestTypeFull   TestType = "full"
	TestTypeCustom TestType = "custom"
)

// Question is a single multiple-choice item. Immutable once loaded.
type Question struct {
	Subject  string   `json:"subject" validate:"required"`
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"len=4,dive,required"`

	// Answer is the correct option code. Present on server-side copies and on
	// locally generated tests; the evaluator owns its interpretation.
	Answer string `json:"answer,omitempty" validate:"omitempty,oneof=A B C D"`

	ImageData    string `json:"image_data,omitempty"`
	ImageCaption string `json:"image_caption,omitempty"`
	SourceText   string `json:"source_text,omitempty"`
}

// TestConfiguration is the input to a test session, written by the create
// flow and read once by session bootstrap.
type TestConfiguration struct {
	TestID         string     `json:"testId,omitempty"`
	TestName       string     `json:"testName,omitempty"`
	Questions      []Question `json:"questions" validate:"required,min=1,dive"`
	TimeLimit      int        `json:"timeLimit" validate:"gt=0"`
	TestType       TestType   `json:"testType" validate:"omitempty,oneof=full custom"`
	Subjects       []string   `json:"subjects"`
	TotalQuestions int        `json:"totalQuestions"`

	DifficultyLevel string `json:"difficultyLevel,omitempty"`
	TestMode        string `json:"testMode,omitempty"`
}

// TimeLimitSeconds returns the session length in seconds.
func (c *TestConfiguration) TimeLimitSeconds() int {
	return c.TimeLimit * 60
}

// SubjectList returns the declared subjects, or the distinct question
// subjects in first-seen order when none were declared.
func (c *TestConfiguration) SubjectList() []string {
	if len(c.Subjects) > 0 {
		return c.Subjects
	}
	seen := make(map[string]bool)
	var out []string
	for _, q := range c.Questions {
		if !seen[q.Subject] {
			seen[q.Subject] = true
			out = append(out, q.Subject)
		}
	}
	return out
}

// OptionCode returns the letter for a zero-based option index ("A" for 0).
// Returns "" for indices outside A-Z.
func OptionCode(i int) string {
	if i < 0 || i >= 26 {
		return ""
	}
	return string(rune('A' + i))
}

// OptionIndex parses an option letter into its zero-based index.
// Returns -1 if code is not a single letter.
func OptionIndex(code string) int {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 1 || code[0] < 'A' || code[0] > 'Z' {
		return -1
	}
	return int(code[0] - 'A')
}
