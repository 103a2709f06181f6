package questiongen

import (
	"context"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// Difficulty is the requested difficulty mix for a test.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyMixed    Difficulty = "mixed"
	DifficultyAdvanced Difficulty = "advanced"
)

// Mode is whether a test is taken against the clock.
type Mode string

const (
	ModeTimed   Mode = "timed"
	ModeUntimed Mode = "untimed"
)

// GenerateInput holds everything needed to generate questions for one
// subject.
type GenerateInput struct {
	// Subject is the JEE subject, e.g. "Physics".
	Subject string

	// Count is how many questions are wanted.
	Count int

	// Topics optionally narrows generation, e.g. "Rotational Dynamics".
	Topics []string

	Difficulty Difficulty

	// PriorQuestions holds stems already produced for this subject. Used
	// both in the prompt and to drop duplicates.
	PriorQuestions []string
}

// Generator produces multiple-choice questions for a subject.
type Generator interface {
	// Generate returns up to input.Count validated questions. It may return
	// fewer when the source cannot produce enough; zero questions is an
	// error.
	Generate(ctx context.Context, input GenerateInput) ([]testconfig.Question, error)
}
