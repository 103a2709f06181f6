package questiongen

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/jeeace/jeeace/internal/testconfig"
)

// SubjectError reports the subjects that yielded no questions.
type SubjectError struct {
	Failed map[string]error
}

func (e *SubjectError) Error() string {
	return fmt.Sprintf("no questions generated for %d subject(s): %v", len(e.Failed), errors.Join(e.errs()...))
}

func (e *SubjectError) errs() []error {
	out := make([]error, 0, len(e.Failed))
	for _, subject := range slices.Sorted(maps.Keys(e.Failed)) {
		out = append(out, e.Failed[subject])
	}
	return out
}

// Build generates questions for every subject in the plan and assembles a
// validated test configuration. Subjects are generated in plan order.
// Every subject must yield at least one question; a subject that yields
// fewer than requested is accepted with a warning.
func Build(ctx context.Context, gen Generator, plan *Plan, log zerolog.Logger) (*testconfig.TestConfiguration, error) {
	log = log.With().Str("component", "questiongen").Logger()

	var (
		questions []testconfig.Question
		failed    = map[string]error{}
	)
	for _, sp := range plan.Subjects {
		qs, err := gen.Generate(ctx, GenerateInput{
			Subject:    sp.Subject,
			Count:      sp.Count,
			Topics:     sp.Topics,
			Difficulty: plan.Difficulty,
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err == nil && len(qs) == 0 {
			err = ErrNoQuestions
		}
		if err != nil {
			failed[sp.Subject] = err
			continue
		}
		if len(qs) > sp.Count {
			qs = qs[:sp.Count]
		}
		if len(qs) < sp.Count {
			log.Warn().Str("subject", sp.Subject).Int("want", sp.Count).Int("got", len(qs)).Msg("short subject")
		}
		for i := range qs {
			qs[i].Subject = sp.Subject
		}
		questions = append(questions, qs...)
		log.Info().Str("subject", sp.Subject).Int("count", len(qs)).Msg("subject generated")
	}
	if len(failed) > 0 {
		return nil, &SubjectError{Failed: failed}
	}

	cfg := plan.Configuration(questions)
	if err := testconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
