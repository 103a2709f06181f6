package questiongen

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/testconfig"
)

// MaxRemoteBatch is the largest count the API accepts per request.
const MaxRemoteBatch = 25

// QuestionSource is the API surface RemoteGenerator needs.
// *evaluator.Client satisfies it.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, req evaluator.GenerateRequest) (*evaluator.GenerateResponse, error)
}

// RemoteGenerator implements Generator by calling the API's
// generate-questions endpoint, splitting large counts into requests of at
// most MaxRemoteBatch.
type RemoteGenerator struct {
	src        QuestionSource
	validators []Validator
	log        zerolog.Logger
}

// NewRemote creates a RemoteGenerator.
func NewRemote(src QuestionSource, log zerolog.Logger) *RemoteGenerator {
	return &RemoteGenerator{
		src:        src,
		validators: []Validator{&StructuralValidator{}, &DedupValidator{}},
		log:        log.With().Str("component", "questiongen").Str("source", "remote").Logger(),
	}
}

// Generate requests questions until input.Count is reached or the server
// stops returning new ones.
func (g *RemoteGenerator) Generate(ctx context.Context, input GenerateInput) ([]testconfig.Question, error) {
	prior := append([]string(nil), input.PriorQuestions...)
	var out []testconfig.Question

	for len(out) < input.Count {
		n := min(MaxRemoteBatch, input.Count-len(out))
		resp, err := g.src.GenerateQuestions(ctx, evaluator.GenerateRequest{
			Subject: input.Subject,
			Count:   n,
			Topics:  input.Topics,
		})
		if err != nil {
			if len(out) > 0 {
				g.log.Warn().Err(err).Str("subject", input.Subject).Int("have", len(out)).Msg("stopping early")
				break
			}
			return nil, fmt.Errorf("%s: %w", input.Subject, err)
		}

		added := 0
		for _, q := range resp.Questions {
			if len(out) == input.Count {
				break
			}
			q.Subject = input.Subject
			q.Answer = strings.ToUpper(strings.TrimSpace(q.Answer))
			in := input
			in.PriorQuestions = prior
			if verr := g.check(&q, in); verr != nil {
				g.log.Debug().Str("subject", input.Subject).Str("validator", verr.Validator).Msg(verr.Message)
				continue
			}
			out = append(out, q)
			prior = append(prior, q.Question)
			added++
		}
		if added == 0 {
			break
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", input.Subject, ErrNoQuestions)
	}
	return out, nil
}

func (g *RemoteGenerator) check(q *testconfig.Question, input GenerateInput) *ValidationError {
	for _, v := range g.validators {
		if verr := v.Validate(q, input); verr != nil {
			return verr
		}
	}
	return nil
}
