package questiongen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeeace/jeeace/internal/llm"
	"github.com/jeeace/jeeace/internal/testconfig"
)

// ErrNoQuestions is returned when a generator produced nothing usable.
var ErrNoQuestions = errors.New("no valid questions generated")

// LLMGenerator implements Generator using an LLM provider. Questions are
// requested in batches, validated one by one and deduplicated against
// everything produced so far.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      zerolog.Logger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, log zerolog.Logger) *LLMGenerator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		log:      log.With().Str("component", "questiongen").Logger(),
	}
}

// Generate produces up to input.Count questions for input.Subject.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) ([]testconfig.Question, error) {
	if input.Count <= 0 {
		return nil, nil
	}
	ctx = llm.WithSubject(ctx, input.Subject)

	batches := (input.Count+g.config.BatchSize-1)/g.config.BatchSize + g.config.MaxExtraBatches
	prior := append([]string(nil), input.PriorQuestions...)

	var (
		out     []testconfig.Question
		lastErr error
	)
	for i := 0; i < batches && len(out) < input.Count; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		n := min(g.config.BatchSize, input.Count-len(out))
		in := input
		in.PriorQuestions = prior

		candidates, err := g.batch(ctx, in, n)
		if err != nil {
			lastErr = err
			g.log.Warn().Err(err).Str("subject", input.Subject).Int("batch", i).Msg("batch failed")
			if isFatal(err) {
				break
			}
			continue
		}

		for _, q := range candidates {
			if len(out) == input.Count {
				break
			}
			q.Subject = input.Subject
			in.PriorQuestions = prior
			if verr := g.validate(&q, in); verr != nil {
				g.log.Debug().Str("subject", input.Subject).Str("validator", verr.Validator).Msg(verr.Message)
				continue
			}
			out = append(out, q)
			prior = append(prior, q.Question)
		}
	}

	if len(out) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%s: %w: %w", input.Subject, ErrNoQuestions, lastErr)
		}
		return nil, fmt.Errorf("%s: %w", input.Subject, ErrNoQuestions)
	}
	return out, nil
}

// batch asks the provider for n questions, falling back to the text format
// when structured output is unusable.
func (g *LLMGenerator) batch(ctx context.Context, input GenerateInput, n int) ([]testconfig.Question, error) {
	qs, err := g.structured(ctx, input, n)
	if err == nil || !g.config.TextFallback || !isBadOutput(err) {
		return qs, err
	}
	g.log.Debug().Err(err).Str("subject", input.Subject).Msg("structured output unusable, retrying as text")
	return g.text(ctx, input, n)
}

func (g *LLMGenerator) request(input GenerateInput, n int, text bool) llm.Request {
	req := llm.Ask(systemPrompt, buildUserMessage(input, n, g.config, text))
	req.MaxTokens = g.config.MaxTokensPerQuestion * n
	req.Temperature = g.config.Temperature
	if !text {
		req.Schema = BatchSchema
	}
	return req
}

func (g *LLMGenerator) structured(ctx context.Context, input GenerateInput, n int) ([]testconfig.Question, error) {
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeQuestionGen), g.request(input, n, false))
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}

	qs := make([]testconfig.Question, 0, len(raw.Questions))
	for _, r := range raw.Questions {
		qs = append(qs, testconfig.Question{
			Question: strings.TrimSpace(r.Question),
			Options:  trimAll(r.Options),
			Answer:   strings.ToUpper(strings.TrimSpace(r.Answer)),
		})
	}
	return qs, nil
}

func (g *LLMGenerator) text(ctx context.Context, input GenerateInput, n int) ([]testconfig.Question, error) {
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeParse), g.request(input, n, true))
	if err != nil {
		return nil, fmt.Errorf("LLM text generation failed: %w", err)
	}
	qs := ParseMCQBatch(resp.Text())
	if len(qs) == 0 {
		return nil, ErrUnparsable
	}
	return qs, nil
}

func (g *LLMGenerator) validate(q *testconfig.Question, input GenerateInput) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return verr
		}
	}
	return nil
}

// isBadOutput reports whether err is about the content of a response
// rather than the provider being reachable.
func isBadOutput(err error) bool {
	switch llm.Classify(err) {
	case llm.ClassBadOutput, llm.ClassTruncated:
		return true
	}
	return false
}

// isFatal reports errors that further batches cannot fix.
func isFatal(err error) bool {
	return llm.Classify(err) == llm.ClassCanceled || llm.IsUnavailable(err)
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
