package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryProvider retries failed calls with jittered exponential backoff.
// Transient errors are retried up to MaxAttempts; bad output gets one
// more sample; truncation and cancellation are returned at once.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   zerolog.Logger
}

// WithRetry wraps p with cfg's retry policy.
func WithRetry(p Provider, cfg RetryConfig, log zerolog.Logger) Provider {
	return &RetryProvider{
		inner: p,
		cfg:   cfg,
		log:   log.With().Str("component", "llm-retry").Logger(),
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	resampled := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		class := Classify(err)
		switch class {
		case ClassCanceled, ClassTruncated:
			return nil, err
		case ClassBadOutput:
			if resampled {
				return nil, err
			}
			resampled = true
		}
		if attempt >= attempts {
			return nil, err
		}

		wait := r.cfg.delay(attempt, err)
		r.log.Warn().Err(err).
			Stringer("class", class).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying LLM request")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// delay is the wait before retry number attempt (1-based). A rate limit's
// RetryAfter wins over the computed backoff.
func (c RetryConfig) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt-1))
	d = math.Min(d, float64(c.MaxWait))
	d *= 0.8 + 0.4*rand.Float64() // ±20%
	return time.Duration(max(d, 0))
}
