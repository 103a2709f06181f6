package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is a 429 from the provider. RetryAfter is zero when the
// provider gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model answered but the output is not the
// requested shape: bad JSON, a schema violation, or no text at all.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model output: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable wraps transport failures and 5xx responses.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means a structured response was cut off. Content
// holds the partial output.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model output truncated at the token limit"
}

// ErrorClass groups provider errors by what a caller can do about them.
type ErrorClass int

const (
	// ClassTransient errors may succeed on a plain retry.
	ClassTransient ErrorClass = iota
	// ClassBadOutput errors came back from a reachable model; a different
	// prompt or format may help.
	ClassBadOutput
	// ClassTruncated output needs a larger token budget or a smaller batch.
	ClassTruncated
	// ClassCanceled is the caller's own context ending.
	ClassCanceled
)

func (c ErrorClass) String() string {
	switch c {
	case ClassBadOutput:
		return "bad-output"
	case ClassTruncated:
		return "truncated"
	case ClassCanceled:
		return "canceled"
	}
	return "transient"
}

// Classify sorts err into an ErrorClass. Unknown errors count as transient.
func Classify(err error) ErrorClass {
	var (
		inv   *ErrInvalidResponse
		trunc *ErrMaxTokensExceeded
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCanceled
	case errors.As(err, &trunc):
		return ClassTruncated
	case errors.As(err, &inv):
		return ClassBadOutput
	}
	return ClassTransient
}

// IsUnavailable reports whether err means the provider could not be
// reached after retries.
func IsUnavailable(err error) bool {
	var unavailable *ErrProviderUnavailable
	return errors.As(err, &unavailable)
}
