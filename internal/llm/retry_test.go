package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var (
	okResponse  = MockResponse{Content: json.RawMessage(`{"questions":[]}`)}
	unavailable = MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("groq down")}}
	invalid     = MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`Q: ...`), Err: errors.New("not json")}}
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{okResponse}, false, 1},
		{"transient then success", []MockResponse{unavailable, okResponse}, false, 2},
		{"all attempts fail", []MockResponse{unavailable, unavailable, unavailable}, true, 3},
		{"rate limit honors retry-after", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, okResponse}, false, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okResponse}, true, 1},
		{"invalid response retried once", []MockResponse{invalid, invalid, okResponse}, true, 2},
		{"invalid then valid", []MockResponse{invalid, okResponse}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, retryConfig(), zerolog.Nop()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(unavailable, unavailable, okResponse)
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg, zerolog.Nop()).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if p.ModelID() != "slow" {
		t.Fatalf("model = %q", p.ModelID())
	}

	if got := WithTimeout(slowProvider{}, 0); got != (slowProvider{}) {
		t.Fatal("zero timeout should not wrap")
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig(), zerolog.Nop())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestRetryDelay(t *testing.T) {
	cfg := RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}

	for attempt, base := range map[int]time.Duration{1: 100, 2: 200, 3: 300, 6: 300} {
		base *= time.Millisecond
		got := cfg.delay(attempt, errors.New("boom"))
		lo, hi := base*8/10, base*12/10
		if got < lo || got > hi {
			t.Errorf("attempt %d: delay %s outside [%s, %s]", attempt, got, lo, hi)
		}
	}

	rl := &ErrRateLimit{RetryAfter: 7 * time.Second}
	if got := cfg.delay(1, rl); got != 7*time.Second {
		t.Errorf("rate limit delay = %s", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorClass
	}{
		{errors.New("dial tcp: refused"), ClassTransient},
		{&ErrProviderUnavailable{}, ClassTransient},
		{&ErrRateLimit{}, ClassTransient},
		{&ErrInvalidResponse{Err: errors.New("not json")}, ClassBadOutput},
		{&ErrMaxTokensExceeded{}, ClassTruncated},
		{context.Canceled, ClassCanceled},
		{fmt.Errorf("generate: %w", context.DeadlineExceeded), ClassCanceled},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
