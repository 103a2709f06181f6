package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/testconfig"
)

var (
	// ErrIdentityNotLoaded is returned while the identity provider is still
	// resolving. Callers should wait and retry rather than redirect.
	ErrIdentityNotLoaded = errors.New("identity not loaded")

	// ErrUnauthenticated is returned when nobody is signed in.
	ErrUnauthenticated = errors.New("not signed in")

	// ErrNoTest is returned when no test has been created yet.
	ErrNoTest = errors.New("no test configured")

	// ErrEmptyTest is returned for a stored test without questions.
	ErrEmptyTest = errors.New("test has no questions")

	// ErrInvalidTest is returned for a stored test that fails validation.
	ErrInvalidTest = errors.New("invalid test configuration")
)

// TestLoader reads the test configuration stored under key. It returns nil
// and no error when nothing is stored.
type TestLoader interface {
	LoadTest(ctx context.Context, key string) (*testconfig.TestConfiguration, error)
}

// NeedsCreate reports whether err means the user must create a test first.
func NeedsCreate(err error) bool {
	return errors.Is(err, ErrNoTest) || errors.Is(err, ErrEmptyTest) || errors.Is(err, ErrInvalidTest)
}

// Bootstrap loads the current test for user and starts a session. No session
// is created on error.
func Bootstrap(ctx context.Context, user auth.Identity, loader TestLoader, deps Deps) (*Session, error) {
	if !user.Loaded {
		return nil, ErrIdentityNotLoaded
	}
	if user.UserID == "" {
		return nil, ErrUnauthenticated
	}

	cfg, err := loader.LoadTest(ctx, testconfig.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load test: %w", err)
	}
	if cfg == nil {
		return nil, ErrNoTest
	}

	if err := testconfig.Validate(cfg); err != nil {
		if errors.Is(err, testconfig.ErrNoQuestions) {
			return nil, ErrEmptyTest
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidTest, err)
	}

	s := New(cfg, user, deps)
	s.Start(ctx)
	return s, nil
}
