package store

import (
	"context"
	"time"

	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/testconfig"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int       // id > After
	From  time.Time // created_at >= From
	To    time.Time // created_at <= To
}

// KVRepo is a small string key-value table. It backs the local copy of
// the test currently being taken.
type KVRepo interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put inserts or replaces the value for key.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// LoadTest decodes the test configuration stored under key.
	// It returns nil, nil when nothing is stored.
	LoadTest(ctx context.Context, key string) (*testconfig.TestConfiguration, error)

	// SaveTest encodes cfg and stores it under key.
	SaveTest(ctx context.Context, key string, cfg *testconfig.TestConfiguration) error
}

// TestRepo stores generated test configurations per user.
type TestRepo interface {
	// Create stores a test and returns its id. A new id is assigned when
	// t.ID is empty.
	Create(ctx context.Context, t *evaluator.SavedTest) (string, error)

	// ListByUser returns a user's tests, newest first.
	ListByUser(ctx context.Context, userID string) ([]evaluator.SavedTest, error)
}

// ResultRepo stores completed test results.
type ResultRepo interface {
	// Create stores a result and returns its id.
	Create(ctx context.Context, rec *evaluator.ResultRecord) (string, error)

	// Get returns a single result or ErrNotFound.
	Get(ctx context.Context, id string) (*evaluator.ResultRecord, error)

	// ListByUser returns one page of a user's results, newest first.
	// page is 1-based.
	ListByUser(ctx context.Context, userID string, page, limit int) (*evaluator.ResultPage, error)

	// Stats aggregates a user's results.
	Stats(ctx context.Context, userID string) (*evaluator.UserStats, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	CreatedAt time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns events in ascending id order.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}

// LocalSaver stores session results in a ResultRepo instead of sending
// them to the API.
type LocalSaver struct {
	Repo ResultRepo
}

func (l LocalSaver) SaveResult(ctx context.Context, rec evaluator.ResultRecord) (string, error) {
	return l.Repo.Create(ctx, &rec)
}
