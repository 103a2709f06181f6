package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when the server reports a missing resource.
var ErrNotFound = errors.New("not found")

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the jeeace API: evaluation, result persistence, question
// generation and history.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithToken sends the session token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Evaluate scores a submission.
func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest) (*Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodPost, "/api/evaluate", req, &res); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return &res, nil
}

// SaveResult persists a completed session and returns the stored id.
func (c *Client) SaveResult(ctx context.Context, rec ResultRecord) (string, error) {
	var out struct {
		ResultID string `json:"resultId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/save-test-result", rec, &out); err != nil {
		return "", fmt.Errorf("save result: %w", err)
	}
	return out.ResultID, nil
}

// SaveTest stores a generated test configuration and returns its id.
func (c *Client) SaveTest(ctx context.Context, userID string, cfg any) (string, error) {
	body := map[string]any{"userId": userID, "testConfig": cfg}
	var out struct {
		TestID string `json:"testId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/save-test", body, &out); err != nil {
		return "", fmt.Errorf("save test: %w", err)
	}
	return out.TestID, nil
}

// GenerateQuestions asks the server to generate questions for one subject.
func (c *Client) GenerateQuestions(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate-questions", req, &out); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return &out, nil
}

// TestHistory lists the tests a user has saved, newest first.
func (c *Client) TestHistory(ctx context.Context, userID string) ([]SavedTest, error) {
	var out struct {
		Tests []SavedTest `json:"tests"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/test-history", map[string]string{"userId": userID}, &out); err != nil {
		return nil, fmt.Errorf("test history: %w", err)
	}
	return out.Tests, nil
}

// UserResults returns one page of a user's results.
func (c *Client) UserResults(ctx context.Context, userID string, page, limit int) (*ResultPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	path := "/api/user-test-results/" + url.PathEscape(userID) + "?" + q.Encode()

	var out ResultPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("user results: %w", err)
	}
	return &out, nil
}

// UserStats returns aggregate statistics for a user.
func (c *Client) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	var out UserStats
	if err := c.do(ctx, http.MethodGet, "/api/user-stats/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &out, nil
}

// Result fetches one stored result. Returns an error matching ErrNotFound when
// the id is unknown.
func (c *Client) Result(ctx context.Context, id string) (*ResultRecord, error) {
	var out ResultRecord
	if err := c.do(ctx, http.MethodGet, "/api/test-result/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("test result %s: %w", id, err)
	}
	return &out, nil
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeHTTPError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeHTTPError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
}
