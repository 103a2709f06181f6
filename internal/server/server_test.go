package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/grading"
	"github.com/jeeace/jeeace/internal/questiongen"
	"github.com/jeeace/jeeace/internal/store"
	"github.com/jeeace/jeeace/internal/testconfig"
)

type stubGenerator struct {
	got []questiongen.GenerateInput
	err error
}

func (g *stubGenerator) Generate(_ context.Context, in questiongen.GenerateInput) ([]testconfig.Question, error) {
	g.got = append(g.got, in)
	if g.err != nil {
		return nil, g.err
	}
	var out []testconfig.Question
	for i := 0; i < in.Count; i++ {
		out = append(out, question(in.Subject, i, "A"))
	}
	return out, nil
}

func question(subject string, i int, answer string) testconfig.Question {
	return testconfig.Question{
		Subject:  subject,
		Question: fmt.Sprintf("%s question %d", subject, i),
		Options:  []string{"w", "x", "y", "z"},
		Answer:   answer,
	}
}

type fixture struct {
	srv    *httptest.Server
	client *evaluator.Client
	gen    *stubGenerator
}

func newFixture(t *testing.T, mutate func(*Deps)) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gen := &stubGenerator{}
	deps := Deps{
		Tests:     st.TestRepo(),
		Results:   st.ResultRepo(),
		Generator: gen,
		Scheme:    grading.JEE,
		Log:       zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&deps)
	}
	srv := httptest.NewServer(New(deps).Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, client: evaluator.NewClient(srv.URL), gen: gen}
}

func (f *fixture) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.client.Health(context.Background()))
}

func TestEvaluate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	qs := []testconfig.Question{question("Physics", 0, "A"), question("Physics", 1, "B"), question("Chemistry", 2, "C")}
	res, err := f.client.Evaluate(ctx, evaluator.EvaluateRequest{Questions: qs, UserAnswers: []string{"a", "C", ""}})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 1, res.IncorrectCount)
	assert.Equal(t, 1, res.UnattemptedCount)
	assert.Equal(t, 3.0, res.Score)
	require.Len(t, res.Details, 3)
	assert.Equal(t, "Chemistry", res.Details[2].Subject)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)
	bodies := []string{
		`{"questions":[],"userAnswers":[]}`,
		`{"questions":[{"question":"q","options":["a","b","c","d"],"answer":"A"}],"userAnswers":["A","B"]}`,
		`not json`,
	}
	for _, b := range bodies {
		resp, out := f.post(t, "/api/evaluate", b)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, b)
		assert.Equal(t, "Invalid input", out["error"])
	}
}

func TestGenerateQuestions(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.client.GenerateQuestions(context.Background(), evaluator.GenerateRequest{Subject: "Physics", Count: 4, Topics: []string{"Optics"}})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Count)
	assert.Len(t, resp.Questions, 4)
	assert.Equal(t, []string{"Optics"}, f.gen.got[0].Topics)

	// Counts above the batch cap are clamped; missing counts default.
	f.post(t, "/api/generate-questions", `{"subject":"Chemistry","count":90}`)
	f.post(t, "/api/generate-questions", `{"subject":"Chemistry"}`)
	assert.Equal(t, questiongen.MaxRemoteBatch, f.gen.got[1].Count)
	assert.Equal(t, 10, f.gen.got[2].Count)

	r, out := f.post(t, "/api/generate-questions", `{"count":3}`)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Contains(t, out["error"], "subject")
}

func TestGenerateQuestions_Failures(t *testing.T) {
	f := newFixture(t, func(d *Deps) { d.Generator = &stubGenerator{err: errors.New("model offline")} })
	_, err := f.client.GenerateQuestions(context.Background(), evaluator.GenerateRequest{Subject: "Physics", Count: 2})
	var httpErr *evaluator.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "model offline")

	f = newFixture(t, func(d *Deps) { d.Generator = nil })
	r, _ := f.post(t, "/api/generate-questions", `{"subject":"Physics"}`)
	assert.Equal(t, http.StatusServiceUnavailable, r.StatusCode)
}

func TestSaveTestAndHistory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cfg := &testconfig.TestConfiguration{
		TestName:  "Mock 1",
		Questions: []testconfig.Question{question("Physics", 0, "A"), question("Mathematics", 1, "D")},
		TimeLimit: 30,
		TestType:  testconfig.TestTypeCustom,
	}
	cfg.TotalQuestions = len(cfg.Questions)

	id, err := f.client.SaveTest(ctx, "u1", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	tests, err := f.client.TestHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, id, tests[0].TestID)
	assert.Equal(t, []string{"Physics", "Mathematics"}, tests[0].Subjects)
	assert.Len(t, tests[0].Questions, 2)

	other, err := f.client.TestHistory(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	r, out := f.post(t, "/api/save-test", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "Missing userId or testConfig", out["error"])

	r, out = f.post(t, "/api/save-test", `{"userId":"u1","testConfig":{"timeLimit":30,"totalQuestions":90,"questions":[{"subject":"Physics","question":"q","options":["w","x","y","z"]}]}}`)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Contains(t, out["error"], "totalQuestions")

	r, _ = f.post(t, "/api/test-history", `{}`)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func saveResult(t *testing.T, f *fixture, user string, pct float64, completed time.Time) string {
	t.Helper()
	id, err := f.client.SaveResult(context.Background(), evaluator.ResultRecord{
		UserID:         user,
		TestID:         "t1",
		Subjects:       []string{"Physics"},
		TotalQuestions: 10,
		Results:        &evaluator.Result{Score: pct / 10, Total: 10, Percentage: evaluator.NewPercent(pct)},
		TimeTaken:      600,
		TimeLimit:      30,
		CompletedAt:    completed,
	})
	require.NoError(t, err)
	return id
}

func TestResultsFlow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var ids []string
	for i, pct := range []float64{40, 80, 60} {
		ids = append(ids, saveResult(t, f, "u1", pct, base.Add(time.Duration(i)*time.Hour)))
	}

	page, err := f.client.UserResults(ctx, "u1", 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, ids[2], page.Results[0].ID, "newest first")
	assert.Equal(t, "Unnamed Test", page.Results[0].TestName)
	assert.Equal(t, 3, page.Pagination.TotalResults)
	assert.True(t, page.Pagination.HasNext)

	stats, err := f.client.UserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTests)
	assert.Equal(t, 60.0, stats.AverageScore)
	assert.Equal(t, 80.0, stats.BestScore)
	assert.Equal(t, 1800, stats.TotalTimeTaken)

	rec, err := f.client.Result(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 80.0, rec.Results.Percentage.Float())

	_, err = f.client.Result(ctx, "missing")
	assert.ErrorIs(t, err, evaluator.ErrNotFound)

	r, out := f.post(t, "/api/save-test-result", `{"userId":"u1","testId":"t1"}`)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "missing required field: results", out["error"])
}

func TestUserResults_BadPaging(t *testing.T) {
	f := newFixture(t, nil)
	resp, err := http.Get(f.srv.URL + "/api/user-test-results/u9?page=abc&limit=-4")
	require.NoError(t, err)
	defer resp.Body.Close()

	var page evaluator.ResultPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Empty(t, page.Results)
}

func TestAuth(t *testing.T) {
	secret := []byte("test-secret")
	f := newFixture(t, func(d *Deps) { d.AuthSecret = secret })
	ctx := context.Background()

	// Health stays open.
	require.NoError(t, f.client.Health(ctx))

	_, err := f.client.UserStats(ctx, "u1")
	var httpErr *evaluator.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)

	token, err := auth.IssueToken(secret, "u1", "u1@example.com", time.Hour)
	require.NoError(t, err)
	authed := evaluator.NewClient(f.srv.URL, evaluator.WithToken(token))

	_, err = authed.UserStats(ctx, "u1")
	require.NoError(t, err)

	_, err = authed.UserStats(ctx, "u2")
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, func(d *Deps) { d.AllowedOrigins = []string{"http://localhost:3000"} })

	req, _ := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/evaluate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
