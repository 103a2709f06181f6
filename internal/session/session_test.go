package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/grading"
	"github.com/jeeace/jeeace/internal/testconfig"
)

// gradingEvaluator scores locally and records every request.
type gradingEvaluator struct {
	mu       sync.Mutex
	requests []evaluator.EvaluateRequest
	err      error
}

func (g *gradingEvaluator) Evaluate(_ context.Context, req evaluator.EvaluateRequest) (*evaluator.Result, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	err := g.err
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return grading.Evaluate(req.Questions, req.UserAnswers, grading.JEE)
}

func (g *gradingEvaluator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type fakeSaver struct {
	mu      sync.Mutex
	records []evaluator.ResultRecord
	err     error
}

func (f *fakeSaver) SaveResult(_ context.Context, rec evaluator.ResultRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.records = append(f.records, rec)
	return "res-1", nil
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) count(kind EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testConfig(subjects ...string) *testconfig.TestConfiguration {
	qs := make([]testconfig.Question, len(subjects))
	for i, s := range subjects {
		qs[i] = testconfig.Question{Subject: s, Question: "q", Options: []string{"a", "b", "c", "d"}, Answer: "B"}
	}
	return &testconfig.TestConfiguration{
		TestID:         "t-1",
		Questions:      qs,
		TimeLimit:      1,
		TestType:       testconfig.TestTypeCustom,
		TotalQuestions: len(qs),
	}
}

type harness struct {
	s     *Session
	sched *ManualScheduler
	eval  *gradingEvaluator
	saver *fakeSaver
	log   *eventLog
}

func newHarness(t *testing.T, cfg *testconfig.TestConfiguration) *harness {
	t.Helper()
	h := &harness{
		sched: NewManualScheduler(),
		eval:  &gradingEvaluator{},
		saver: &fakeSaver{},
		log:   &eventLog{},
	}
	h.s = New(cfg, auth.Identity{Loaded: true, UserID: "user_1"}, Deps{
		Evaluator: h.eval,
		Saver:     h.saver,
		Scheduler: h.sched,
		Now:       func() time.Time { return fixedNow },
		Listener:  h.log.record,
	})
	t.Cleanup(h.s.Close)
	return h
}

func TestSession_TimerDrivesWarningAndSingleSubmit(t *testing.T) {
	h := newHarness(t, testConfig("Physics", "Chemistry"))
	h.s.timer = NewTimer(620)
	h.s.Start(context.Background())
	require.Equal(t, PhaseInProgress, h.s.Phase())

	h.sched.Advance(320 * time.Second)
	assert.Equal(t, 300, h.s.Remaining())
	assert.Equal(t, 1, h.log.count(EventWarning))
	assert.True(t, h.s.Snapshot().WarningVisible)

	h.sched.Advance(WarningDismissAfter)
	assert.False(t, h.s.Snapshot().WarningVisible)
	assert.Equal(t, 1, h.log.count(EventWarningCleared))

	h.sched.Advance(295 * time.Second)
	assert.Equal(t, 0, h.s.Remaining())
	assert.Equal(t, PhaseCompleted, h.s.Phase())
	assert.Equal(t, 1, h.eval.calls())
	assert.Equal(t, 1, h.log.count(EventExpired))

	// Nothing left to fire; further time changes nothing.
	assert.Equal(t, 0, h.sched.Pending())
	h.sched.Advance(time.Hour)
	assert.Equal(t, 1, h.eval.calls())
	assert.Equal(t, 1, h.log.count(EventWarning))

	// A stray tick after expiry is ignored.
	h.s.onTick()
	assert.Equal(t, 1, h.eval.calls())
}

func TestSession_EndToEndExpiry(t *testing.T) {
	h := newHarness(t, testConfig("Physics", "Chemistry"))
	h.s.Start(context.Background())

	require.NoError(t, h.s.Select("B"))
	h.s.Next()

	h.sched.Advance(60 * time.Second)

	require.Equal(t, 1, h.eval.calls())
	assert.Equal(t, []string{"B", ""}, h.eval.requests[0].UserAnswers)

	res := h.s.Result()
	require.NotNil(t, res)
	assert.Equal(t, 1, res.UnattemptedCount)
	assert.Equal(t, 1, res.CorrectCount)

	require.Len(t, h.saver.records, 1)
	rec := h.saver.records[0]
	assert.Equal(t, "user_1", rec.UserID)
	assert.Equal(t, "t-1", rec.TestID)
	assert.Equal(t, 60, rec.TimeTaken)
	assert.Equal(t, 60, rec.TimeLimit)
	assert.Equal(t, 2, rec.TotalQuestions)
	assert.Equal(t, []string{"Physics", "Chemistry"}, rec.Subjects)
	assert.NotEmpty(t, rec.ID)

	out := h.s.Outcome()
	require.NotNil(t, out)
	assert.Equal(t, "res-1", out.ResultID)
	assert.Equal(t, 1, h.log.count(EventPersisted))
}

func TestSession_ZeroTimeLimitExpiresOnFirstTick(t *testing.T) {
	cfg := testConfig("Physics")
	cfg.TimeLimit = 0
	h := newHarness(t, cfg)
	h.s.Start(context.Background())

	h.sched.Advance(30 * time.Second)

	assert.Equal(t, PhaseCompleted, h.s.Phase())
	assert.Equal(t, 1, h.eval.calls())
	assert.Equal(t, 1, h.log.count(EventExpired))
	assert.Equal(t, 0, h.sched.Pending())
}

type blockingEvaluator struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEvaluator) Evaluate(_ context.Context, req evaluator.EvaluateRequest) (*evaluator.Result, error) {
	b.calls.Add(1)
	b.entered <- struct{}{}
	<-b.release
	return grading.Evaluate(req.Questions, req.UserAnswers, grading.JEE)
}

func TestSession_DuplicateSubmitSuppressed(t *testing.T) {
	be := &blockingEvaluator{entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := New(testConfig("Physics"), auth.Identity{Loaded: true, UserID: "u"}, Deps{
		Evaluator: be,
		Scheduler: NewManualScheduler(),
	})
	s.Start(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-be.entered

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, PhaseSubmitting, s.Phase())

	close(be.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), be.calls.Load())
	assert.Equal(t, PhaseCompleted, s.Phase())

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCompleted)
	assert.Equal(t, int32(1), be.calls.Load())
}

func TestSession_EvaluationFailureIsRetryable(t *testing.T) {
	h := newHarness(t, testConfig("Physics"))
	h.s.Start(context.Background())
	require.NoError(t, h.s.Select("B"))

	h.eval.err = errors.New("connection refused")
	_, err := h.s.Submit(context.Background())
	require.ErrorIs(t, err, ErrEvaluation)

	assert.Equal(t, PhaseSubmitting, h.s.Phase())
	assert.Nil(t, h.s.Result())
	assert.Error(t, h.s.Snapshot().SubmitErr)
	assert.Equal(t, 1, h.log.count(EventSubmitFailed))
	assert.Empty(t, h.saver.records)

	// Timer is stopped and answers are frozen.
	h.sched.Advance(10 * time.Second)
	assert.Equal(t, 60, h.s.Remaining())
	assert.ErrorIs(t, h.s.Select("A"), ErrNotInProgress)

	h.eval.mu.Lock()
	h.eval.err = nil
	h.eval.mu.Unlock()
	out, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, h.s.Phase())
	assert.Equal(t, []string{"B"}, out.Answers)
	assert.Nil(t, h.s.Snapshot().SubmitErr)
}

func TestSession_PersistFailureDoesNotBlockResult(t *testing.T) {
	h := newHarness(t, testConfig("Physics"))
	h.saver.err = errors.New("HTTP 500")
	h.s.Start(context.Background())

	out, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	assert.Error(t, out.PersistErr)
	assert.Empty(t, out.ResultID)
	assert.Equal(t, PhaseCompleted, h.s.Phase())
	assert.NotNil(t, h.s.Result())
	assert.Equal(t, 1, h.log.count(EventCompleted))
	assert.Equal(t, 1, h.log.count(EventPersistFailed))
}

func TestSession_SubmitBeforeStart(t *testing.T) {
	h := newHarness(t, testConfig("Physics"))
	_, err := h.s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, h.s.Select("A"), ErrNotInProgress)
}

func TestSession_NavigationKeepsAnswers(t *testing.T) {
	h := newHarness(t, testConfig("Physics", "Physics", "Chemistry"))
	h.s.Start(context.Background())

	require.NoError(t, h.s.Select("A"))
	_, err := h.s.ToggleReview()
	require.NoError(t, err)

	h.s.Next()
	h.s.Next()
	h.s.Next()
	require.NoError(t, h.s.Select("D"))
	assert.False(t, h.s.JumpTo(7))
	assert.True(t, h.s.JumpTo(0))
	h.s.Previous()

	snap := h.s.Snapshot()
	assert.Equal(t, 0, snap.Current)
	assert.Equal(t, []string{"A", "", "D"}, snap.Answers)
	assert.Equal(t, []bool{true, false, false}, snap.Marked)
	assert.Equal(t, 2, snap.AnsweredCount)
	assert.Equal(t, 1, snap.Unanswered())

	require.NoError(t, h.s.Clear())
	assert.Equal(t, 1, h.s.Snapshot().AnsweredCount)
	assert.True(t, h.s.Snapshot().Marked[0])
}

func TestSession_CloseStopsTicking(t *testing.T) {
	h := newHarness(t, testConfig("Physics"))
	h.s.Start(context.Background())
	h.sched.Advance(5 * time.Second)
	h.s.Close()

	assert.Equal(t, 0, h.sched.Pending())
	h.sched.Advance(time.Minute)
	assert.Equal(t, 55, h.s.Remaining())
	assert.Equal(t, 0, h.eval.calls())
}

func TestSession_DefaultTestIDAndName(t *testing.T) {
	cfg := testConfig("Physics")
	cfg.TestID = ""
	h := newHarness(t, cfg)
	h.s.Start(context.Background())

	_, err := h.s.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, h.saver.records, 1)
	assert.Equal(t, "test_1772359200000", h.saver.records[0].TestID)
	assert.Equal(t, "Custom Test", h.saver.records[0].TestName)
	require.NotNil(t, h.saver.records[0].Results.Percentage)
}
