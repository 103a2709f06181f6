package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/testconfig"
)

// ErrNotInProgress is returned by mutations attempted outside PhaseInProgress.
var ErrNotInProgress = errors.New("session is not in progress")

// Evaluator scores a submission.
type Evaluator interface {
	Evaluate(ctx context.Context, req evaluator.EvaluateRequest) (*evaluator.Result, error)
}

// ResultSaver persists a completed session and returns the stored id.
type ResultSaver interface {
	SaveResult(ctx context.Context, rec evaluator.ResultRecord) (string, error)
}

// Deps are the collaborators of a Session. Evaluator is required.
type Deps struct {
	Evaluator Evaluator
	Saver     ResultSaver
	Scheduler Scheduler
	Now       func() time.Time
	Logger    zerolog.Logger

	// Listener receives events outside the session lock. It must not call
	// back into Submit synchronously.
	Listener func(Event)
}

// Session is one attempt at a test. All methods are safe for concurrent use;
// the tick callback runs on the scheduler's goroutine.
type Session struct {
	mu sync.Mutex

	test *testconfig.TestConfiguration
	user auth.Identity
	deps Deps
	log  zerolog.Logger

	phase  Phase
	timer  *Timer
	ledger *Ledger
	marks  *ReviewMarks
	nav    *Navigator

	tickHandle     Handle
	warnHandle     Handle
	warningVisible bool
	closed         bool
	baseCtx        context.Context

	inFlight  bool
	submitErr error
	result    *evaluator.Result
	outcome   *Outcome
	startedAt time.Time
}

// New creates a session in PhaseBootstrapping. Call Start to begin the
// countdown.
func New(test *testconfig.TestConfiguration, user auth.Identity, deps Deps) *Session {
	if deps.Scheduler == nil {
		deps.Scheduler = ClockScheduler{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	n := len(test.Questions)
	return &Session{
		test:    test,
		user:    user,
		deps:    deps,
		log:     deps.Logger.With().Str("component", "session").Logger(),
		phase:   PhaseBootstrapping,
		timer:   NewTimer(test.TimeLimitSeconds()),
		ledger:  NewLedger(test.Questions),
		marks:   NewReviewMarks(n),
		nav:     NewNavigator(n),
		baseCtx: context.Background(),
	}
}

// Start moves to PhaseInProgress and schedules the first tick. ctx supplies
// values for the automatic submission; its cancellation does not abort an
// in-flight evaluation.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseBootstrapping || s.closed {
		return
	}
	s.baseCtx = context.WithoutCancel(ctx)
	s.phase = PhaseInProgress
	s.startedAt = s.deps.Now()
	s.tickHandle = s.deps.Scheduler.AfterFunc(TickInterval, s.onTick)
	s.log.Info().
		Str("test_id", s.test.TestID).
		Int("questions", len(s.test.Questions)).
		Int("seconds", s.timer.Total()).
		Msg("session started")
}

// Close cancels pending callbacks. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelTimersLocked()
}

func (s *Session) cancelTimersLocked() {
	if s.tickHandle != nil {
		s.tickHandle.Cancel()
		s.tickHandle = nil
	}
	if s.warnHandle != nil {
		s.warnHandle.Cancel()
		s.warnHandle = nil
	}
}

func (s *Session) onTick() {
	s.mu.Lock()
	if s.phase != PhaseInProgress || s.closed {
		s.mu.Unlock()
		return
	}
	out := s.timer.Tick()
	// A zero-length countdown has nothing to tick down and expires on its
	// first tick.
	out.Expired = out.Expired || s.timer.IsExpired()
	events := []Event{{Kind: EventTick, Remaining: out.Remaining}}

	if out.Warning {
		s.warningVisible = true
		s.warnHandle = s.deps.Scheduler.AfterFunc(WarningDismissAfter, s.dismissWarning)
		events = append(events, Event{Kind: EventWarning, Remaining: out.Remaining})
	}
	if out.Expired {
		s.tickHandle = nil
		events = append(events, Event{Kind: EventExpired})
	} else {
		s.tickHandle = s.deps.Scheduler.AfterFunc(TickInterval, s.onTick)
	}
	ctx := s.baseCtx
	s.mu.Unlock()

	s.emit(events...)

	if out.Expired {
		s.log.Info().Msg("time expired, submitting")
		if _, err := s.Submit(ctx); err != nil {
			s.log.Warn().Err(err).Msg("automatic submission failed")
		}
	}
}

func (s *Session) dismissWarning() {
	s.mu.Lock()
	if !s.warningVisible {
		s.mu.Unlock()
		return
	}
	s.warningVisible = false
	s.warnHandle = nil
	s.mu.Unlock()
	s.emit(Event{Kind: EventWarningCleared})
}

// DismissWarning hides the warning before its timeout.
func (s *Session) DismissWarning() {
	s.mu.Lock()
	if s.warnHandle != nil {
		s.warnHandle.Cancel()
	}
	s.mu.Unlock()
	s.dismissWarning()
}

func (s *Session) emit(events ...Event) {
	if s.deps.Listener == nil {
		return
	}
	for _, e := range events {
		s.deps.Listener(e)
	}
}

// Test returns the configuration this session runs.
func (s *Session) Test() *testconfig.TestConfiguration { return s.test }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Remaining returns the seconds left on the timer.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Remaining()
}

// Select records code for the current question.
func (s *Session) Select(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(s.nav.Current(), code)
}

// SelectAt records code for question index.
func (s *Session) SelectAt(index int, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(index, code)
}

func (s *Session) selectLocked(index int, code string) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	return s.ledger.Select(index, code)
}

// Clear removes the selection on the current question.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	s.ledger.Clear(s.nav.Current())
	return nil
}

// ToggleReview flips the review mark on the current question.
func (s *Session) ToggleReview() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return false, ErrNotInProgress
	}
	return s.marks.Toggle(s.nav.Current())
}

// Next moves to the following question.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Next()
}

// Previous moves to the preceding question.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Previous()
}

// JumpTo moves to index when in range.
func (s *Session) JumpTo(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.JumpTo(index)
}

// Snapshot returns a copy of the state needed for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Phase:          s.phase,
		Current:        s.nav.Current(),
		Total:          s.nav.Len(),
		Remaining:      s.timer.Remaining(),
		TimeLimit:      s.timer.Total(),
		WarningVisible: s.warningVisible,
		WarningZone:    s.timer.IsWarningZone(),
		Answers:        s.ledger.Answers(),
		Marked:         s.marks.Slice(),
		AnsweredCount:  s.ledger.AnsweredCount(),
		MarkedCount:    s.marks.Count(),
		SubmitErr:      s.submitErr,
	}
}

// Result returns the evaluation result, or nil before completion.
func (s *Session) Result() *evaluator.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Outcome returns the completed submission, or nil before completion.
func (s *Session) Outcome() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return nil
	}
	o := *s.outcome
	return &o
}
