package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jeeace/jeeace/internal/evaluator"
)

var (
	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrCompleted is returned when the session already has a result.
	ErrCompleted = errors.New("session already completed")

	// ErrNotStarted is returned when submitting before Start.
	ErrNotStarted = errors.New("session not started")

	// ErrEvaluation wraps evaluator failures.
	ErrEvaluation = errors.New("evaluation failed")
)

// Outcome is a completed submission.
type Outcome struct {
	Result      *evaluator.Result
	Answers     []string
	TimeTaken   int
	CompletedAt time.Time

	// ResultID and PersistErr describe the secondary save. At most one is set.
	ResultID   string
	PersistErr error
}

// Submit scores the current answers. Concurrent calls collapse: while one is
// in flight the others return ErrSubmitInFlight. An evaluator failure leaves
// the session in PhaseSubmitting so the caller may retry. A persistence
// failure is logged and reported on the Outcome only.
func (s *Session) Submit(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	switch {
	case s.phase == PhaseCompleted:
		s.mu.Unlock()
		return nil, ErrCompleted
	case s.inFlight:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	case s.phase == PhaseBootstrapping:
		s.mu.Unlock()
		return nil, ErrNotStarted
	}
	s.inFlight = true
	s.phase = PhaseSubmitting
	s.submitErr = nil
	if s.tickHandle != nil {
		s.tickHandle.Cancel()
		s.tickHandle = nil
	}
	answers := s.ledger.Answers()
	timeTaken := s.timer.Elapsed()
	s.mu.Unlock()

	s.emit(Event{Kind: EventSubmitting})
	s.log.Info().Int("answered", countAnswered(answers)).Int("time_taken", timeTaken).Msg("submitting")

	res, err := s.deps.Evaluator.Evaluate(ctx, evaluator.EvaluateRequest{
		Questions:   s.test.Questions,
		UserAnswers: answers,
	})
	if err == nil && res == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrEvaluation, err)
		s.mu.Lock()
		s.inFlight = false
		s.submitErr = err
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("evaluation failed")
		s.emit(Event{Kind: EventSubmitFailed, Err: err})
		return nil, err
	}

	outcome := &Outcome{
		Result:      res,
		Answers:     answers,
		TimeTaken:   timeTaken,
		CompletedAt: s.deps.Now(),
	}

	s.mu.Lock()
	s.phase = PhaseCompleted
	s.inFlight = false
	s.result = res
	s.cancelTimersLocked()
	s.warningVisible = false
	stored := *outcome
	s.outcome = &stored
	s.mu.Unlock()

	s.emit(Event{Kind: EventCompleted})

	s.persist(ctx, outcome)
	return outcome, nil
}

func (s *Session) persist(ctx context.Context, outcome *Outcome) {
	if s.deps.Saver == nil {
		return
	}

	rec := s.buildRecord(outcome)
	id, err := s.deps.Saver.SaveResult(ctx, rec)

	s.mu.Lock()
	if err != nil {
		outcome.PersistErr = err
		s.outcome.PersistErr = err
	} else {
		outcome.ResultID = id
		s.outcome.ResultID = id
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("could not save test result")
		s.emit(Event{Kind: EventPersistFailed, Err: err})
		return
	}
	s.log.Info().Str("result_id", id).Msg("test result saved")
	s.emit(Event{Kind: EventPersisted, ResultID: id})
}

func (s *Session) buildRecord(outcome *Outcome) evaluator.ResultRecord {
	t := s.test

	testID := t.TestID
	if testID == "" {
		testID = fmt.Sprintf("test_%d", outcome.CompletedAt.UnixMilli())
	}
	name := t.TestName
	if name == "" {
		name = "Custom Test"
	}
	testType := string(t.TestType)
	if testType == "" {
		testType = "custom"
	}

	res := *outcome.Result
	if res.Percentage == nil {
		res.Percentage = evaluator.NewPercent(OverallPercentage(&res))
	}

	s.mu.Lock()
	started := s.startedAt
	s.mu.Unlock()

	return evaluator.ResultRecord{
		ID:             uuid.NewString(),
		UserID:         s.user.UserID,
		UserEmail:      s.user.Email,
		TestID:         testID,
		TestName:       name,
		TestType:       testType,
		Subjects:       t.SubjectList(),
		TotalQuestions: len(t.Questions),
		Results:        &res,
		TimeTaken:      outcome.TimeTaken,
		TimeLimit:      t.TimeLimitSeconds(),
		CompletedAt:    outcome.CompletedAt.UTC(),
		CreatedAt:      started.UTC(),
	}
}

func countAnswered(answers []string) int {
	n := 0
	for _, a := range answers {
		if a != "" {
			n++
		}
	}
	return n
}
