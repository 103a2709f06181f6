// Package taketest is the screen on which a test is taken: one question at
// a time under a countdown, with review marks and a question palette.
package taketest

import (
	"context"
	"errors"
	"sync"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/router"
	"github.com/jeeace/jeeace/internal/screen"
	"github.com/jeeace/jeeace/internal/screens/results"
	"github.com/jeeace/jeeace/internal/session"
	"github.com/jeeace/jeeace/internal/testconfig"
	"github.com/jeeace/jeeace/internal/ui/components"
	"github.com/jeeace/jeeace/internal/ui/layout"
	"github.com/jeeace/jeeace/internal/ui/theme"
)

// eventBuffer bounds queued session events. Ticks beyond it are dropped;
// the view reads the clock from a snapshot anyway.
const eventBuffer = 64

// Options configure the screen. Session.Listener is replaced.
type Options struct {
	Context context.Context
	User    auth.Identity
	Loader  session.TestLoader
	Session session.Deps
}

type mode int

const (
	modeTest mode = iota
	modeConfirm
	modeJump
)

// Screen implements screen.Screen for a running test.
type Screen struct {
	opts Options
	ctx  context.Context
	sess *session.Session
	test *testconfig.TestConfiguration
	err  error
	mode mode
	done bool

	options components.OptionList
	confirm components.Confirm
	jump    components.NumberInput
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	events    chan session.Event
	closed    chan struct{}
	closeOnce sync.Once
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
	_ screen.Closer          = (*Screen)(nil)
)

// New creates the screen. The test is loaded and started by Init.
func New(opts Options) *Screen {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	s := &Screen{
		opts:   opts,
		ctx:    opts.Context,
		keys:   newKeyMap(),
		help:   help.New(),
		events: make(chan session.Event, eventBuffer),
		closed: make(chan struct{}),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
	s.opts.Session.Listener = s.listen
	return s
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.bootstrap(), s.spinner.Tick)
}

func (s *Screen) Title() string {
	if s.test != nil && s.test.TestName != "" {
		return s.test.TestName
	}
	return "Test"
}

// Status shows the countdown, in the warning color for the last five
// minutes.
func (s *Screen) Status() string {
	if s.sess == nil {
		return ""
	}
	snap := s.sess.Snapshot()
	style := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if snap.WarningZone {
		style = style.Foreground(theme.Warning)
	}
	return style.Render("⏱ " + session.FormatClock(snap.Remaining))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.err != nil:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case s.sess == nil:
		return nil
	case s.mode == modeConfirm:
		return []layout.KeyHint{{Key: "Y", Description: "Submit"}, {Key: "N", Description: "Keep going"}}
	case s.mode == modeJump:
		return []layout.KeyHint{{Key: "Enter", Description: "Go"}, {Key: "Esc", Description: "Cancel"}}
	}
	snap := s.sess.Snapshot()
	if snap.Phase == session.PhaseSubmitting {
		if snap.SubmitErr != nil {
			return layout.HintsFromBindings(s.keys.Retry)
		}
		return nil
	}
	return layout.HintsFromBindings(s.keys.ShortHelp()...)
}

// Close stops the session timers and the event listener.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		if s.sess != nil {
			s.sess.Close()
		}
	})
}

// listen runs on the session's timer goroutine. Ticks are dropped when the
// buffer is full; other events wait for room.
func (s *Screen) listen(e session.Event) {
	if e.Kind == session.EventTick {
		select {
		case s.events <- e:
		case <-s.closed:
		default:
		}
		return
	}
	select {
	case s.events <- e:
	case <-s.closed:
	}
}

func (s *Screen) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-s.events:
			return eventMsg(e)
		case <-s.closed:
			return nil
		}
	}
}

func (s *Screen) bootstrap() tea.Cmd {
	opts := s.opts
	return func() tea.Msg {
		sess, err := session.Bootstrap(opts.Context, opts.User, opts.Loader, opts.Session)
		return bootstrappedMsg{sess: sess, err: err}
	}
}

func (s *Screen) submit() tea.Cmd {
	sess, ctx := s.sess, s.ctx
	return func() tea.Msg {
		outcome, err := sess.Submit(ctx)
		return submitDoneMsg{outcome: outcome, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bootstrappedMsg:
		return s.handleBootstrap(msg)

	case eventMsg:
		return s.handleEvent(session.Event(msg))

	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case confirmResultMsg:
		s.mode = modeTest
		if msg.submit && s.sess != nil {
			return s, s.submit()
		}
		return s, nil

	case components.OptionChosenMsg:
		if s.sess != nil {
			_ = s.sess.Select(testconfig.OptionCode(msg.Index))
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleBootstrap(msg bootstrappedMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.err = msg.err
		return s, nil
	}
	select {
	case <-s.closed:
		// The screen left the stack while loading.
		msg.sess.Close()
		return s, nil
	default:
	}
	s.sess = msg.sess
	s.test = msg.sess.Test()
	s.syncOptions()
	return s, s.waitForEvent()
}

func (s *Screen) handleEvent(e session.Event) (screen.Screen, tea.Cmd) {
	next := s.waitForEvent()
	switch e.Kind {
	case session.EventExpired:
		s.mode = modeTest
	case session.EventCompleted:
		if s.opts.Session.Saver == nil {
			return s, s.finish()
		}
	case session.EventPersisted, session.EventPersistFailed:
		return s, s.finish()
	case session.EventSubmitFailed:
		s.keys.Retry.SetEnabled(true)
	}
	return s, next
}

func (s *Screen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	switch {
	case msg.err == nil:
		return s, s.finish()
	case errors.Is(msg.err, session.ErrSubmitInFlight), errors.Is(msg.err, session.ErrCompleted):
		// The automatic submission owns the result; its events follow.
		return s, nil
	default:
		s.keys.Retry.SetEnabled(true)
		return s, nil
	}
}

// finish swaps this screen for the results once the outcome is final.
func (s *Screen) finish() tea.Cmd {
	if s.done {
		return nil
	}
	outcome := s.sess.Outcome()
	if outcome == nil {
		return nil
	}
	s.done = true
	marked := s.sess.Snapshot().MarkedCount
	next := results.New(s.test, outcome, marked)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.sess == nil || s.done {
		return s, nil
	}

	switch s.mode {
	case modeConfirm:
		var cmd tea.Cmd
		s.confirm, cmd = s.confirm.Update(msg)
		return s, cmd
	case modeJump:
		return s.handleJumpKey(msg)
	}

	snap := s.sess.Snapshot()
	if snap.Phase == session.PhaseSubmitting {
		if snap.SubmitErr != nil && key.Matches(msg, s.keys.Retry) {
			s.keys.Retry.SetEnabled(false)
			return s, s.submit()
		}
		return s, nil
	}
	if snap.Phase != session.PhaseInProgress {
		return s, nil
	}

	switch {
	case key.Matches(msg, s.keys.Next):
		s.sess.Next()
		s.syncOptions()
	case key.Matches(msg, s.keys.Prev):
		s.sess.Previous()
		s.syncOptions()
	case key.Matches(msg, s.keys.Clear):
		_ = s.sess.Clear()
		s.syncOptions()
	case key.Matches(msg, s.keys.Mark):
		_, _ = s.sess.ToggleReview()
	case key.Matches(msg, s.keys.Jump):
		s.mode = modeJump
		s.jump = components.NewNumberInput("Go to question: ", 1, snap.Total)
		return s, s.jump.Init()
	case key.Matches(msg, s.keys.Submit):
		s.mode = modeConfirm
		s.confirm = s.newConfirm(snap)
	case key.Matches(msg, s.keys.Dismiss):
		if snap.WarningVisible {
			s.sess.DismissWarning()
		}
	case key.Matches(msg, s.keys.Help):
		s.help.ShowAll = !s.help.ShowAll
	default:
		var cmd tea.Cmd
		s.options, cmd = s.options.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleJumpKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeTest
		return s, nil
	case "enter":
		n, err := s.jump.Number()
		if err != nil {
			return s, nil
		}
		s.sess.JumpTo(n - 1)
		s.syncOptions()
		s.mode = modeTest
		return s, nil
	}
	var cmd tea.Cmd
	s.jump, cmd = s.jump.Update(msg)
	return s, cmd
}

// confirmResultMsg closes the submit dialog.
type confirmResultMsg struct{ submit bool }

func (s *Screen) newConfirm(snap session.Snapshot) components.Confirm {
	detail := confirmDetail(snap)
	return components.NewConfirm(
		"Submit the test?", detail, "Submit", "Keep going",
		func() tea.Cmd { return func() tea.Msg { return confirmResultMsg{submit: true} } },
		func() tea.Cmd { return func() tea.Msg { return confirmResultMsg{submit: false} } },
	)
}

// syncOptions rebuilds the option list for the current question.
func (s *Screen) syncOptions() {
	snap := s.sess.Snapshot()
	q := s.test.Questions[snap.Current]
	chosen := -1
	if snap.Current < len(snap.Answers) && snap.Answers[snap.Current] != "" {
		chosen = testconfig.OptionIndex(snap.Answers[snap.Current])
	}
	s.options = components.NewOptionList(q.Options, chosen)
}
