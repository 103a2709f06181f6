package taketest

import (
	"github.com/jeeace/jeeace/internal/session"
)

// bootstrappedMsg carries the started session or the reason it could not
// start.
type bootstrappedMsg struct {
	sess *session.Session
	err  error
}

// eventMsg wraps a session event delivered through the listener channel.
type eventMsg session.Event

// submitDoneMsg is returned by a user-initiated submission.
type submitDoneMsg struct {
	outcome *session.Outcome
	err     error
}
