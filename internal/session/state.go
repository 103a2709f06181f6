package session

// Phase represents the lifecycle phase of a test session.
type Phase int

const (
	PhaseBootstrapping Phase = iota // Loading the test configuration
	PhaseInProgress                 // Timer running, answers editable
	PhaseSubmitting                 // Submission started; stays here if evaluation fails
	PhaseCompleted                  // Evaluation result received
)

func (p Phase) String() string {
	switch p {
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseInProgress:
		return "in-progress"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// EventKind identifies a session notification.
type EventKind int

const (
	EventTick           EventKind = iota // One second elapsed
	EventWarning                         // Entered the last five minutes
	EventWarningCleared                  // Warning auto-dismissed
	EventExpired                         // Timer reached zero
	EventSubmitting                      // Evaluation request sent
	EventSubmitFailed                    // Evaluation failed; Err is set
	EventCompleted                       // Result available
	EventPersisted                       // Result saved; ResultID is set
	EventPersistFailed                   // Result not saved; Err is set
)

func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventWarning:
		return "warning"
	case EventWarningCleared:
		return "warning-cleared"
	case EventExpired:
		return "expired"
	case EventSubmitting:
		return "submitting"
	case EventSubmitFailed:
		return "submit-failed"
	case EventCompleted:
		return "completed"
	case EventPersisted:
		return "persisted"
	case EventPersistFailed:
		return "persist-failed"
	default:
		return "unknown"
	}
}

// Event is delivered to the session listener outside the session lock.
type Event struct {
	Kind      EventKind
	Remaining int
	ResultID  string
	Err       error
}

// Snapshot is a consistent copy of session state for rendering.
type Snapshot struct {
	Phase          Phase
	Current        int
	Total          int
	Remaining      int
	TimeLimit      int
	WarningVisible bool
	WarningZone    bool
	Answers        []string
	Marked         []bool
	AnsweredCount  int
	MarkedCount    int
	SubmitErr      error
}

// Unanswered returns the number of questions without a selection.
func (s Snapshot) Unanswered() int {
	return s.Total - s.AnsweredCount
}
