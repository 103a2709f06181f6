package session

import (
	"fmt"
	"time"
)

const (
	// WarningThreshold is the remaining-seconds mark that opens the warning zone.
	WarningThreshold = 300

	// TickInterval is the countdown resolution.
	TickInterval = time.Second

	// WarningDismissAfter is how long the warning stays visible.
	WarningDismissAfter = 5 * time.Second
)

// TickOutcome reports what a single tick did.
type TickOutcome struct {
	Remaining int

	// Warning is set on the tick that lands exactly on WarningThreshold.
	Warning bool

	// Expired is set on the tick that lands on zero. Later ticks never set it.
	Expired bool
}

// Timer is a countdown in whole seconds. It has no clock of its own; the
// session drives it through a Scheduler.
type Timer struct {
	total     int
	remaining int
}

// NewTimer starts a countdown of totalSeconds. Negative totals clamp to zero.
func NewTimer(totalSeconds int) *Timer {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return &Timer{total: totalSeconds, remaining: totalSeconds}
}

// Tick decrements by one second. At zero it is a no-op.
func (t *Timer) Tick() TickOutcome {
	if t.remaining == 0 {
		return TickOutcome{}
	}
	t.remaining--
	return TickOutcome{
		Remaining: t.remaining,
		Warning:   t.remaining == WarningThreshold,
		Expired:   t.remaining == 0,
	}
}

func (t *Timer) Remaining() int { return t.remaining }

func (t *Timer) Total() int { return t.total }

// Elapsed returns the seconds consumed so far.
func (t *Timer) Elapsed() int { return t.total - t.remaining }

func (t *Timer) IsWarningZone() bool { return t.remaining <= WarningThreshold }

func (t *Timer) IsExpired() bool { return t.remaining == 0 }

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
