package session

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent and safe to call
// after the callback ran.
type Handle interface {
	Cancel()
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
}

// ClockScheduler schedules on the wall clock.
type ClockScheduler struct{}

func (ClockScheduler) AfterFunc(d time.Duration, fn func()) Handle {
	return clockHandle{time.AfterFunc(d, fn)}
}

type clockHandle struct{ t *time.Timer }

func (h clockHandle) Cancel() { h.t.Stop() }

// ManualScheduler is a Scheduler driven by Advance, for tests. Callbacks run
// on the goroutine calling Advance, in due order.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTask
}

type manualTask struct {
	due       time.Duration
	seq       int
	fn        func()
	cancelled bool
	s         *ManualScheduler
}

func (t *manualTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.cancelled = true
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{due: m.now + d, seq: m.seq, fn: fn, s: m}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves time forward by d, running every callback that falls due,
// including callbacks scheduled by other callbacks within the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.popDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.due
		m.mu.Unlock()
		t.fn()
	}
}

// Pending returns the number of live callbacks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Now returns the virtual time elapsed.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// popDue removes and returns the earliest live task due at or before target.
// Caller holds mu.
func (m *ManualScheduler) popDue(target time.Duration) *manualTask {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.pending = live
	if len(m.pending) == 0 {
		return nil
	}
	sort.Slice(m.pending, func(i, j int) bool {
		if m.pending[i].due != m.pending[j].due {
			return m.pending[i].due < m.pending[j].due
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	t := m.pending[0]
	if t.due > target {
		return nil
	}
	m.pending = m.pending[1:]
	return t
}
