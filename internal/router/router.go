// Package router keeps the stack of screens shown by the app. Screens
// navigate by returning one of the messages below from a command.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/jeeace/jeeace/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg returns to the previous screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen, as when a finished
// test hands over to its results.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router owns the screen stack. The bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// Push starts s above the active screen.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the active screen unless it is the last one.
func (r *Router) Pop() tea.Cmd {
	if r.top() < 1 {
		return nil
	}
	release(r.stack[r.top()])
	r.stack[r.top()] = nil
	r.stack = r.stack[:r.top()]
	return nil
}

// Replace closes the active screen and starts s in its place.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if r.top() < 0 {
		return r.Push(s)
	}
	release(r.stack[r.top()])
	r.stack[r.top()] = s
	return s.Init()
}

// Close releases every screen, topmost first.
func (r *Router) Close() {
	for i := r.top(); i >= 0; i-- {
		release(r.stack[i])
	}
}

func (r *Router) Active() screen.Screen {
	if r.top() < 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case PushScreenMsg:
		return r.Push(m.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(m.Screen)
	}
	if r.top() < 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}

func release(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}
