// Package screen defines what the app needs from each screen it shows.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/jeeace/jeeace/internal/ui/layout"
)

// Screen is one page of the app. View draws only the area between the
// header and the footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints. A nil result keeps
// the defaults.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider fills the right side of the header.
type StatusProvider interface {
	Status() string
}

// Closer releases background work when the screen leaves the stack.
type Closer interface {
	Close()
}
