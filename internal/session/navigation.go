package session

// Navigator tracks the displayed question. Movement saturates at both ends.
type Navigator struct {
	current int
	n       int
}

// NewNavigator starts at question 0 of n.
func NewNavigator(n int) *Navigator {
	return &Navigator{n: n}
}

func (nv *Navigator) Current() int { return nv.current }

func (nv *Navigator) Len() int { return nv.n }

// Next moves forward unless on the last question.
func (nv *Navigator) Next() {
	if nv.current < nv.n-1 {
		nv.current++
	}
}

// Previous moves back unless on the first question.
func (nv *Navigator) Previous() {
	if nv.current > 0 {
		nv.current--
	}
}

// JumpTo moves to index when it is in range and reports whether it moved.
func (nv *Navigator) JumpTo(index int) bool {
	if index < 0 || index >= nv.n {
		return false
	}
	nv.current = index
	return true
}

func (nv *Navigator) IsFirst() bool { return nv.current == 0 }

func (nv *Navigator) IsLast() bool { return nv.current == nv.n-1 }
