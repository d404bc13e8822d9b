package timing

import (
	"strings"

	"github.com/roach88/timesheet/internal/dom"
)

// State is the lifecycle state of a timed element.
type State int

const (
	// stateInit is the zero value before the first Reset.
	stateInit State = iota
	Idle
	Active
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Done:
		return "done"
	default:
		return ""
	}
}

func (s State) target() dom.TargetState {
	switch s {
	case Active:
		return dom.StateActive
	case Done:
		return dom.StateDone
	default:
		return dom.StateIdle
	}
}

// Kind selects a container's composition semantics.
type Kind int

const (
	Par Kind = iota + 1
	Seq
	Excl
)

func (k Kind) String() string {
	switch k {
	case Par:
		return "par"
	case Seq:
		return "seq"
	case Excl:
		return "excl"
	default:
		return "unknown"
	}
}

// ParseKind maps "par", "seq" and "excl" (any case) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "par":
		return Par, true
	case "seq":
		return Seq, true
	case "excl":
		return Excl, true
	}
	return 0, false
}

// Fill values.
const (
	FillRemove = "remove"
	FillHold   = "hold"
)

// Observer receives state and index transitions. Elements leave their zero
// construction state silently while the tree is built, so every reported
// transition starts from idle, active or done, and a root's first Show is
// reported as idle -> active.
type Observer interface {
	StateChanged(te TimedElement, from, to State)
	IndexChanged(c *Container, from, to int)
}
