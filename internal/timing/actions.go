package timing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Action is one step of an onbegin/onend callback. The grammar is
//
//	[id.]verb[(arg)] { ";" [id.]verb[(arg)] }
//
// where id names a container (or, for trigger, any element). Without an id a
// container acts on itself and a leaf acts on its parent.
type Action struct {
	Target string
	Verb   string
	Arg    string
}

// Action verbs.
const (
	VerbFirst   = "first"
	VerbPrev    = "prev"
	VerbNext    = "next"
	VerbLast    = "last"
	VerbSelect  = "select"
	VerbPlay    = "play"
	VerbPause   = "pause"
	VerbStop    = "stop"
	VerbReset   = "reset"
	VerbSeek    = "seek"
	VerbTrigger = "trigger"
)

type argRule int

const (
	noArg argRule = iota
	indexArg
	timeArg
	nameArg
)

var verbs = map[string]argRule{
	VerbFirst:   noArg,
	VerbPrev:    noArg,
	VerbNext:    noArg,
	VerbLast:    noArg,
	VerbSelect:  indexArg,
	VerbPlay:    noArg,
	VerbPause:   noArg,
	VerbStop:    noArg,
	VerbReset:   noArg,
	VerbSeek:    timeArg,
	VerbTrigger: nameArg,
}

var actionPattern = regexp.MustCompile(`^(?:([A-Za-z_][\w-]*)\.)?([a-z]+)(?:\(\s*([^()]*?)\s*\))?$`)

func (a Action) String() string {
	s := a.Verb
	if a.Target != "" {
		s = a.Target + "." + s
	}
	if a.Arg != "" {
		s += "(" + a.Arg + ")"
	}
	return s
}

// ParseActions parses a callback attribute. The whole attribute is rejected
// if any step is malformed.
func ParseActions(src string) ([]Action, error) {
	var actions []Action
	for _, part := range strings.Split(src, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := actionPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("malformed action %q", part)
		}
		a := Action{Target: m[1], Verb: m[2], Arg: m[3]}
		if err := a.validate(); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (a Action) validate() error {
	rule, ok := verbs[a.Verb]
	if !ok {
		return fmt.Errorf("unknown action verb %q", a.Verb)
	}
	switch rule {
	case noArg:
		if a.Arg != "" {
			return fmt.Errorf("action %q takes no argument", a.Verb)
		}
	case indexArg:
		if i, err := strconv.Atoi(a.Arg); err != nil || i < 0 {
			return fmt.Errorf("action %q needs a non-negative index, got %q", a.Verb, a.Arg)
		}
	case timeArg:
		if !isFinite(ParseTime(a.Arg)) {
			return fmt.Errorf("action %q needs a time, got %q", a.Verb, a.Arg)
		}
	case nameArg:
		if a.Arg == "" {
			return fmt.Errorf("action %q needs an event name", a.Verb)
		}
	}
	return nil
}

// run executes a against the tree. References are resolved at call time so
// callbacks may name containers declared later in the document.
func (r *Registry) run(n *Node, a Action) {
	logger := n.env.logger
	if a.Verb == VerbTrigger {
		target := n.eventTarget
		if a.Target != "" {
			if target = r.doc.ByID(a.Target); target == nil {
				logger.Warn("action target not found", "action", a.String(), "node", n.Label())
				return
			}
		}
		n.env.bus.Publish(target, a.Arg, n.Label())
		return
	}

	c := r.actionContainer(n, a.Target)
	if c == nil {
		logger.Warn("action has no container", "action", a.String(), "node", n.Label())
		return
	}
	switch a.Verb {
	case VerbFirst:
		c.First()
	case VerbPrev:
		c.Prev()
	case VerbNext:
		c.Next()
	case VerbLast:
		c.Last()
	case VerbSelect:
		i, _ := strconv.Atoi(a.Arg)
		c.SelectIndex(i)
	case VerbPlay:
		c.Play()
	case VerbPause:
		c.Pause()
	case VerbStop:
		c.Stop()
	case VerbReset:
		c.Reset()
	case VerbSeek:
		c.SetCurrentTime(ParseTime(a.Arg))
	}
}

func (r *Registry) actionContainer(n *Node, id string) *Container {
	if id != "" {
		return r.ContainerByID(id)
	}
	if c, ok := n.self.(*Container); ok {
		return c
	}
	return n.parent
}
