package timing

import (
	"log/slog"
	"math"

	"github.com/cbsinteractive/pkg/timecode"
	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/events"
)

// TimedElement is implemented by *Node and *Container.
type TimedElement interface {
	Show()
	Hide()
	Reset()
	IsActive() bool
	State() State
	Base() *Node
}

// Bus is the event transport nodes publish to and subscribe on.
type Bus interface {
	Subscribe(target *html.Node, name string, fn events.Handler) events.SubscriptionID
	Unsubscribe(id events.SubscriptionID)
	Publish(target *html.Node, name, detail string) bool
}

// env is shared by every node of one built tree.
type env struct {
	bus      Bus
	observer Observer
	logger   *slog.Logger
}

func (e *env) stateChanged(te TimedElement, from, to State) {
	if e.observer != nil && from != stateInit {
		e.observer.StateChanged(te, from, to)
	}
}

type trigger struct {
	target *html.Node
	name   string
}

// Node is a leaf time node. Containers embed it.
type Node struct {
	self        TimedElement
	env         *env
	element     *html.Node
	target      *html.Node
	eventTarget *html.Node
	parent      *Container
	prev, next  TimedElement

	begin, dur, end Value
	fill            string
	fillDefault     string
	action          string

	timeIn, timeOut float64
	declIn, declOut float64

	state   State
	handler dom.TargetHandler

	beginTriggers, endTriggers []trigger
	callbacks                  map[string][]func()
	armed                      []events.SubscriptionID
}

// Base returns n itself; it exposes the shared fields of a TimedElement.
func (n *Node) Base() *Node { return n }

func (n *Node) State() State   { return n.state }
func (n *Node) IsActive() bool { return n.state == Active }

// Element is the element that declared the node.
func (n *Node) Element() *html.Node { return n.element }

// Target is the element whose presentation the node controls. It is nil for
// nodes declared by bare par/seq/excl elements.
func (n *Node) Target() *html.Node { return n.target }

// EventTarget is where begin, end and change are published.
func (n *Node) EventTarget() *html.Node { return n.eventTarget }

// Parent is the owning container, nil for roots.
func (n *Node) Parent() *Container { return n.parent }

// Previous and Following return the neighboring siblings.
func (n *Node) Previous() TimedElement  { return n.prev }
func (n *Node) Following() TimedElement { return n.next }

func (n *Node) Begin() Value       { return n.begin }
func (n *Node) Dur() Value         { return n.dur }
func (n *Node) End() Value         { return n.end }
func (n *Node) Fill() string       { return n.fill }
func (n *Node) TimeAction() string { return n.action }

// Interval returns the effective [timeIn, timeOut) in parent time.
func (n *Node) Interval() (in, out float64) { return n.timeIn, n.timeOut }

// DeclaredInterval returns the interval computed from attributes, before any
// selection or event trigger rebased it.
func (n *Node) DeclaredInterval() (in, out float64) { return n.declIn, n.declOut }

// Range returns the effective interval when both bounds are finite.
func (n *Node) Range() (timecode.Range, bool) {
	if !isFinite(n.timeIn) || !isFinite(n.timeOut) {
		return timecode.Range{}, false
	}
	return timecode.Range{n.timeIn, n.timeOut}, true
}

// Label names the node for logs and traces.
func (n *Node) Label() string {
	if n.target != nil {
		return dom.Describe(n.target)
	}
	return dom.Describe(n.element)
}

func (n *Node) Show() {
	if n.state == Active {
		return
	}
	from := n.state
	n.state = Active
	n.handler.Apply(dom.StateActive)
	n.env.stateChanged(n.self, from, Active)
	n.dispatch("begin")
	n.armEnd()
}

func (n *Node) Hide() {
	if n.state == Done {
		return
	}
	from := n.state
	n.state = Done
	if n.fill != FillHold {
		n.handler.Apply(dom.StateDone)
	}
	n.env.stateChanged(n.self, from, Done)
	n.dispatch("end")
	n.armBegin()
}

// initIdle moves a node out of its zero state without notifying the
// observer, so its first activation reports idle -> active.
func (n *Node) initIdle() {
	if n.state != stateInit {
		return
	}
	n.state = Idle
	n.handler.Apply(dom.StateIdle)
}

func (n *Node) Reset() {
	if n.state == Idle {
		return
	}
	from := n.state
	n.state = Idle
	n.handler.Apply(dom.StateIdle)
	n.env.stateChanged(n.self, from, Idle)
	n.armBegin()
}

// dispatch publishes name on the event target, then runs the declared
// on<name> callbacks.
func (n *Node) dispatch(name string) {
	n.env.bus.Publish(n.eventTarget, name, n.Label())
	for _, fn := range n.callbacks[name] {
		fn()
	}
}

func (n *Node) disarm() {
	for _, id := range n.armed {
		n.env.bus.Unsubscribe(id)
	}
	n.armed = n.armed[:0]
}

// armBegin listens for the begin triggers; only one trigger set is live at a
// time.
func (n *Node) armBegin() {
	n.disarm()
	for _, t := range n.beginTriggers {
		n.armed = append(n.armed, n.env.bus.Subscribe(t.target, t.name, n.beginTriggered))
	}
}

func (n *Node) armEnd() {
	n.disarm()
	for _, t := range n.endTriggers {
		n.armed = append(n.armed, n.env.bus.Subscribe(t.target, t.name, n.endTriggered))
	}
}

func (n *Node) beginTriggered(events.Event) {
	p := n.parent
	if p == nil {
		n.self.Show()
		return
	}
	n.rebase(p.CurrentTime())
	p.SelectItem(n.self)
}

func (n *Node) endTriggered(events.Event) {
	p := n.parent
	if p == nil {
		n.self.Hide()
		return
	}
	now := p.CurrentTime()
	if p.kind == Seq {
		p.SelectIndex(p.currentIndex + 1)
	} else {
		p.setIndex(-1)
	}
	// Close the interval after selecting, which restores siblings.
	n.timeIn, n.timeOut = n.declIn, now
	if math.IsNaN(n.timeIn) || n.timeIn > now {
		n.timeIn = now
	}
	n.self.Hide()
}

// rebase moves the effective interval to start at now.
func (n *Node) rebase(now float64) {
	n.timeIn = now
	switch {
	case n.dur.Resolved():
		n.timeOut = now + n.dur.Seconds
	case n.declOut > now:
		n.timeOut = n.declOut
	default:
		n.timeOut = Indefinite
	}
}

func (n *Node) restore() {
	n.timeIn, n.timeOut = n.declIn, n.declOut
}
