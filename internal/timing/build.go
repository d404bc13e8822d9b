package timing

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/clock"
	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/events"
)

const actionNone = "none"

type builder struct {
	doc         *dom.Document
	env         env
	ticker      clock.Ticker
	now         func() time.Time
	tickRate    time.Duration
	seekEpsilon float64
	media       MediaResolver
	reg         *Registry
	declared    map[*html.Node]bool
}

// Build scans doc for time containers and constructs the time tree.
//
// Containers are declared inline (a timeContainer attribute or a par, seq or
// excl element) or inside a <timesheet> element whose <item select="...">
// children time the elements matched by a CSS selector. Children are built
// before their container's clock and intervals, so nested containers are
// fully initialized when the parent computes its schedule. Roots are left
// idle until Registry.Start. The one exception is an excl container whose
// first child is scheduled at zero: that child is shown, and the observer
// told, while the tree is built.
func Build(doc *dom.Document, opts ...Option) (*Registry, error) {
	if doc == nil {
		return nil, &BuildError{Code: ErrCodeNoDocument, Message: "no document to build from"}
	}
	b := &builder{
		doc:         doc,
		now:         time.Now,
		tickRate:    clock.DefaultTickRate,
		seekEpsilon: DefaultSeekEpsilon,
		declared:    make(map[*html.Node]bool),
	}
	b.env.logger = slog.Default()
	for _, opt := range opts {
		opt(b)
	}
	if b.env.logger == nil {
		b.env.logger = slog.Default()
	}
	if b.ticker == nil {
		return nil, &BuildError{Code: ErrCodeNoTicker, Message: "internal clocks need a ticker"}
	}
	if b.env.bus == nil {
		b.env.bus = events.New(events.WithLogger(b.env.logger))
	}
	b.reg = newRegistry(doc, b.env.bus)

	b.walk(doc.Root())
	for _, c := range b.reg.roots {
		c.initIdle()
	}

	b.env.logger.Debug("time tree built",
		"containers", len(b.reg.containers),
		"roots", len(b.reg.roots),
		"issues", len(b.reg.issues))
	return b.reg, nil
}

// walk visits the whole document in order. Any container not already claimed
// by an enclosing container becomes a root, including containers nested
// inside timed leaves.
func (b *builder) walk(n *html.Node) {
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		if el.Type != html.ElementNode {
			continue
		}
		if dom.LocalName(el) == "timesheet" {
			for _, child := range dom.ChildElements(el) {
				if kind, ok := b.kindOf(child); ok && !b.declared[child] {
					b.root(child, kind)
				}
			}
			continue
		}
		if !b.declared[el] {
			if kind, ok := b.kindOf(el); ok {
				b.root(el, kind)
			}
		}
		b.walk(el)
	}
}

func (b *builder) root(el *html.Node, kind Kind) {
	if b.actionOf(el, nil) == actionNone {
		return
	}
	b.container(el, nil, el, kind)
}

func isContainerTag(el *html.Node) bool {
	_, ok := ParseKind(dom.LocalName(el))
	return ok
}

func (b *builder) kindOf(el *html.Node) (Kind, bool) {
	if kind, ok := ParseKind(dom.LocalName(el)); ok {
		return kind, true
	}
	v, ok := dom.TimingAttr(el, "timeContainer")
	if !ok {
		return 0, false
	}
	kind, ok := ParseKind(v)
	if !ok {
		b.issue(ErrCodeUnknownKind, el, "unknown timeContainer "+strconv.Quote(v), nil)
	}
	return kind, ok
}

func (b *builder) actionOf(el *html.Node, parent *Container) string {
	if v, ok := dom.TimingAttr(el, "timeAction"); ok {
		return strings.ToLower(v)
	}
	if parent != nil {
		return parent.action
	}
	return "intrinsic"
}

func (b *builder) issue(code BuildErrorCode, el *html.Node, msg string, err error) {
	be := &BuildError{Code: code, Message: msg, Element: dom.Describe(el), Err: err}
	b.reg.issues = append(b.reg.issues, be)
	b.env.logger.Warn("ignoring timing declaration",
		"code", string(code),
		"element", be.Element,
		"reason", msg,
		"error", err)
}

func (b *builder) initNode(n *Node, self TimedElement, el *html.Node, parent *Container, target *html.Node) {
	if target != nil && isContainerTag(target) {
		target = nil
	}
	b.declared[el] = true
	if target != nil {
		b.declared[target] = true
	}
	n.self = self
	n.env = &b.env
	n.element = el
	n.target = target
	n.parent = parent
	n.eventTarget = target
	if n.eventTarget == nil && parent != nil {
		n.eventTarget = parent.eventTarget
	}
	n.action = b.actionOf(el, parent)

	attr := func(name string) string {
		v, _ := dom.TimingAttr(el, name)
		return v
	}
	n.begin = ParseValue(attr("begin"))
	n.dur = ParseValue(attr("dur"))
	n.end = ParseValue(attr("end"))
	n.fillDefault = strings.ToLower(attr("fillDefault"))
	n.fill = strings.ToLower(attr("fill"))
	if n.fill == "" && parent != nil {
		n.fill = parent.fillDefault
	}
	if n.fill == "" {
		n.fill = FillRemove
	}

	n.handler = dom.NewTargetHandler(n.action, n.target)
	n.timeIn, n.timeOut = Unresolved, Unresolved
	n.declIn, n.declOut = Unresolved, Unresolved
	n.beginTriggers = b.triggers(n, n.begin.Events)
	n.endTriggers = b.triggers(n, n.end.Events)
	b.bindCallbacks(n)
}

func (b *builder) triggers(n *Node, refs []EventRef) []trigger {
	var out []trigger
	for _, ref := range refs {
		target := n.eventTarget
		if ref.ElementID != "" {
			if target = b.doc.ByID(ref.ElementID); target == nil {
				b.issue(ErrCodeUnknownReference, n.element, "no element with id "+strconv.Quote(ref.ElementID), nil)
				continue
			}
		}
		out = append(out, trigger{target: target, name: ref.Event})
	}
	return out
}

func (b *builder) bindCallbacks(n *Node) {
	for _, name := range []string{"begin", "end"} {
		src, ok := dom.TimingAttr(n.element, "on"+name)
		if !ok {
			continue
		}
		actions, err := ParseActions(src)
		if err != nil {
			b.issue(ErrCodeBadAction, n.element, "on"+name+" ignored", err)
			continue
		}
		if n.callbacks == nil {
			n.callbacks = make(map[string][]func())
		}
		reg := b.reg
		for _, a := range actions {
			n.callbacks[name] = append(n.callbacks[name], func() { reg.run(n, a) })
		}
	}
}

func (b *builder) container(el *html.Node, parent *Container, target *html.Node, kind Kind) *Container {
	c := &Container{
		kind:         kind,
		currentIndex: -1,
		seekEpsilon:  b.seekEpsilon,
	}
	b.initNode(&c.Node, c, el, parent, target)
	c.repeatCount = 1
	if v, ok := dom.TimingAttr(el, "repeatCount"); ok {
		c.repeatCount = parseRepeatCount(v)
	}
	switch {
	case c.dur.IsSet():
		c.duration = c.dur.Seconds
	case c.begin.Resolved() && c.end.Resolved():
		c.duration = c.end.Seconds - c.begin.Seconds
	default:
		c.duration = Indefinite
	}
	b.reg.add(c)

	syncMaster := b.children(c)
	c.clk = b.clockFor(c, syncMaster)
	c.clk.SetOnTick(c.update)
	computeIntervals(c)
	if kind != Par {
		b.bindNavigation(c)
	}
	return c
}

// children builds the child nodes of c and returns the element flagged as
// syncMaster, if any.
func (b *builder) children(c *Container) *html.Node {
	var syncMaster *html.Node
	add := func(te TimedElement) {
		n := te.Base()
		if k := len(c.children); k > 0 {
			prev := c.children[k-1]
			prev.Base().next = te
			n.prev = prev
		}
		c.children = append(c.children, te)
		if v, ok := dom.TimingAttr(n.element, "syncMaster"); ok && v != "false" && syncMaster == nil {
			syncMaster = n.target
		}
	}
	for _, el := range dom.ChildElements(c.element) {
		if dom.LocalName(el) != "item" {
			if te := b.child(el, c, el); te != nil {
				add(te)
			}
			continue
		}
		sel, ok := dom.TimingAttr(el, "select")
		if !ok {
			continue
		}
		scope := c.eventTarget
		if scope == nil {
			scope = b.doc.Root()
		}
		targets, err := dom.Select(scope, sel)
		if err != nil {
			b.issue(ErrCodeBadSelector, el, "item select ignored", err)
			continue
		}
		inc := Unresolved
		if v, ok := dom.TimingAttr(el, "beginInc"); ok {
			inc = ParseTime(v)
		}
		for j, target := range targets {
			te := b.child(el, c, target)
			if te == nil {
				continue
			}
			if n := te.Base(); !n.begin.IsSet() && isFinite(inc) {
				s := float64(j) * inc
				n.begin = Value{Raw: strconv.FormatFloat(s, 'f', -1, 64) + "s", Seconds: s}
			}
			add(te)
		}
	}
	return syncMaster
}

func (b *builder) child(el *html.Node, parent *Container, target *html.Node) TimedElement {
	if b.actionOf(el, parent) == actionNone {
		return nil
	}
	if kind, ok := b.kindOf(el); ok {
		return b.container(el, parent, target, kind)
	}
	n := &Node{}
	b.initNode(n, n, el, parent, target)
	b.reg.add(n)
	return n
}

func (b *builder) clockFor(c *Container, syncMaster *html.Node) clock.Clock {
	media := syncMaster
	if sel, ok := dom.TimingAttr(c.element, "mediaSync"); ok {
		el, err := b.doc.FindOne(sel)
		if err != nil {
			b.issue(ErrCodeBadSelector, c.element, "mediaSync ignored", err)
		} else {
			media = el
		}
	}
	c.media = media
	if media != nil && b.media != nil {
		if src := b.media(media); src != nil {
			c.external = true
			return clock.NewExternal(src, clock.WithLogger(b.env.logger))
		}
	}
	if media != nil {
		b.env.logger.Debug("media element has no source, using internal clock",
			"container", c.Label(),
			"media", dom.Describe(media))
	}
	return clock.NewInternal(b.ticker, clock.WithRate(b.tickRate), clock.WithNow(b.now))
}

// bindNavigation wires the first/prev/next/last event attributes of a seq or
// excl container. These listeners stay live for the life of the tree.
func (b *builder) bindNavigation(c *Container) {
	nav := []struct {
		attr string
		fn   func()
	}{
		{"first", c.First},
		{"prev", c.Prev},
		{"next", c.Next},
		{"last", c.Last},
	}
	for _, entry := range nav {
		raw, ok := dom.TimingAttr(c.element, entry.attr)
		if !ok {
			continue
		}
		fn := entry.fn
		for _, t := range b.triggers(&c.Node, ParseEvents(raw)) {
			b.env.bus.Subscribe(t.target, t.name, func(events.Event) { fn() })
		}
	}
}
