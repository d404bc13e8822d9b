// Package events is the synchronous publish/subscribe bus that carries
// begin, end and change notifications and the DOM-style trigger events
// (click, keydown, custom names) that drive event-based timing.
//
// Dispatch is depth-first and synchronous: Publish returns only after every
// handler, and every publish those handlers made in turn, has run. Handlers
// may publish re-entrantly; the bus bounds the nesting depth and drops
// publishes beyond it with a warning instead of recursing without limit.
//
// The bus belongs to a single session goroutine and is not safe for
// concurrent use.
package events

import (
	"log/slog"

	"golang.org/x/net/html"
)

// DefaultMaxDepth bounds re-entrant dispatch.
const DefaultMaxDepth = 16

// Event is one published notification. A nil Target addresses the document.
type Event struct {
	Target *html.Node
	Name   string
	Detail string
}

// Handler receives events.
type Handler func(Event)

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type key struct {
	target *html.Node
	name   string
}

type subscription struct {
	id SubscriptionID
	fn Handler
}

// Bus routes events from publishers to the handlers subscribed on the same
// (target, name) pair.
type Bus struct {
	nextID   SubscriptionID
	subs     map[key][]subscription
	index    map[SubscriptionID]key
	taps     map[SubscriptionID]Handler
	tapOrder []SubscriptionID
	depth    int
	maxDepth int
	dropped  int
	logger   *slog.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithMaxDepth sets the re-entrant dispatch bound. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(b *Bus) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used for dropped dispatches.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subs:     make(map[key][]subscription),
		index:    make(map[SubscriptionID]key),
		taps:     make(map[SubscriptionID]Handler),
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for events named name published on target.
func (b *Bus) Subscribe(target *html.Node, name string, fn Handler) SubscriptionID {
	b.nextID++
	id := b.nextID
	k := key{target: target, name: name}
	b.subs[k] = append(b.subs[k], subscription{id: id, fn: fn})
	b.index[id] = k
	return id
}

// Unsubscribe removes a subscription or tap. Unknown ids are ignored, so
// callers may unsubscribe unconditionally.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	if _, ok := b.taps[id]; ok {
		delete(b.taps, id)
		for i, t := range b.tapOrder {
			if t == id {
				b.tapOrder = append(b.tapOrder[:i], b.tapOrder[i+1:]...)
				break
			}
		}
		return
	}
	k, ok := b.index[id]
	if !ok {
		return
	}
	delete(b.index, id)
	list := b.subs[k]
	for i, s := range list {
		if s.id == id {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(b.subs, k)
	} else {
		b.subs[k] = list
	}
}

// Tap registers fn to observe every published event before its subscribers
// run. Taps are used by recorders and never see dropped events.
func (b *Bus) Tap(fn Handler) SubscriptionID {
	b.nextID++
	id := b.nextID
	b.taps[id] = fn
	b.tapOrder = append(b.tapOrder, id)
	return id
}

// Publish dispatches an event synchronously. It returns false when the event
// was dropped because dispatch was already nested maxDepth deep.
//
// Handlers removed by an earlier handler of the same dispatch are skipped;
// handlers added during dispatch first see the next publish.
func (b *Bus) Publish(target *html.Node, name, detail string) bool {
	if b.depth >= b.maxDepth {
		b.dropped++
		b.logger.Warn("event dispatch depth exceeded, dropping event",
			"event", name,
			"depth", b.depth,
			"max_depth", b.maxDepth)
		return false
	}
	b.depth++
	defer func() { b.depth-- }()

	evt := Event{Target: target, Name: name, Detail: detail}

	taps := make([]Handler, 0, len(b.tapOrder))
	for _, id := range b.tapOrder {
		taps = append(taps, b.taps[id])
	}
	for _, tap := range taps {
		tap(evt)
	}

	list := b.subs[key{target: target, name: name}]
	snapshot := make([]subscription, len(list))
	copy(snapshot, list)
	for _, s := range snapshot {
		if _, live := b.index[s.id]; !live {
			continue
		}
		s.fn(evt)
	}
	return true
}

// Subscribers returns how many handlers listen for name on target.
func (b *Bus) Subscribers(target *html.Node, name string) int {
	return len(b.subs[key{target: target, name: name}])
}

// Dropped returns how many publishes were discarded by the depth bound.
func (b *Bus) Dropped() int {
	return b.dropped
}
