package engine

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/clock"
	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/events"
	"github.com/roach88/timesheet/internal/journal"
	"github.com/roach88/timesheet/internal/navigation"
	"github.com/roach88/timesheet/internal/timing"
)

// Session runs one document: it owns the event bus, the time tree, the
// deep-link resolver and the recorder, and drives them from either virtual
// time or a real-time Loop.
//
// A Session is not safe for concurrent use. Virtual sessions are driven by
// the caller's goroutine; real-time sessions must only be touched from the
// Loop's goroutine (use Loop.Call).
type Session struct {
	id       string
	docName  string
	doc      *dom.Document
	virtual  *clock.Virtual
	loop     *Loop
	bus      *events.Bus
	reg      *timing.Registry
	resolver *navigation.Resolver
	recorder *Recorder
	journal  *journal.Journal
	logger   *slog.Logger

	tickRate        time.Duration
	mediaUpdateRate time.Duration
	mediaDuration   float64
	simulateMedia   bool
	seekEpsilon     float64
	maxDepth        int
	idGen           SessionIDGenerator

	fragment string
	cleanup  []func()
	started  bool
	closed   bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionIDGenerator sets how the session id is chosen.
// Default: UUIDv7Generator.
func WithSessionIDGenerator(gen SessionIDGenerator) SessionOption {
	return func(s *Session) { s.idGen = gen }
}

// WithDocumentName labels the session in the journal.
func WithDocumentName(name string) SessionOption {
	return func(s *Session) { s.docName = name }
}

// WithSessionJournal mirrors the trace into j.
func WithSessionJournal(j *journal.Journal) SessionOption {
	return func(s *Session) { s.journal = j }
}

// WithLoop runs the session in real time on loop. Virtual-time commands then
// fail with NOT_VIRTUAL.
func WithLoop(loop *Loop) SessionOption {
	return func(s *Session) { s.loop = loop }
}

// WithTickRate sets the internal clock tick period.
func WithTickRate(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.tickRate = d
		}
	}
}

// WithSeekEpsilon sets the offset added to seeks on media-synced clocks.
func WithSeekEpsilon(eps float64) SessionOption {
	return func(s *Session) { s.seekEpsilon = eps }
}

// WithMaxDispatchDepth bounds re-entrant event dispatch.
func WithMaxDispatchDepth(depth int) SessionOption {
	return func(s *Session) { s.maxDepth = depth }
}

// WithSimulatedMedia attaches an in-process media source to every media
// element the document synchronizes with. A media element's own duration
// attribute wins over the given default; rate is the time-update period.
func WithSimulatedMedia(duration float64, rate time.Duration) SessionOption {
	return func(s *Session) {
		s.simulateMedia = true
		s.mediaDuration = duration
		s.mediaUpdateRate = rate
	}
}

// WithSessionLogger sets the logger for the session and everything it builds.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession builds the time tree for doc. Nothing plays until Start.
func NewSession(doc *dom.Document, opts ...SessionOption) (*Session, error) {
	s := &Session{
		doc:             doc,
		logger:          slog.Default(),
		tickRate:        clock.DefaultTickRate,
		mediaUpdateRate: clock.DefaultMediaUpdateRate,
		seekEpsilon:     timing.DefaultSeekEpsilon,
		maxDepth:        events.DefaultMaxDepth,
		idGen:           UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.idGen.Generate()
	s.logger = s.logger.With("session", s.id)

	var ticker clock.Ticker
	now := time.Now
	if s.loop != nil {
		ticker = s.loop
	} else {
		s.virtual = clock.NewVirtual()
		ticker = s.virtual
		now = s.virtual.Now
	}

	s.bus = events.New(events.WithMaxDepth(s.maxDepth), events.WithLogger(s.logger))
	recOpts := []RecorderOption{WithRecorderLogger(s.logger)}
	if s.journal != nil {
		recOpts = append(recOpts, WithJournal(s.journal, s.id))
	}
	s.recorder = NewRecorder(NewSequence(), recOpts...)
	s.recorder.Attach(s.bus)

	buildOpts := []timing.Option{
		timing.WithTicker(ticker),
		timing.WithNow(now),
		timing.WithTickRate(s.tickRate),
		timing.WithSeekEpsilon(s.seekEpsilon),
		timing.WithBus(s.bus),
		timing.WithObserver(s.recorder),
		timing.WithLogger(s.logger),
	}
	if s.simulateMedia {
		buildOpts = append(buildOpts, timing.WithMediaResolver(func(el *html.Node) clock.MediaSource {
			return clock.NewSimulatedMedia(ticker, now, s.durationOf(el), s.mediaUpdateRate)
		}))
	}
	reg, err := timing.Build(doc, buildOpts...)
	if err != nil {
		return nil, err
	}
	s.reg = reg
	s.resolver = navigation.NewResolver(reg, navigation.WithLogger(s.logger))
	return s, nil
}

// durationOf reads a media element's duration attribute, if it has one.
func (s *Session) durationOf(el *html.Node) float64 {
	if v, ok := dom.Attr(el, "duration"); ok {
		if d := timing.ParseTime(v); !math.IsNaN(d) {
			return d
		}
	}
	return s.mediaDuration
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Registry exposes the built time tree.
func (s *Session) Registry() *timing.Registry { return s.reg }

// Document returns the host document the session mutates.
func (s *Session) Document() *dom.Document { return s.doc }

// Bus returns the session's event bus.
func (s *Session) Bus() *events.Bus { return s.bus }

// Fragment returns the last fragment written by hash navigation controls.
func (s *Session) Fragment() string { return s.fragment }

// Start registers the session in the journal, binds navigation controls and
// the one-media-at-a-time policy, and activates the roots. Calling Start
// again does nothing.
func (s *Session) Start(ctx context.Context) error {
	if s.started {
		return nil
	}
	s.started = true
	if s.journal != nil {
		err := s.journal.BeginSession(ctx, journal.Session{
			ID:        s.id,
			Document:  s.docName,
			StartedAt: time.Now(),
		})
		if err != nil {
			return err
		}
	}
	s.recorder.open(ctx)
	s.cleanup = append(s.cleanup,
		navigation.BindControls(s.reg, navigation.ControlOptions{
			SetFragment: func(f string) { s.fragment = f },
		}),
		ExclusiveMedia(s.reg, s.logger),
	)
	s.logger.Info("session starting",
		"document", s.docName,
		"containers", len(s.reg.Containers()),
		"roots", len(s.reg.Roots()))
	s.reg.Start()
	return nil
}

// Now returns the elapsed session time in seconds.
func (s *Session) Now() float64 {
	if s.virtual != nil {
		return s.virtual.Elapsed().Seconds()
	}
	return math.NaN()
}

// Advance moves virtual time forward by d, firing every tick that falls due.
func (s *Session) Advance(d time.Duration) error {
	if s.virtual == nil {
		return s.notVirtual("advance")
	}
	s.virtual.Advance(d)
	return nil
}

// AdvanceTo moves virtual time forward to t seconds after the session began.
// Times already passed are ignored.
func (s *Session) AdvanceTo(t float64) error {
	if s.virtual == nil {
		return s.notVirtual("advance")
	}
	target := time.Duration(t * float64(time.Second))
	if d := target - s.virtual.Elapsed(); d > 0 {
		s.virtual.Advance(d)
	}
	return nil
}

func (s *Session) notVirtual(op string) *SessionError {
	return &SessionError{
		Code:      ErrCodeNotVirtual,
		Message:   op + " needs a virtual-time session",
		SessionID: s.id,
	}
}

// Navigate applies a deep-link fragment. It reports whether anything was
// activated; unknown targets are not errors.
func (s *Session) Navigate(fragment string) bool {
	return s.resolver.Navigate(fragment)
}

// Select makes the child at index the container's current child.
func (s *Session) Select(containerID string, index int) error {
	c := s.reg.ContainerByID(containerID)
	if c == nil {
		return unknownContainer(s.id, containerID)
	}
	n := len(c.Children())
	if index < 0 || index >= n {
		return indexOutOfRange(s.id, containerID, index, n)
	}
	c.SelectIndex(index)
	return nil
}

// Seek sets a container's time and settles its children.
func (s *Session) Seek(containerID string, t float64) error {
	c := s.reg.ContainerByID(containerID)
	if c == nil {
		return unknownContainer(s.id, containerID)
	}
	c.SetCurrentTime(t)
	return nil
}

// Trigger publishes a DOM-style event on the element with the given id. An
// empty id addresses the document.
func (s *Session) Trigger(elementID, event string) error {
	var target *html.Node
	if elementID != "" {
		target = s.doc.ByID(elementID)
		if target == nil {
			return unknownElement(s.id, elementID)
		}
	}
	s.bus.Publish(target, event, "")
	return nil
}

// Trace returns the recorded transitions.
func (s *Session) Trace() []Record {
	return s.recorder.Records()
}

// Events returns the published event keys in order.
func (s *Session) Events() []string {
	return s.recorder.Events()
}

// Close stops every clock and unbinds the session's listeners. It returns the
// first journal failure seen during the session, if any.
func (s *Session) Close() error {
	if s.closed {
		return s.recorder.Err()
	}
	s.closed = true
	s.recorder.mute()
	for _, c := range s.reg.Containers() {
		c.Clock().Pause()
	}
	for _, fn := range s.cleanup {
		fn()
	}
	s.cleanup = nil
	return s.recorder.Err()
}

// Snapshot describes the tree at one instant.
type Snapshot struct {
	Time       float64             `json:"time"`
	Containers []ContainerSnapshot `json:"containers"`
	Nodes      []NodeSnapshot      `json:"nodes"`
}

// ContainerSnapshot is one container's view in a Snapshot.
type ContainerSnapshot struct {
	Node         string   `json:"node"`
	Kind         string   `json:"kind"`
	State        string   `json:"state"`
	CurrentIndex int      `json:"current_index"`
	Time         float64  `json:"time"`
	Active       []string `json:"active"`
}

// NodeSnapshot is one time node's state in a Snapshot.
type NodeSnapshot struct {
	Node  string `json:"node"`
	State string `json:"state"`
}

// Snapshot captures container and node states. Nodes are listed parents
// first, each container's children in document order.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Time: s.Now()}
	for _, c := range s.reg.Containers() {
		cs := ContainerSnapshot{
			Node:         c.Label(),
			Kind:         c.Kind().String(),
			State:        c.State().String(),
			CurrentIndex: c.CurrentIndex(),
			Time:         c.CurrentTime(),
			Active:       []string{},
		}
		if c.Parent() == nil {
			snap.Nodes = append(snap.Nodes, NodeSnapshot{Node: c.Label(), State: c.State().String()})
		}
		for _, child := range c.Children() {
			label := child.Base().Label()
			snap.Nodes = append(snap.Nodes, NodeSnapshot{Node: label, State: child.State().String()})
			if child.IsActive() {
				cs.Active = append(cs.Active, label)
			}
		}
		snap.Containers = append(snap.Containers, cs)
	}
	return snap
}

// State returns the state name of the time node(s) bound to the element with
// the given id. When several nodes share the element the first one wins.
func (s *Session) State(elementID string) (string, error) {
	el := s.doc.ByID(elementID)
	if el == nil {
		return "", unknownElement(s.id, elementID)
	}
	nodes := s.reg.NodesForElement(el)
	if len(nodes) == 0 {
		return "", &SessionError{
			Code:      ErrCodeUnknownElement,
			Message:   "element " + strconv.Quote(elementID) + " is not timed",
			SessionID: s.id,
			Details:   map[string]string{"id": elementID},
		}
	}
	return nodes[0].State().String(), nil
}
