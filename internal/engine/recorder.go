package engine

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/events"
	"github.com/roach88/timesheet/internal/journal"
	"github.com/roach88/timesheet/internal/timing"
)

// RecordKind distinguishes lifecycle transitions from selection changes.
type RecordKind string

const (
	RecordState RecordKind = "state"
	RecordIndex RecordKind = "index"
)

// Record is one observed transition. For state records From and To are state
// names; for index records they are child indexes, -1 meaning none. Time is
// the owning container's time when the transition happened.
type Record struct {
	Seq  int64
	Kind RecordKind
	Node string
	From string
	To   string
	Time float64
}

// Recorder observes a timing tree and its event bus. It keeps an in-memory
// trace and, when a journal is attached, mirrors every record into it.
//
// Journal entries produced before the session is registered (an excl root
// can show its first child while the tree is built) are held back until
// open. Journal failures do not interrupt the session: the first one is kept
// for Err and later ones are only logged.
type Recorder struct {
	seq       *Sequence
	journal   *journal.Journal
	sessionID string
	ctx       context.Context
	logger    *slog.Logger

	records []Record
	events  []string
	pending []journal.Entry
	opened  bool
	err     error
	muted   bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithJournal mirrors records into j under sessionID.
func WithJournal(j *journal.Journal, sessionID string) RecorderOption {
	return func(r *Recorder) {
		r.journal = j
		r.sessionID = sessionID
	}
}

// WithRecorderLogger sets the recorder's logger.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecorder creates a recorder stamping records from seq.
func NewRecorder(seq *Sequence, opts ...RecorderOption) *Recorder {
	r := &Recorder{seq: seq, ctx: context.Background(), logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach taps the bus so published events are listed by Events.
func (r *Recorder) Attach(bus *events.Bus) {
	bus.Tap(func(e events.Event) {
		if !r.muted {
			r.events = append(r.events, EventKey(e.Target, e.Name))
		}
	})
}

// EventKey names an event as "<id>.<name>", falling back to a tag path for
// elements without an id.
func EventKey(target *html.Node, name string) string {
	if id := dom.ID(target); id != "" {
		return id + "." + name
	}
	return dom.Describe(target) + "." + name
}

func (r *Recorder) StateChanged(te timing.TimedElement, from, to timing.State) {
	r.add(RecordState, te.Base().Label(), from.String(), to.String(), timeOf(te))
}

func (r *Recorder) IndexChanged(c *timing.Container, from, to int) {
	r.add(RecordIndex, c.Label(), strconv.Itoa(from), strconv.Itoa(to), c.CurrentTime())
}

// timeOf reads the clock that governs te: its parent's, or its own for a
// root container.
func timeOf(te timing.TimedElement) float64 {
	if p := te.Base().Parent(); p != nil {
		return p.CurrentTime()
	}
	if c, ok := te.(*timing.Container); ok {
		return c.CurrentTime()
	}
	return math.NaN()
}

func (r *Recorder) add(kind RecordKind, node, from, to string, t float64) {
	if r.muted {
		return
	}
	rec := Record{Seq: r.seq.Next(), Kind: kind, Node: node, From: from, To: to, Time: t}
	r.records = append(r.records, rec)
	r.logger.Debug("transition",
		"seq", rec.Seq,
		"kind", rec.Kind,
		"node", rec.Node,
		"from", rec.From,
		"to", rec.To,
		"time", rec.Time)

	if r.journal == nil {
		return
	}
	entry := journal.Entry{
		SessionID: r.sessionID,
		Seq:       rec.Seq,
		Kind:      string(rec.Kind),
		Node:      rec.Node,
		From:      rec.From,
		To:        rec.To,
		ClockTime: rec.Time,
	}
	if !r.opened {
		r.pending = append(r.pending, entry)
		return
	}
	r.append(entry)
}

// open starts writing to the journal under ctx, flushing the entries held
// back so far. The journal session must already exist.
func (r *Recorder) open(ctx context.Context) {
	r.ctx = ctx
	r.opened = true
	pending := r.pending
	r.pending = nil
	for _, e := range pending {
		r.append(e)
	}
}

func (r *Recorder) append(e journal.Entry) {
	if err := r.journal.Append(r.ctx, e); err != nil {
		r.logger.Warn("journal append failed", "seq", e.Seq, "error", err)
		if r.err == nil {
			r.err = err
		}
	}
}

// Records returns a copy of the trace.
func (r *Recorder) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Events returns a copy of the published event keys in publish order.
func (r *Recorder) Events() []string {
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// Err returns the first journal failure, if any.
func (r *Recorder) Err() error {
	return r.err
}

// mute stops recording. Used when a session shuts down its clocks.
func (r *Recorder) mute() {
	r.muted = true
}
