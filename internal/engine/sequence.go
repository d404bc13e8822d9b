package engine

import "sync/atomic"

// Sequence is the session's logical clock. Every recorded transition is
// stamped with a strictly increasing number so traces order the same way on
// every run, independent of wall time.
//
// Sequence is safe for concurrent use, although a session only advances it
// from its own goroutine.
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt creates a sequence that continues after start.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last number handed out.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
