package clock

import "errors"

// ErrNotReady is returned by media sources that cannot seek yet.
var ErrNotReady = errors.New("media source not ready")

// MediaSource is a continuous media player whose position drives an
// External clock.
type MediaSource interface {
	Paused() bool
	CurrentTime() float64
	// SetCurrentTime starts a seek. Sources that cannot seek yet return an
	// error and later signal OnReady.
	SetCurrentTime(t float64) error
	// Seeking reports whether a seek is still in flight.
	Seeking() bool
	Play()
	Pause()

	OnTimeUpdate(fn func()) (cancel func())
	OnSeeked(fn func()) (cancel func())
	OnReady(fn func()) (cancel func())
	OnPlaying(fn func()) (cancel func())
}

// Signal is a list of callbacks fired together, the building block for
// MediaSource notifications.
type Signal struct {
	nextID int
	fns    []signalEntry
}

type signalEntry struct {
	id int
	fn func()
}

// Add registers fn and returns its cancel function.
func (s *Signal) Add(fn func()) func() {
	s.nextID++
	id := s.nextID
	s.fns = append(s.fns, signalEntry{id: id, fn: fn})
	return func() {
		for i, e := range s.fns {
			if e.id == id {
				s.fns = append(s.fns[:i:i], s.fns[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every registered callback. Callbacks cancelled by an earlier
// callback of the same emission are skipped.
func (s *Signal) Emit() {
	batch := make([]signalEntry, len(s.fns))
	copy(batch, s.fns)
	for _, e := range batch {
		if s.has(e.id) {
			e.fn()
		}
	}
}

// Len returns the number of registered callbacks.
func (s *Signal) Len() int {
	return len(s.fns)
}

func (s *Signal) has(id int) bool {
	for _, e := range s.fns {
		if e.id == id {
			return true
		}
	}
	return false
}
