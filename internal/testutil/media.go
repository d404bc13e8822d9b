package testutil

import "github.com/roach88/timesheet/internal/clock"

// FakeMedia is a scriptable clock.MediaSource.
//
// Seeks complete synchronously unless AsyncSeeks is set, in which case the
// source stays in the seeking state until CompleteSeek. With NotReady set,
// SetCurrentTime fails until BecomeReady.
type FakeMedia struct {
	Position   float64
	IsPaused   bool
	InSeek     bool
	AsyncSeeks bool
	NotReady   bool

	// Seeks records every target accepted by SetCurrentTime.
	Seeks []float64

	timeUpdate clock.Signal
	seeked     clock.Signal
	ready      clock.Signal
	playing    clock.Signal
}

// NewFakeMedia creates a paused source at position zero.
func NewFakeMedia() *FakeMedia {
	return &FakeMedia{IsPaused: true}
}

func (m *FakeMedia) Paused() bool         { return m.IsPaused }
func (m *FakeMedia) CurrentTime() float64 { return m.Position }
func (m *FakeMedia) Seeking() bool        { return m.InSeek }

func (m *FakeMedia) SetCurrentTime(t float64) error {
	if m.NotReady {
		return clock.ErrNotReady
	}
	m.Seeks = append(m.Seeks, t)
	m.Position = t
	if m.AsyncSeeks {
		m.InSeek = true
		return nil
	}
	m.seeked.Emit()
	return nil
}

func (m *FakeMedia) Play() {
	if !m.IsPaused {
		return
	}
	m.IsPaused = false
	m.playing.Emit()
}

func (m *FakeMedia) Pause() {
	m.IsPaused = true
}

// CompleteSeek ends an in-flight asynchronous seek.
func (m *FakeMedia) CompleteSeek() {
	m.InSeek = false
	m.seeked.Emit()
}

// BecomeReady lets seeks succeed and signals readiness.
func (m *FakeMedia) BecomeReady() {
	m.NotReady = false
	m.ready.Emit()
}

// Advance moves the playhead and emits a time update.
func (m *FakeMedia) Advance(seconds float64) {
	m.Position += seconds
	m.timeUpdate.Emit()
}

// Listeners returns the number of time-update subscribers.
func (m *FakeMedia) Listeners() int {
	return m.timeUpdate.Len()
}

func (m *FakeMedia) OnTimeUpdate(fn func()) func() { return m.timeUpdate.Add(fn) }
func (m *FakeMedia) OnSeeked(fn func()) func() { return m.seeked.Add(fn) }
func (m *FakeMedia) OnReady(fn func()) func() { return m.ready.Add(fn) }
func (m *FakeMedia) OnPlaying(fn func()) func() { return m.playing.Add(fn) }
