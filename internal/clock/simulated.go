package clock

import (
	"math"
	"time"
)

// DefaultMediaUpdateRate matches the time-update cadence of browser media
// elements.
const DefaultMediaUpdateRate = 250 * time.Millisecond

// SimulatedMedia is an in-process media source that plays a timeline of a
// fixed duration. It stands in for a real player when documents declare media
// sync but no player is attached, for example on the command line.
//
// Seeks complete synchronously and never emit a time update, so a seek made
// during a container update does not re-enter that update.
type SimulatedMedia struct {
	ticker   Ticker
	now      func() time.Time
	rate     time.Duration
	duration float64
	position float64
	anchor   time.Time
	paused   bool
	stopTick func()

	timeUpdate Signal
	seeked     Signal
	ready      Signal
	playing    Signal
}

// NewSimulatedMedia creates a paused source. A non-positive or NaN duration
// means the timeline is unbounded.
func NewSimulatedMedia(ticker Ticker, now func() time.Time, duration float64, rate time.Duration) *SimulatedMedia {
	if rate <= 0 {
		rate = DefaultMediaUpdateRate
	}
	if math.IsNaN(duration) || duration <= 0 {
		duration = math.Inf(1)
	}
	return &SimulatedMedia{
		ticker:   ticker,
		now:      now,
		rate:     rate,
		duration: duration,
		paused:   true,
	}
}

func (m *SimulatedMedia) Paused() bool {
	return m.paused
}

// Duration returns the length of the timeline in seconds.
func (m *SimulatedMedia) Duration() float64 {
	return m.duration
}

func (m *SimulatedMedia) CurrentTime() float64 {
	t := m.position
	if !m.paused {
		t += m.now().Sub(m.anchor).Seconds()
	}
	return math.Min(t, m.duration)
}

// SetCurrentTime clamps the target into the timeline.
func (m *SimulatedMedia) SetCurrentTime(t float64) error {
	if math.IsNaN(t) {
		return ErrNotReady
	}
	m.position = math.Max(0, math.Min(t, m.duration))
	m.anchor = m.now()
	m.seeked.Emit()
	return nil
}

func (m *SimulatedMedia) Seeking() bool {
	return false
}

func (m *SimulatedMedia) Play() {
	if !m.paused {
		return
	}
	if m.position >= m.duration {
		m.position = 0
	}
	m.anchor = m.now()
	m.paused = false
	m.stopTick = m.ticker.Start(m.rate, m.update)
	m.playing.Emit()
}

func (m *SimulatedMedia) Pause() {
	if m.paused {
		return
	}
	m.position = m.CurrentTime()
	m.paused = true
	if m.stopTick != nil {
		m.stopTick()
		m.stopTick = nil
	}
	m.timeUpdate.Emit()
}

// update runs on every ticker period while playing and ends playback at the
// end of the timeline.
func (m *SimulatedMedia) update() {
	if m.CurrentTime() >= m.duration {
		m.Pause()
		return
	}
	m.timeUpdate.Emit()
}

func (m *SimulatedMedia) OnTimeUpdate(fn func()) func() { return m.timeUpdate.Add(fn) }
func (m *SimulatedMedia) OnSeeked(fn func()) func() { return m.seeked.Add(fn) }
func (m *SimulatedMedia) OnReady(fn func()) func() { return m.ready.Add(fn) }
func (m *SimulatedMedia) OnPlaying(fn func()) func() { return m.playing.Add(fn) }
