package clock

import "time"

// DefaultTickRate is the internal clock period (25 Hz).
const DefaultTickRate = 40 * time.Millisecond

// Internal is a wall-clock timer.
//
// While playing, CurrentTime is the time accumulated before the last pause
// plus the time since play started. Ticks are delivered by the Ticker at the
// configured rate.
type Internal struct {
	ticker   Ticker
	now      func() time.Time
	rate     time.Duration
	onTick   func()
	start    time.Time
	elapsed  time.Duration
	paused   bool
	stopTick func()
}

// InternalOption configures an Internal clock.
type InternalOption func(*Internal)

// WithRate sets the tick period. Non-positive values keep the default.
func WithRate(rate time.Duration) InternalOption {
	return func(c *Internal) {
		if rate > 0 {
			c.rate = rate
		}
	}
}

// WithNow sets the wall-clock source.
func WithNow(now func() time.Time) InternalOption {
	return func(c *Internal) {
		c.now = now
	}
}

// NewInternal creates a paused internal clock at time zero.
func NewInternal(ticker Ticker, opts ...InternalOption) *Internal {
	c := &Internal{
		ticker: ticker,
		now:    time.Now,
		rate:   DefaultTickRate,
		paused: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the tick period.
func (c *Internal) Rate() time.Duration {
	return c.rate
}

func (c *Internal) Paused() bool {
	return c.paused
}

func (c *Internal) CurrentTime() float64 {
	d := c.elapsed
	if !c.paused {
		d += c.now().Sub(c.start)
	}
	return d.Seconds()
}

// Seek works in both states: a playing clock shifts its start timestamp, a
// paused clock replaces its accumulated time. Negative targets clamp to zero
// and non-finite targets are ignored.
func (c *Internal) Seek(t float64) {
	d, ok := seconds(t)
	if !ok {
		return
	}
	if d < 0 {
		d = 0
	}
	if c.paused {
		c.elapsed = d
		return
	}
	c.elapsed = 0
	c.start = c.now().Add(-d)
}

// Play is a no-op while already playing.
func (c *Internal) Play() {
	if !c.paused {
		return
	}
	c.start = c.now()
	c.paused = false
	c.stopTick = c.ticker.Start(c.rate, c.tick)
}

// Pause freezes the accumulated time and fires one final tick so the owner
// settles at the frozen time.
func (c *Internal) Pause() {
	if c.paused {
		return
	}
	c.elapsed += c.now().Sub(c.start)
	c.paused = true
	c.halt()
	c.tick()
}

// Stop rewinds to zero and fires one final tick.
func (c *Internal) Stop() {
	c.halt()
	c.paused = true
	c.elapsed = 0
	c.tick()
}

func (c *Internal) SetOnTick(fn func()) {
	c.onTick = fn
}

func (c *Internal) halt() {
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
}

func (c *Internal) tick() {
	if c.onTick != nil {
		c.onTick()
	}
}
