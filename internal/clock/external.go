package clock

import (
	"log/slog"
	"math"
)

// External mirrors the position of a MediaSource.
//
// While a seek is in flight CurrentTime reports the requested target rather
// than the source position, so containers do not see stale positions echoed
// back during asynchronous seek completion. A seek requested while the source
// is already seeking replaces the pending target and is applied once the
// source signals completion. A rejected seek is retried when the source
// signals readiness.
type External struct {
	source   MediaSource
	logger   *slog.Logger
	onTick   func()
	unsubTU  func()
	target   float64
	applied  float64
	inFlight bool
	unwait   func()
}

// ExternalOption configures an External clock.
type ExternalOption func(*External)

// WithLogger sets the logger for absorbed seek failures.
func WithLogger(logger *slog.Logger) ExternalOption {
	return func(c *External) {
		c.logger = logger
	}
}

// NewExternal wraps a media source.
func NewExternal(source MediaSource, opts ...ExternalOption) *External {
	c := &External{
		source:  source,
		logger:  slog.Default(),
		target:  math.NaN(),
		applied: math.NaN(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the wrapped media source.
func (c *External) Source() MediaSource {
	return c.source
}

func (c *External) Paused() bool {
	return c.source.Paused()
}

func (c *External) CurrentTime() float64 {
	if c.inFlight {
		return c.target
	}
	return c.source.CurrentTime()
}

// Seeking reports whether a seek requested through this clock has not yet
// completed.
func (c *External) Seeking() bool {
	return c.inFlight
}

func (c *External) Seek(t float64) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return
	}
	c.target = t
	c.inFlight = true
	if c.source.Seeking() {
		c.waitFor(c.source.OnSeeked, c.seeked)
		return
	}
	c.apply()
}

func (c *External) apply() {
	if err := c.source.SetCurrentTime(c.target); err != nil {
		c.logger.Debug("media seek rejected, retrying when ready",
			"target", c.target,
			"error", err)
		c.waitFor(c.source.OnReady, c.apply)
		return
	}
	c.applied = c.target
	if c.source.Seeking() {
		c.waitFor(c.source.OnSeeked, c.seeked)
		return
	}
	c.settle()
}

// seeked runs when the source finishes a seek. A newer target queued in the
// meantime is applied now; otherwise the cached position is released.
func (c *External) seeked() {
	if c.target != c.applied {
		c.apply()
		return
	}
	c.settle()
}

func (c *External) settle() {
	c.inFlight = false
	c.cancelWait()
}

// waitFor arms a one-shot subscription, replacing any earlier one.
func (c *External) waitFor(subscribe func(func()) func(), fn func()) {
	c.cancelWait()
	var cancel func()
	cancel = subscribe(func() {
		cancel()
		c.unwait = nil
		fn()
	})
	c.unwait = cancel
}

func (c *External) cancelWait() {
	if c.unwait != nil {
		c.unwait()
		c.unwait = nil
	}
}

// Play subscribes the tick callback to the source's time updates. It does
// not start playback.
func (c *External) Play() {
	if c.unsubTU != nil {
		return
	}
	c.unsubTU = c.source.OnTimeUpdate(c.tick)
}

// Pause unsubscribes from time updates. It does not pause the source.
func (c *External) Pause() {
	if c.unsubTU != nil {
		c.unsubTU()
		c.unsubTU = nil
	}
}

// Stop is Pause for an external clock: the source owns its position.
func (c *External) Stop() {
	c.Pause()
}

func (c *External) SetOnTick(fn func()) {
	c.onTick = fn
}

func (c *External) tick() {
	if c.onTick != nil {
		c.onTick()
	}
}
