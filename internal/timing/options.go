package timing

import (
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/clock"
)

// MediaResolver returns the media source backing a mediaSync element, or
// nil when the element cannot drive a clock.
type MediaResolver func(el *html.Node) clock.MediaSource

// Option configures Build.
type Option func(*builder)

// WithTicker sets the tick source for internal clocks. Required.
func WithTicker(t clock.Ticker) Option {
	return func(b *builder) {
		b.ticker = t
	}
}

// WithNow sets the wall clock read by internal clocks.
func WithNow(now func() time.Time) Option {
	return func(b *builder) {
		b.now = now
	}
}

// WithTickRate sets the internal clock tick interval.
func WithTickRate(d time.Duration) Option {
	return func(b *builder) {
		if d > 0 {
			b.tickRate = d
		}
	}
}

// WithSeekEpsilon sets the offset added to seeks on media-synchronized
// containers.
func WithSeekEpsilon(eps float64) Option {
	return func(b *builder) {
		if eps >= 0 {
			b.seekEpsilon = eps
		}
	}
}

// WithMediaResolver enables mediaSync.
func WithMediaResolver(r MediaResolver) Option {
	return func(b *builder) {
		b.media = r
	}
}

// WithBus sets the event bus. A fresh events.Bus is used otherwise.
func WithBus(bus Bus) Option {
	return func(b *builder) {
		b.env.bus = bus
	}
}

// WithObserver registers a state/index observer.
func WithObserver(o Observer) Option {
	return func(b *builder) {
		b.env.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.env.logger = logger
	}
}
