package clock

import (
	"math"
	"time"
)

// Clock is the time source owned by one time container.
type Clock interface {
	// Paused reports whether the clock is currently not advancing.
	Paused() bool

	// CurrentTime returns the elapsed time in seconds.
	CurrentTime() float64

	// Seek moves the clock so CurrentTime reports t.
	Seek(t float64)

	// Play starts delivering ticks.
	Play()

	// Pause freezes the clock.
	Pause()

	// Stop halts the clock and rewinds it.
	Stop()

	// SetOnTick installs the callback invoked on every time update.
	SetOnTick(fn func())
}

// Ticker starts periodic callbacks. The returned function stops them and is
// safe to call more than once.
type Ticker interface {
	Start(interval time.Duration, fn func()) (stop func())
}

// seconds converts a float64 second count to a Duration. Non-finite values
// return ok=false.
func seconds(t float64) (time.Duration, bool) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return time.Duration(t * float64(time.Second)), true
}
