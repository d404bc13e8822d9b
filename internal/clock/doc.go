// Package clock provides the time sources that drive time containers.
//
// Every time container owns exactly one Clock. Two variants exist:
//
//   - Internal: a wall-clock timer that ticks periodically while playing.
//     Periodic callbacks come from a Ticker, so the session decides which
//     goroutine ticks run on (the single-writer loop in production, Virtual
//     in simulations and tests).
//   - External: mirrors the position of a continuous MediaSource such as an
//     audio or video player. Transport state belongs to the source; the clock
//     only subscribes to its time updates and forwards seeks, tolerating
//     sources that are mid-seek or not yet ready.
//
// Times are float64 seconds. Clocks never return errors: a media source that
// never becomes ready simply never ticks.
package clock
