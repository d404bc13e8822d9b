package clock

import "time"

// Virtual is a manually advanced time source and Ticker. Simulations and
// tests use it to run documents deterministically: advancing virtual time
// fires every due tick in due-time order, registration order breaking ties.
type Virtual struct {
	now     time.Time
	origin  time.Time
	entries []*tickEntry
}

type tickEntry struct {
	interval time.Duration
	due      time.Time
	fn       func()
	active   bool
}

// NewVirtual creates a virtual clock at the Unix epoch.
func NewVirtual() *Virtual {
	origin := time.Unix(0, 0).UTC()
	return &Virtual{now: origin, origin: origin}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	return v.now
}

// Elapsed returns the virtual time advanced since creation.
func (v *Virtual) Elapsed() time.Duration {
	return v.now.Sub(v.origin)
}

// Start implements Ticker. The first callback is due one interval from now.
func (v *Virtual) Start(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = time.Millisecond
	}
	e := &tickEntry{interval: interval, due: v.now.Add(interval), fn: fn, active: true}
	v.entries = append(v.entries, e)
	return func() {
		if !e.active {
			return
		}
		e.active = false
		for i, other := range v.entries {
			if other == e {
				v.entries = append(v.entries[:i], v.entries[i+1:]...)
				break
			}
		}
	}
}

// Active returns the number of running tickers.
func (v *Virtual) Active() int {
	return len(v.entries)
}

// Advance moves virtual time forward by d, firing due ticks along the way.
func (v *Virtual) Advance(d time.Duration) {
	v.AdvanceTo(v.now.Add(d))
}

// AdvanceTo moves virtual time forward to target. Targets in the past are
// ignored.
func (v *Virtual) AdvanceTo(target time.Time) {
	for {
		due, ok := v.earliest()
		if !ok || due.After(target) {
			break
		}
		v.now = due
		batch := make([]*tickEntry, len(v.entries))
		copy(batch, v.entries)
		for _, e := range batch {
			if !e.active || e.due.After(due) {
				continue
			}
			e.due = e.due.Add(e.interval)
			e.fn()
		}
	}
	if target.After(v.now) {
		v.now = target
	}
}

func (v *Virtual) earliest() (time.Time, bool) {
	var best time.Time
	found := false
	for _, e := range v.entries {
		if !found || e.due.Before(best) {
			best = e.due
			found = true
		}
	}
	return best, found
}
