package engine

import (
	"log/slog"

	"github.com/roach88/timesheet/internal/clock"
	"github.com/roach88/timesheet/internal/timing"
)

// ExclusiveMedia lets one media source play at a time. When any media-synced
// container's source starts playing, every other playing source is paused
// through its container. Containers that share a source are left alone.
//
// The returned function removes the listeners.
func ExclusiveMedia(reg *timing.Registry, logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}
	type synced struct {
		c   *timing.Container
		src clock.MediaSource
	}
	var all []synced
	for _, c := range reg.Containers() {
		ext, ok := c.Clock().(*clock.External)
		if !ok {
			continue
		}
		all = append(all, synced{c: c, src: ext.Source()})
	}

	var cancels []func()
	seen := make(map[clock.MediaSource]bool)
	for _, s := range all {
		if seen[s.src] {
			continue
		}
		seen[s.src] = true
		src := s.src
		cancels = append(cancels, src.OnPlaying(func() {
			paused := make(map[clock.MediaSource]bool)
			for _, other := range all {
				if other.src == src || paused[other.src] || other.src.Paused() {
					continue
				}
				paused[other.src] = true
				logger.Debug("pausing concurrent media", "container", other.c.Label())
				other.c.Pause()
			}
		}))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
