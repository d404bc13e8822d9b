package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/timesheet/internal/clock"
	"github.com/roach88/timesheet/internal/testutil"
)

func TestExternal_MirrorsSource(t *testing.T) {
	m := testutil.NewFakeMedia()
	c := clock.NewExternal(m)

	m.Position = 12.5
	assert.Equal(t, 12.5, c.CurrentTime())
	assert.True(t, c.Paused())

	m.IsPaused = false
	assert.False(t, c.Paused())
	assert.Same(t, m, c.Source())
}

func TestExternal_PlaySubscribesToTimeUpdates(t *testing.T) {
	m := testutil.NewFakeMedia()
	c := clock.NewExternal(m)
	ticks := 0
	c.SetOnTick(func() { ticks++ })

	m.Advance(1)
	assert.Equal(t, 0, ticks, "not subscribed before Play")

	c.Play()
	c.Play()
	assert.Equal(t, 1, m.Listeners())
	m.Advance(1)
	assert.Equal(t, 1, ticks)

	c.Pause()
	m.Advance(1)
	assert.Equal(t, 1, ticks)
	assert.Equal(t, 0, m.Listeners())

	c.Play()
	c.Stop()
	assert.Equal(t, 0, m.Listeners())
	assert.True(t, m.IsPaused, "clock never drives transport")
}

func TestExternal_ImmediateSeek(t *testing.T) {
	m := testutil.NewFakeMedia()
	c := clock.NewExternal(m)

	c.Seek(7)
	assert.Equal(t, []float64{7}, m.Seeks)
	assert.False(t, c.Seeking())
	assert.Equal(t, 7.0, c.CurrentTime())
}

func TestExternal_CachesTargetWhileSeeking(t *testing.T) {
	m := testutil.NewFakeMedia()
	m.AsyncSeeks = true
	c := clock.NewExternal(m)

	c.Seek(5)
	assert.True(t, c.Seeking())
	m.Position = 0.2 // a stale read from the source
	assert.Equal(t, 5.0, c.CurrentTime())

	m.CompleteSeek()
	assert.False(t, c.Seeking())
	assert.Equal(t, 0.2, c.CurrentTime())
}

func TestExternal_SeekDuringSeekReplacesTarget(t *testing.T) {
	m := testutil.NewFakeMedia()
	m.AsyncSeeks = true
	c := clock.NewExternal(m)

	c.Seek(5)
	c.Seek(8)
	c.Seek(9)
	assert.Equal(t, []float64{5}, m.Seeks, "later targets wait for completion")
	assert.Equal(t, 9.0, c.CurrentTime())

	m.CompleteSeek()
	assert.Equal(t, []float64{5, 9}, m.Seeks, "only the latest target is applied")
	assert.True(t, c.Seeking())

	m.CompleteSeek()
	assert.False(t, c.Seeking())
	assert.Equal(t, 9.0, c.CurrentTime())
}

func TestExternal_RejectedSeekRetriesWhenReady(t *testing.T) {
	m := testutil.NewFakeMedia()
	m.NotReady = true
	c := clock.NewExternal(m)

	c.Seek(3)
	assert.Empty(t, m.Seeks)
	assert.True(t, c.Seeking())
	assert.Equal(t, 3.0, c.CurrentTime())

	m.BecomeReady()
	assert.Equal(t, []float64{3}, m.Seeks)
	assert.False(t, c.Seeking())
}

func TestExternal_IgnoresNonFiniteSeek(t *testing.T) {
	m := testutil.NewFakeMedia()
	c := clock.NewExternal(m)
	c.Seek(clockInf())
	assert.Empty(t, m.Seeks)
	assert.False(t, c.Seeking())
}
