package timing

import (
	"math"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/clock"
	"github.com/roach88/timesheet/internal/dom"
)

// DefaultSeekEpsilon is added to seeks on media-synchronized containers so
// the media lands inside the selected child's interval.
const DefaultSeekEpsilon = 0.1

// Container is a time node that owns a clock and an ordered list of children.
type Container struct {
	Node

	kind         Kind
	children     []TimedElement
	currentIndex int
	repeatCount  float64
	duration     float64
	clk          clock.Clock
	media        *html.Node
	external     bool
	seekEpsilon  float64
}

func (c *Container) Kind() Kind               { return c.kind }
func (c *Container) Children() []TimedElement { return c.children }
func (c *Container) CurrentIndex() int        { return c.currentIndex }
func (c *Container) RepeatCount() float64     { return c.repeatCount }
func (c *Container) Clock() clock.Clock       { return c.clk }
func (c *Container) Duration() float64        { return c.duration }
func (c *Container) MediaElement() *html.Node { return c.media }
func (c *Container) SyncedToMedia() bool      { return c.external }
func (c *Container) Current() TimedElement    { return c.child(c.currentIndex) }

func (c *Container) child(i int) TimedElement {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// CurrentTime is the container's local time: the clock position folded by
// repeatCount.
func (c *Container) CurrentTime() float64 {
	return c.localTime(c.clk.CurrentTime())
}

func (c *Container) localTime(t float64) float64 {
	d := c.duration
	if !isFinite(d) || d <= 0 {
		return t
	}
	switch rc := c.repeatCount; {
	case math.IsInf(rc, 1):
		return math.Mod(t, d)
	case rc > 1:
		if t < d*rc {
			return math.Mod(t, d)
		}
		return d
	}
	return t
}

func (c *Container) Show() {
	if c.state == Active {
		return
	}
	from := c.state
	c.state = Active
	c.setIndex(-1)
	c.clk.Play()
	c.handler.Apply(dom.StateActive)
	c.env.stateChanged(c, from, Active)
	c.dispatch("begin")
	c.armEnd()
	c.update()
}

func (c *Container) Hide() {
	if c.state == Done {
		return
	}
	from := c.state
	c.state = Done
	c.clk.Stop()
	if c.fill != FillHold {
		c.handler.Apply(dom.StateDone)
	}
	c.env.stateChanged(c, from, Done)
	for _, child := range c.children {
		child.Hide()
	}
	c.dispatch("end")
	c.armBegin()
}

func (c *Container) Reset() {
	if c.state == Idle {
		return
	}
	from := c.state
	c.state = Idle
	c.clk.Stop()
	c.handler.Apply(dom.StateIdle)
	c.env.stateChanged(c, from, Idle)
	for _, child := range c.children {
		child.Reset()
	}
	c.armBegin()
	c.setIndex(-1)
}

// update is the clock's tick callback. Inactive containers ignore ticks.
func (c *Container) update() {
	if c.state != Active {
		return
	}
	reconcile(c, c.CurrentTime())
}

// SetCurrentTime seeks the clock and settles children at the new position.
func (c *Container) SetCurrentTime(t float64) {
	c.clk.Seek(t)
	c.update()
}

// Play resumes the clock, starting the media element first when synchronized.
func (c *Container) Play() {
	if ext, ok := c.clk.(*clock.External); ok {
		ext.Source().Play()
	}
	c.clk.Play()
}

func (c *Container) Pause() {
	if ext, ok := c.clk.(*clock.External); ok {
		ext.Source().Pause()
	}
	c.clk.Pause()
}

func (c *Container) Stop() {
	if ext, ok := c.clk.(*clock.External); ok {
		ext.Source().Pause()
	}
	c.clk.Stop()
}

func (c *Container) setIndex(i int) {
	if i == c.currentIndex {
		return
	}
	from := c.currentIndex
	c.currentIndex = i
	if c.env.observer != nil {
		c.env.observer.IndexChanged(c, from, i)
	}
}

// IndexOf returns the position of te among the children, or -1.
func (c *Container) IndexOf(te TimedElement) int {
	if te == nil {
		return -1
	}
	for i, child := range c.children {
		if child.Base() == te.Base() {
			return i
		}
	}
	return -1
}

// SelectItem activates the given child.
func (c *Container) SelectItem(te TimedElement) {
	if i := c.IndexOf(te); i >= 0 {
		c.SelectIndex(i)
	}
}

func (c *Container) First() { c.SelectIndex(0) }
func (c *Container) Prev()  { c.SelectIndex(c.currentIndex - 1) }
func (c *Container) Next()  { c.SelectIndex(c.currentIndex + 1) }
func (c *Container) Last()  { c.SelectIndex(len(c.children) - 1) }

// SelectIndex makes child index the active one.
//
// A child with a finite time_in is reached by seeking the clock to it. A
// child without one is rebased to start now. In seq and excl containers the
// children before index are then hidden and the ones after it reset, and a
// change event is published. Out-of-range indexes and the current index are
// ignored, except that an indefinitely repeating container wraps the index.
func (c *Container) SelectIndex(index int) {
	n := len(c.children)
	if n == 0 {
		return
	}
	if c.kind == Par {
		c.selectPar(index)
		return
	}
	if math.IsInf(c.repeatCount, 1) {
		index %= n
	}
	if index < 0 || index >= n || index == c.currentIndex {
		return
	}
	for i, child := range c.children {
		if i != index {
			child.Base().restore()
		}
	}
	target := c.children[index]
	c.seekTo(target.Base())
	c.setIndex(index)
	target.Show()
	for i := 0; i < index; i++ {
		c.children[i].Hide()
	}
	for i := index + 1; i < n; i++ {
		c.children[i].Reset()
	}
	c.dispatch("change")
}

func (c *Container) selectPar(index int) {
	child := c.child(index)
	if child == nil {
		return
	}
	c.seekTo(child.Base())
	child.Show()
	c.update()
}

func (c *Container) seekTo(n *Node) {
	in := n.timeIn
	if !isFinite(in) {
		n.rebase(c.CurrentTime())
		return
	}
	if c.external {
		in += c.seekEpsilon
	}
	c.clk.Seek(in)
}
