package timing

import "math"

// computeIntervals resets every child and assigns its [timeIn, timeOut) in
// the container's time. The result is also kept as the declared interval.
func computeIntervals(c *Container) {
	for _, child := range c.children {
		child.Reset()
	}
	switch c.kind {
	case Par:
		parIntervals(c)
	case Seq:
		seqIntervals(c)
	case Excl:
		exclIntervals(c)
	}
	for _, child := range c.children {
		n := child.Base()
		n.declIn, n.declOut = n.timeIn, n.timeOut
	}
}

// beginOr returns the resolved begin, +Inf for an event-based begin, and
// fallback when begin is absent.
func beginOr(n *Node, fallback float64) float64 {
	switch {
	case n.begin.Resolved():
		return n.begin.Seconds
	case n.begin.IsSet():
		return Indefinite
	default:
		return fallback
	}
}

func endOr(n *Node, fallback float64) float64 {
	switch {
	case n.end.Resolved():
		return n.end.Seconds
	case n.end.IsSet():
		return Indefinite
	default:
		return fallback
	}
}

func parIntervals(c *Container) {
	for _, child := range c.children {
		n := child.Base()
		n.timeIn = beginOr(n, 0)
		if n.dur.Resolved() {
			n.timeOut = n.timeIn + n.dur.Seconds
		} else {
			n.timeOut = endOr(n, c.duration)
		}
	}
}

// seqIntervals chains children: an absent begin starts where the previous
// child ends. Event-based begins stay unresolved so the container advances
// into them when it reaches them.
func seqIntervals(c *Container) {
	last := len(c.children) - 1
	prevOut := Unresolved
	for i, child := range c.children {
		n := child.Base()
		switch {
		case n.begin.IsSet():
			n.timeIn = n.begin.Seconds
		case i > 0 && prevOut < Indefinite:
			n.timeIn = prevOut
		default:
			n.timeIn = 0
		}
		switch {
		case n.dur.Resolved():
			n.timeOut = n.timeIn + n.dur.Seconds
		case i == last:
			n.timeOut = c.duration
		default:
			n.timeOut = Indefinite
		}
		prevOut = n.timeOut
	}
	if last >= 0 && math.IsInf(c.duration, 1) {
		c.duration = c.children[last].Base().timeOut
	}
}

// exclIntervals schedules only children with a resolved begin; the rest wait
// to be selected. A child without end or dur runs until the next child's
// begin. A first child scheduled at zero starts active.
func exclIntervals(c *Container) {
	last := len(c.children) - 1
	for i, child := range c.children {
		n := child.Base()
		n.timeIn = beginOr(n, Indefinite)
		switch {
		case n.end.IsSet():
			n.timeOut = endOr(n, Indefinite)
		case i < last && c.children[i+1].Base().begin.Resolved():
			n.timeOut = c.children[i+1].Base().begin.Seconds
		case n.dur.Resolved():
			n.timeOut = n.timeIn + n.dur.Seconds
		default:
			n.timeOut = c.duration
		}
	}
	if last < 0 {
		return
	}
	if !c.dur.IsSet() {
		d := c.children[last].Base().timeOut - c.children[0].Base().timeIn
		if !math.IsNaN(d) && d > 0 {
			c.duration = d
		}
	}
	if first := c.children[0]; first.Base().timeIn <= 0 {
		first.Show()
		c.setIndex(0)
	}
}
