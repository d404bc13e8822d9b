package timing

import "math"

// reconcile brings the children of c in line with local time t.
func reconcile(c *Container, t float64) {
	if len(c.children) == 0 {
		return
	}
	switch c.kind {
	case Par:
		reconcilePar(c, t)
	case Seq:
		reconcileSeq(c, t)
	case Excl:
		reconcileExcl(c, t)
	}
}

func reconcilePar(c *Container, t float64) {
	for _, child := range c.children {
		in, out := child.Base().Interval()
		switch {
		case t < in:
			child.Reset()
		case t >= out:
			child.Hide()
		default:
			child.Show()
		}
	}
}

func reconcileSeq(c *Container, t float64) {
	if cur := c.Current(); cur != nil {
		in, out := cur.Base().Interval()
		if !outOfBounds(t, in, out) {
			return
		}
		cur.Hide()
	}
	if next := c.child(c.currentIndex + 1); next != nil {
		in, out := next.Base().Interval()
		if math.IsInf(in, 1) || !outOfBounds(t, in, out) {
			c.setIndex(c.currentIndex + 1)
			next.Show()
			return
		}
	}
	scan(c, t)
}

func reconcileExcl(c *Container, t float64) {
	if cur := c.Current(); cur != nil {
		in, out := cur.Base().Interval()
		if !outOfBounds(t, in, out) {
			return
		}
	}
	scan(c, t)
}

// scan settles every child against t and activates the first one whose
// interval contains it. Later matches are reset so at most one child stays
// active. With no match, an unresolved next child is advanced into.
func scan(c *Container, t float64) {
	index := -1
	for i, child := range c.children {
		in, out := child.Base().Interval()
		switch {
		case t < in:
			child.Reset()
		case t >= out:
			child.Hide()
		case withinBounds(t, in, out):
			if index >= 0 {
				child.Reset()
				continue
			}
			index = i
			child.Show()
		}
	}
	if index >= 0 {
		for i, child := range c.children {
			if i != index && child.IsActive() {
				child.Hide()
			}
		}
		c.setIndex(index)
		return
	}
	if next := c.child(c.currentIndex + 1); next != nil && math.IsNaN(next.Base().timeIn) {
		c.SelectIndex(c.currentIndex + 1)
		return
	}
	c.setIndex(activeIndex(c))
}

func activeIndex(c *Container) int {
	for i, child := range c.children {
		if child.IsActive() {
			return i
		}
	}
	return -1
}
