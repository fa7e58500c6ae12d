// Package steps converts between raw iterator distances and filtered step
// counts, relative to an anchor such as a member's cursor.
package steps

import (
	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/filter"
)

// AnchorFunc returns a fresh iterator positioned at the counter's anchor.
type AnchorFunc func() *dom.PositionIterator

// ParagraphFunc returns the paragraph containing node, or dom.None.
type ParagraphFunc func(node dom.NodeID) dom.NodeID

// Counter counts steps outward from an anchor position.
type Counter struct {
	anchor      AnchorFunc
	paragraphOf ParagraphFunc
	loopGuard   int
}

// Option configures a Counter.
type Option func(*Counter)

// WithLoopGuard sets the iteration limit for every walk.
func WithLoopGuard(limit int) Option {
	return func(c *Counter) {
		c.loopGuard = limit
	}
}

// NewCounter creates a counter anchored by anchor. paragraphOf is used for
// line movement; without layout information a paragraph is one line.
func NewCounter(anchor AnchorFunc, paragraphOf ParagraphFunc, opts ...Option) *Counter {
	c := &Counter{
		anchor:      anchor,
		paragraphOf: paragraphOf,
		loopGuard:   DefaultLoopGuard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func accepted(f filter.Filter, it *dom.PositionIterator) bool {
	return f.AcceptPosition(it) == filter.Accept
}

// CountForwardSteps returns the raw iterator distance from the anchor to
// the n-th position after it that f accepts. If fewer than n exist, the
// distance to the last accepted one is returned.
func (c *Counter) CountForwardSteps(n int, f filter.Filter) int {
	return c.countSteps(n, f, true)
}

// CountBackwardSteps is CountForwardSteps walking backwards.
func (c *Counter) CountBackwardSteps(n int, f filter.Filter) int {
	return c.countSteps(n, f, false)
}

func (c *Counter) countSteps(n int, f filter.Filter, forward bool) int {
	it := c.anchor()
	move := it.PreviousPosition
	if forward {
		move = it.NextPosition
	}
	watch := NewWatchDog(c.loopGuard)
	pending, count := 0, 0
	for n > 0 && move() {
		watch.Check()
		pending++
		if accepted(f, it) {
			count += pending
			pending = 0
			n--
		}
	}
	return count
}

// ConvertForwardStepsBetweenFilters walks n steps of filter a forward from
// the anchor and returns how many steps of filter b that covers.
//
// When a's accepted set is a subset of b's, every a-step is also a b-step,
// so the result is at least n and grows with n.
func (c *Counter) ConvertForwardStepsBetweenFilters(n int, a, b filter.Filter) int {
	return c.convertSteps(n, a, b, true)
}

// ConvertBackwardStepsBetweenFilters is the backward counterpart of
// ConvertForwardStepsBetweenFilters. The result is a non-negative count.
func (c *Counter) ConvertBackwardStepsBetweenFilters(n int, a, b filter.Filter) int {
	return c.convertSteps(n, a, b, false)
}

func (c *Counter) convertSteps(n int, a, b filter.Filter, forward bool) int {
	it := c.anchor()
	move := it.PreviousPosition
	if forward {
		move = it.NextPosition
	}
	watch := NewWatchDog(c.loopGuard)
	pendingB, stepsB := 0, 0
	for n > 0 && move() {
		watch.Check()
		if accepted(b, it) {
			pendingB++
		}
		if accepted(a, it) {
			stepsB += pendingB
			pendingB = 0
			n--
		}
	}
	return stepsB
}

// CountStepsToLineBoundary returns the signed number of f-steps from the
// anchor to the start (direction < 0) or end (direction > 0) of its line.
func (c *Counter) CountStepsToLineBoundary(direction int, f filter.Filter) int {
	it := c.anchor()
	tree := it.Tree()
	p := c.paragraphOf(it.Container())
	if p == dom.None {
		return 0
	}
	move, delta := it.NextPosition, 1
	if direction < 0 {
		move, delta = it.PreviousPosition, -1
	}
	watch := NewWatchDog(c.loopGuard)
	steps := 0
	for move() {
		watch.Check()
		if !tree.Contains(p, it.Container()) {
			break
		}
		if accepted(f, it) {
			steps += delta
		}
	}
	return steps
}

// CountLinesSteps returns the signed number of f-steps needed to reach the
// same column on the previous (direction < 0) or next (direction > 0) line.
// The column is clamped to the target line's length. It returns 0 when no
// such line exists.
func (c *Counter) CountLinesSteps(direction int, f filter.Filter) int {
	column := -c.CountStepsToLineBoundary(-1, f)

	it := c.anchor()
	tree := it.Tree()
	p := c.paragraphOf(it.Container())
	if p == dom.None {
		return 0
	}
	move, delta := it.NextPosition, 1
	if direction < 0 {
		move, delta = it.PreviousPosition, -1
	}
	watch := NewWatchDog(c.loopGuard)

	// Leave the current line and land on the first step of the adjacent one.
	steps := 0
	target := dom.None
	for target == dom.None && move() {
		watch.Check()
		inside := tree.Contains(p, it.Container())
		if !accepted(f, it) {
			continue
		}
		steps += delta
		if !inside {
			target = c.paragraphOf(it.Container())
			if target == dom.None {
				return steps
			}
		}
	}
	if target == dom.None {
		return 0
	}

	// Count the remaining steps of the target line.
	length := 0
	for move() {
		watch.Check()
		if !tree.Contains(target, it.Container()) {
			break
		}
		if accepted(f, it) {
			length++
		}
	}
	col := min(column, length)
	if direction > 0 {
		return steps + col
	}
	return steps - (length - col)
}
