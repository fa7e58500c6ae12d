// Package filter defines position filters: predicates over iterator
// positions that decide which raw tree locations count as steps.
//
// Filters compose into a Chain; a position is a step under the chain only
// when every member filter accepts it. A chain with more members accepts a
// subset of the positions a shorter prefix of it accepts, which is what
// makes step counts convertible between chains.
package filter

import (
	"sync"

	"github.com/dshills/docedit/internal/dom"
)

// Result is the verdict of a filter for one position.
type Result uint8

const (
	// Accept marks the position as a step.
	Accept Result = iota + 1
	// Reject marks the position as not a step.
	Reject
	// Skip marks the position and its subtree as not a step.
	Skip
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Filter decides whether the iterator's current position is a step.
type Filter interface {
	AcceptPosition(it *dom.PositionIterator) Result
}

// Func adapts a function to the Filter interface.
type Func func(it *dom.PositionIterator) Result

// AcceptPosition calls f.
func (f Func) AcceptPosition(it *dom.PositionIterator) Result {
	return f(it)
}

// All is a filter that accepts every position.
var All Filter = Func(func(*dom.PositionIterator) Result { return Accept })

type namedFilter struct {
	name   string
	filter Filter
}

// Chain is an ordered set of named filters.
type Chain struct {
	mu      sync.RWMutex
	filters []namedFilter
}

// NewChain creates an empty chain. An empty chain accepts every position.
func NewChain() *Chain {
	return &Chain{}
}

// AddFilter appends a filter under name, replacing any filter already
// registered under that name.
func (c *Chain) AddFilter(name string, f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.filters {
		if c.filters[i].name == name {
			c.filters[i].filter = f
			return
		}
	}
	c.filters = append(c.filters, namedFilter{name: name, filter: f})
}

// RemoveFilter removes the named filter. It reports whether one was removed.
func (c *Chain) RemoveFilter(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.filters {
		if c.filters[i].name == name {
			c.filters = append(c.filters[:i], c.filters[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the member names in order.
func (c *Chain) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.filters))
	for i, f := range c.filters {
		out[i] = f.name
	}
	return out
}

// AcceptPosition returns Accept iff every member accepts. The first
// non-accepting verdict is returned unchanged.
func (c *Chain) AcceptPosition(it *dom.PositionIterator) Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.filters {
		if r := f.filter.AcceptPosition(it); r != Accept {
			return r
		}
	}
	return Accept
}
