package dom

import "errors"

// Errors raised by tree mutations. They indicate programming errors and are
// delivered by panic.
var (
	// ErrInvalidNode indicates a node id outside the arena.
	ErrInvalidNode = errors.New("invalid node id")

	// ErrNotText indicates a text operation on a non-text node.
	ErrNotText = errors.New("node is not a text leaf")

	// ErrNotElement indicates a child operation on a non-element node.
	ErrNotElement = errors.New("node is not an element")

	// ErrNotChild indicates a reference node that is not a child of the parent.
	ErrNotChild = errors.New("reference node is not a child")

	// ErrCycle indicates an insertion that would make a node its own ancestor.
	ErrCycle = errors.New("insertion would create a cycle")
)
