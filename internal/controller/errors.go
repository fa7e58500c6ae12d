package controller

import (
	"errors"
	"fmt"
)

// ErrPrecondition reports a controller invariant violation. It is raised
// with panic, never returned: the engine is in a state it cannot recover
// from.
var ErrPrecondition = errors.New("controller: precondition violated")

func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...)))
	}
}
