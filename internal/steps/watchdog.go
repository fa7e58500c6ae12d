package steps

import (
	"errors"
	"fmt"
)

// ErrRunaway indicates a position walk exceeded its iteration guard. It
// means a filter or the tree violates an invariant, and is fatal.
var ErrRunaway = errors.New("runaway position iteration")

// DefaultLoopGuard is the iteration limit used when none is configured.
const DefaultLoopGuard = 1 << 20

// WatchDog counts loop iterations and panics once a limit is exceeded.
type WatchDog struct {
	limit int
	count int
}

// NewWatchDog creates a watchdog. A non-positive limit uses DefaultLoopGuard.
func NewWatchDog(limit int) *WatchDog {
	if limit <= 0 {
		limit = DefaultLoopGuard
	}
	return &WatchDog{limit: limit}
}

// Check records one iteration.
func (w *WatchDog) Check() {
	w.count++
	if w.count > w.limit {
		panic(fmt.Errorf("%w: more than %d iterations", ErrRunaway, w.limit))
	}
}
