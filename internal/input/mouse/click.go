package mouse

import "time"

const (
	DefaultClickTime     = 400 * time.Millisecond
	DefaultClickDistance = 1
)

// ClickType is the position of a press within a click sequence.
type ClickType uint8

const (
	ClickSingle ClickType = 1
	ClickDouble ClickType = 2
	ClickTriple ClickType = 3
)

// String returns "single", "double" or "triple".
func (c ClickType) String() string {
	switch c {
	case ClickSingle:
		return "single"
	case ClickDouble:
		return "double"
	case ClickTriple:
		return "triple"
	default:
		return "unknown"
	}
}

// Tracker counts presses into click sequences. It is not safe for
// concurrent use; hosts call it from their event loop.
type Tracker struct {
	maxTime     time.Duration
	maxDistance int

	lastPos   Position
	lastTime  time.Time
	lastCount ClickType
}

// NewTracker creates a tracker. Non-positive arguments select the
// defaults.
func NewTracker(maxTime time.Duration, maxDistance int) *Tracker {
	if maxTime <= 0 {
		maxTime = DefaultClickTime
	}
	if maxDistance < 0 {
		maxDistance = DefaultClickDistance
	}
	return &Tracker{maxTime: maxTime, maxDistance: maxDistance}
}

// Record registers a press and returns its click type. A zero timestamp
// is replaced by the current time.
func (t *Tracker) Record(pos Position, at time.Time) ClickType {
	if at.IsZero() {
		at = time.Now()
	}
	if t.continues(pos, at) && t.lastCount < ClickTriple {
		t.lastCount++
	} else {
		t.lastCount = ClickSingle
	}
	t.lastPos = pos
	t.lastTime = at
	return t.lastCount
}

func (t *Tracker) continues(pos Position, at time.Time) bool {
	if t.lastCount == 0 {
		return false
	}
	// a clock going backwards starts a new sequence
	elapsed := at.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	return pos.Distance(t.lastPos) <= t.maxDistance
}

// Last returns the type of the last recorded press, or 0.
func (t *Tracker) Last() ClickType {
	return t.lastCount
}

// Reset forgets the current sequence.
func (t *Tracker) Reset() {
	*t = Tracker{maxTime: t.maxTime, maxDistance: t.maxDistance}
}
