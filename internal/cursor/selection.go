package cursor

import "fmt"

// Selection is a span in step space, expressed as a start position and a
// signed length. Position is the anchor; Position+Length is the focus,
// where the cursor marker sits. A negative length means the focus lies
// before the anchor.
//
// Selection is an immutable value type.
type Selection struct {
	Position int
	Length   int
}

// NewSelection creates a selection from anchor to focus.
func NewSelection(anchor, focus int) Selection {
	return Selection{Position: anchor, Length: focus - anchor}
}

// Collapsed creates an empty selection at step.
func Collapsed(step int) Selection {
	return Selection{Position: step}
}

// Anchor returns where the selection started.
func (s Selection) Anchor() int { return s.Position }

// Focus returns the moving end of the selection.
func (s Selection) Focus() int { return s.Position + s.Length }

// IsCollapsed reports whether the selection covers no steps.
func (s Selection) IsCollapsed() bool { return s.Length == 0 }

// IsForward reports whether the focus is at or after the anchor.
func (s Selection) IsForward() bool { return s.Length >= 0 }

// Start returns the lower bound of the covered range.
func (s Selection) Start() int { return min(s.Anchor(), s.Focus()) }

// End returns the upper bound of the covered range.
func (s Selection) End() int { return max(s.Anchor(), s.Focus()) }

// ToForward returns the same range with a non-negative length.
func (s Selection) ToForward() Selection {
	if s.Length < 0 {
		return Selection{Position: s.Position + s.Length, Length: -s.Length}
	}
	return s
}

// Extend returns a selection with the same anchor and a new focus.
func (s Selection) Extend(focus int) Selection {
	return NewSelection(s.Anchor(), focus)
}

// ExtendBy moves the focus by delta steps.
func (s Selection) ExtendBy(delta int) Selection {
	return Selection{Position: s.Position, Length: s.Length + delta}
}

// Contains reports whether step lies in [Start, End).
func (s Selection) Contains(step int) bool {
	return step >= s.Start() && step < s.End()
}

// SameRange reports whether both selections cover the same steps,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Start() == other.Start() && s.End() == other.End()
}

// Shift returns a selection with both ends passed through adjust.
func (s Selection) Shift(adjust func(step int) int) Selection {
	return NewSelection(adjust(s.Anchor()), adjust(s.Focus()))
}

// String returns a debug representation.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("Cursor(%d)", s.Position)
	}
	dir := "→"
	if !s.IsForward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor(), dir, s.Focus())
}
