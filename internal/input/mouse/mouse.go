package mouse

// Button is a pointer button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Position is a pointer position in host cells.
type Position struct {
	X, Y int
}

// Distance returns the Manhattan distance between p and o.
func (p Position) Distance(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
