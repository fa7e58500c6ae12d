// Package mouse classifies pointer presses into single, double and
// triple clicks.
//
// Hosts that only report raw presses, such as terminals, feed every
// press into a Tracker and forward the resulting click count with the
// pointer-down event:
//
//	t := mouse.NewTracker(mouse.DefaultClickTime, mouse.DefaultClickDistance)
//	count := t.Record(mouse.Position{X: x, Y: y}, time.Now())
//
// Presses belong to the same sequence when they land within the
// configured distance of each other and within the configured time of
// the previous press. A fourth press starts over at a single click.
package mouse
