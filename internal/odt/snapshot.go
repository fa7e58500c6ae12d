package odt

import (
	"maps"
	"slices"

	"github.com/dshills/docedit/internal/cursor"
	"github.com/dshills/docedit/internal/dom"
)

// Snapshot is a saved document state: the marker-free tree and every
// member's selection.
type Snapshot struct {
	tree       *dom.Tree
	selections map[string]cursor.Selection
}

// Members returns the members that had a cursor when the snapshot was
// taken.
func (s *Snapshot) Members() []string {
	return slices.Sorted(maps.Keys(s.selections))
}

// Snapshot captures the current state.
func (d *Document) Snapshot() *Snapshot {
	d.detachCursors()
	s := &Snapshot{
		tree:       d.tree.Clone(),
		selections: make(map[string]cursor.Selection, len(d.cursors)),
	}
	for m, c := range d.cursors {
		sel, _ := c.Selection()
		s.selections[m] = sel
	}
	d.attachCursors()
	return s
}

// Restore returns the document to a snapshot. Cursors are recreated for
// the snapshot's members; cursors obtained before the call are stale.
func (d *Document) Restore(s *Snapshot) {
	d.tree.Restore(s.tree)
	d.cursors = make(map[string]*cursor.Cursor, len(s.selections))
	for _, m := range s.Members() {
		c := d.newCursor(m)
		c.SetSelection(s.selections[m])
		d.cursors[m] = c
	}
	d.attachCursors()
	d.log.Debug("restored snapshot with %d cursors", len(d.cursors))
}
