package odt

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/docedit/internal/cursor"
	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/ops"
)

var _ ops.Document = (*Document)(nil)

// AddCursor creates a cursor for member at the document start.
func (d *Document) AddCursor(member string) error {
	if member == "" {
		return ErrInvalidMember
	}
	if _, ok := d.cursors[member]; ok {
		return fmt.Errorf("%w: %s", ErrCursorExists, member)
	}
	c := d.newCursor(member)
	c.SetSelection(cursor.Collapsed(0))
	d.cursors[member] = c
	c.UpdateToSelection(nil, nil)
	d.log.Debug("cursor added for %s", member)
	d.bus.Emit(SignalCursorAdded, c)
	return nil
}

// RemoveCursor deletes the member's cursor.
func (d *Document) RemoveCursor(member string) error {
	c, ok := d.cursors[member]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCursor, member)
	}
	if c.IsPlaced() {
		c.Remove()
	}
	delete(d.cursors, member)
	d.log.Debug("cursor removed for %s", member)
	d.bus.Emit(SignalCursorRemoved, member)
	return nil
}

// MoveCursor sets the member's selection. Both ends are clamped to the
// document.
func (d *Document) MoveCursor(member string, position, length int) error {
	if _, ok := d.cursors[member]; !ok {
		return fmt.Errorf("%w: %s", ErrNoCursor, member)
	}
	d.moveSelection(member, cursor.Selection{Position: position, Length: length})
	return nil
}

func (d *Document) moveSelection(member string, sel cursor.Selection) {
	c := d.cursors[member]
	if c == nil {
		return
	}
	c.SetSelection(clampSelection(sel, d.StepCount()))
	c.UpdateToSelection(nil, nil)
	d.bus.Emit(SignalCursorMoved, c)
}

// InsertText inserts text before the step at position. Later steps move
// by the length of the text.
func (d *Document) InsertText(member string, position int, text string, moveCursor bool) error {
	if err := d.checkPosition(position); err != nil {
		return err
	}
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return nil
	}
	var para dom.NodeID
	err := d.edit(func() error {
		loc, _ := d.LocationAt(position)
		para = d.ParagraphElement(loc.Node)
		d.insertAt(loc, text)
		return nil
	}, func(s int) int {
		if s >= position {
			return s + n
		}
		return s
	})
	if err != nil {
		return err
	}
	if moveCursor {
		d.moveSelection(member, cursor.Collapsed(position+n))
	}
	d.emitParagraphChanged(member, para)
	return nil
}

func (d *Document) insertAt(loc dom.Location, text string) {
	t := d.tree
	if t.IsText(loc.Node) {
		t.InsertData(loc.Node, loc.Offset, text)
		return
	}
	if leaf := d.trailingText(loc.Node, loc.Offset); leaf != dom.None {
		t.InsertData(leaf, t.TextLen(leaf), text)
		return
	}
	t.InsertAt(loc.Node, t.NewText(text), loc.Offset)
}

// trailingText returns the text leaf that ends right before child i of e,
// looking into spans, or dom.None.
func (d *Document) trailingText(e dom.NodeID, i int) dom.NodeID {
	t := d.tree
	n := t.Child(e, i-1)
	for n != dom.None {
		if t.IsText(n) {
			return n
		}
		if !t.IsElement(n) || t.Name(n) != ElementSpan {
			return dom.None
		}
		n = t.Child(n, t.ChildCount(n)-1)
	}
	return dom.None
}

// RemoveText removes length steps starting at position. Removing the end
// of a paragraph joins the following paragraph into it.
func (d *Document) RemoveText(member string, position, length int) error {
	if length < 0 {
		position, length = position+length, -length
	}
	if length == 0 {
		return nil
	}
	if err := d.checkRange(position, length); err != nil {
		return err
	}
	err := d.edit(func() error {
		locs := d.collect(position, length)
		for _, loc := range locs {
			if !d.tree.IsText(loc.Node) && !d.followedByParagraph(loc.Node) {
				return fmt.Errorf("%w: paragraph end at the end of its container", ErrInvalidRange)
			}
		}
		for i := len(locs) - 1; i >= 0; i-- {
			if loc := locs[i]; d.tree.IsText(loc.Node) {
				d.tree.DeleteData(loc.Node, loc.Offset, 1)
			}
		}
		for i := len(locs) - 1; i >= 0; i-- {
			if loc := locs[i]; !d.tree.IsText(loc.Node) {
				d.mergeNext(loc.Node)
			}
		}
		d.prune(d.body)
		return nil
	}, removalShift(position, length))
	if err != nil {
		return err
	}
	d.emitParagraphChanged(member, d.paragraphAtStep(position))
	return nil
}

func removalShift(position, length int) func(int) int {
	return func(s int) int {
		switch {
		case s >= position+length:
			return s - length
		case s > position:
			return position
		default:
			return s
		}
	}
}

func (d *Document) followedByParagraph(p dom.NodeID) bool {
	next := d.tree.NextSibling(p)
	return d.tree.IsElement(next) && d.tree.Name(next) == ElementParagraph
}

// mergeNext moves the children of the paragraph after p into p and drops
// the emptied paragraph.
func (d *Document) mergeNext(p dom.NodeID) {
	t := d.tree
	next := t.NextSibling(p)
	for t.ChildCount(next) > 0 {
		t.AppendChild(p, t.Child(next, 0))
	}
	t.Detach(next)
}

// prune drops empty text leaves and empty spans below n and joins
// neighbouring text leaves.
func (d *Document) prune(n dom.NodeID) {
	t := d.tree
	children := append([]dom.NodeID(nil), t.Children(n)...)
	prev := dom.None
	for _, c := range children {
		switch {
		case t.IsElement(c):
			d.prune(c)
			if t.Name(c) == ElementSpan && t.ChildCount(c) == 0 {
				t.Detach(c)
				continue
			}
			prev = dom.None
		case t.IsText(c):
			if t.TextLen(c) == 0 {
				t.Detach(c)
				continue
			}
			if prev != dom.None {
				t.InsertData(prev, t.TextLen(prev), t.Text(c))
				t.Detach(c)
				continue
			}
			prev = c
		default:
			prev = dom.None
		}
	}
}

// SplitParagraph splits the paragraph at position. The step at position
// becomes the first step of the new paragraph.
func (d *Document) SplitParagraph(member string, position int, moveCursor bool) error {
	if err := d.checkPosition(position); err != nil {
		return err
	}
	var para, tail dom.NodeID
	err := d.edit(func() error {
		loc, _ := d.LocationAt(position)
		para = d.ParagraphElement(loc.Node)
		if para == dom.None {
			return fmt.Errorf("%w: step %d", ErrNoParagraph, position)
		}
		tail = d.splitAt(para, loc)
		d.prune(d.body)
		return nil
	}, func(s int) int {
		if s >= position {
			return s + 1
		}
		return s
	})
	if err != nil {
		return err
	}
	if moveCursor {
		d.moveSelection(member, cursor.Collapsed(position+1))
	}
	d.emitParagraphChanged(member, para, tail)
	return nil
}

// splitAt moves everything in p after loc into a new paragraph inserted
// after p. Elements on the path from loc up to p are split the same way.
func (d *Document) splitAt(p dom.NodeID, loc dom.Location) dom.NodeID {
	t := d.tree
	container, offset := loc.Node, loc.Offset
	if t.IsText(container) {
		if offset > 0 {
			right := t.NewText(t.Substring(container, offset, t.TextLen(container)))
			t.DeleteData(container, offset, t.TextLen(container)-offset)
			t.InsertAt(t.Parent(container), right, t.IndexOf(container)+1)
			offset = t.IndexOf(container) + 1
		} else {
			offset = t.IndexOf(container)
		}
		container = t.Parent(container)
	}
	for {
		clone := t.NewElement(t.Name(container))
		for k, v := range t.Attrs(container) {
			t.SetAttr(clone, k, v)
		}
		for t.ChildCount(container) > offset {
			t.AppendChild(clone, t.Child(container, offset))
		}
		parent := t.Parent(container)
		t.InsertAt(parent, clone, t.IndexOf(container)+1)
		if container == p {
			return clone
		}
		container, offset = parent, t.IndexOf(clone)
	}
}

// ApplyDirectStyling sets props on every character in the range. Text is
// wrapped in spans carrying the properties; a span that already wraps
// exactly the styled text is updated in place.
func (d *Document) ApplyDirectStyling(member string, position, length int, props map[string]string) error {
	if length < 0 {
		position, length = position+length, -length
	}
	if length == 0 || len(props) == 0 {
		return nil
	}
	if err := d.checkRange(position, length); err != nil {
		return err
	}
	var paragraphs []dom.NodeID
	err := d.edit(func() error {
		for _, seg := range d.segments(position, length) {
			paragraphs = append(paragraphs, d.ParagraphElement(seg.leaf))
			d.styleSegment(seg, props)
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}
	d.emitParagraphChanged(member, paragraphs...)
	return nil
}

type segment struct {
	leaf     dom.NodeID
	from, to int
}

// segments groups the text steps of a range by leaf.
func (d *Document) segments(position, length int) []segment {
	var out []segment
	for _, loc := range d.collect(position, length) {
		if !d.tree.IsText(loc.Node) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].leaf == loc.Node {
			out[n-1].to = loc.Offset + 1
			continue
		}
		out = append(out, segment{leaf: loc.Node, from: loc.Offset, to: loc.Offset + 1})
	}
	return out
}

func (d *Document) styleSegment(seg segment, props map[string]string) {
	t := d.tree
	leaf, parent := seg.leaf, d.tree.Parent(seg.leaf)
	setProps := func(e dom.NodeID) {
		for k, v := range props {
			t.SetAttr(e, k, v)
		}
	}
	length := t.TextLen(leaf)
	if seg.from == 0 && seg.to == length && t.Name(parent) == ElementSpan && t.ChildCount(parent) == 1 {
		setProps(parent)
		return
	}
	idx := t.IndexOf(leaf)
	if seg.to < length {
		t.InsertAt(parent, t.NewText(t.Substring(leaf, seg.to, length)), idx+1)
	}
	span := t.NewElement(ElementSpan)
	setProps(span)
	t.AppendChild(span, t.NewText(t.Substring(leaf, seg.from, seg.to)))
	t.InsertAt(parent, span, idx+1)
	if seg.from > 0 {
		t.DeleteData(leaf, seg.from, length-seg.from)
	} else {
		t.Detach(leaf)
	}
}

// RemoveAnnotation deletes the annotation whose content starts at position.
// length must equal the number of steps the annotation spans.
func (d *Document) RemoveAnnotation(member string, position, length int) error {
	if err := d.checkPosition(position); err != nil {
		return err
	}
	var para dom.NodeID
	err := d.edit(func() error {
		ann, count := d.annotationAt(position)
		if ann == dom.None {
			return fmt.Errorf("%w: step %d", ErrNoAnnotation, position)
		}
		if count != length {
			return fmt.Errorf("%w: annotation spans %d steps, not %d", ErrInvalidRange, count, length)
		}
		para = d.ParagraphElement(d.tree.Parent(ann))
		d.tree.Detach(ann)
		d.prune(d.body)
		return nil
	}, removalShift(position, length))
	if err != nil {
		return err
	}
	d.emitParagraphChanged(member, para)
	return nil
}

// annotationAt returns the annotation whose first step is position and the
// number of steps it spans.
func (d *Document) annotationAt(position int) (dom.NodeID, int) {
	t := d.tree
	ann, count := dom.None, 0
	prev := dom.None
	d.walk(func(s int, it *dom.PositionIterator) bool {
		c := it.Container()
		switch {
		case ann != dom.None:
			if !t.Contains(ann, c) {
				return false
			}
			count++
		case s == position:
			a := t.Ancestor(c, d.isAnnotation)
			if a == dom.None || (prev != dom.None && t.Contains(a, prev)) {
				return false
			}
			ann, count = a, 1
		}
		prev = c
		return true
	})
	return ann, count
}

// AnnotationRange returns the first step and the step count of ann.
func (d *Document) AnnotationRange(ann dom.NodeID) (position, length int, ok bool) {
	t := d.tree
	position = -1
	d.walk(func(s int, it *dom.PositionIterator) bool {
		if !t.Contains(ann, it.Container()) {
			return position < 0
		}
		if position < 0 {
			position = s
		}
		length++
		return true
	})
	return position, length, position >= 0
}

// SetParagraphStyle sets the style name of the paragraph at position.
func (d *Document) SetParagraphStyle(member string, position int, styleName string) error {
	if err := d.checkPosition(position); err != nil {
		return err
	}
	p := d.paragraphAtStep(position)
	if p == dom.None {
		return fmt.Errorf("%w: step %d", ErrNoParagraph, position)
	}
	d.tree.SetAttr(p, AttrStyle, styleName)
	d.emitParagraphChanged(member, p)
	return nil
}
