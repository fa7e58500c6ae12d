package terminal

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/odt"
)

const (
	tabWidth         = 4
	annotationPrefix = "» "
)

// cell is one grapheme cluster drawn on screen. Decorations have no step.
type cell struct {
	x, width int
	text     string
	step     int
	runes    int
	loc      dom.Location
	target   dom.NodeID
	style    tcell.Style
}

func (c cell) decoration() bool { return c.step < 0 }

func (c cell) holds(step int) bool {
	return !c.decoration() && step >= c.step && step < c.step+c.runes
}

// row is a run of steps inside one paragraph. end is the caret location
// after the last character.
type row struct {
	paragraph dom.NodeID
	cells     []cell
	end       dom.Location
	endStep   int
	endX      int
}

// layout places every step of a document on a grid, one row per
// paragraph. Annotation paragraphs get their own rows, so a paragraph
// holding an annotation spans several.
type layout struct {
	rows []row
}

type pending struct {
	r    rune
	loc  dom.Location
	step int
}

type builder struct {
	doc  *odt.Document
	tree *dom.Tree
	out  *layout

	paragraph dom.NodeID
	runes     []pending
}

func buildLayout(doc *odt.Document) *layout {
	b := &builder{doc: doc, tree: doc.Tree(), out: &layout{}, paragraph: dom.None}
	for step, loc := range doc.Locations() {
		if !b.tree.IsText(loc.Node) {
			b.flush(doc.ParagraphElement(loc.Node), loc, step, true)
			continue
		}
		p := doc.ParagraphElement(loc.Node)
		if len(b.runes) > 0 && p != b.paragraph {
			b.flush(b.paragraph, loc, step, false)
		}
		b.paragraph = p
		b.runes = append(b.runes, pending{r: b.tree.RuneAt(loc.Node, loc.Offset), loc: loc, step: step})
	}
	return b.out
}

// flush closes the current row. closed is set when end is the end of
// the paragraph itself.
func (b *builder) flush(p dom.NodeID, end dom.Location, endStep int, closed bool) {
	if len(b.runes) > 0 {
		p = b.paragraph
	}
	r := row{paragraph: p, end: end, endStep: endStep}
	x := 0
	ann := b.annotationOf(p)
	if ann != dom.None {
		x = r.decorate(x, annotationPrefix, ann, decorationStyle)
	}
	x = r.place(b, x)
	r.endX = x
	if closed && ann != dom.None && b.lastParagraph(ann, p) {
		if button, label := b.removeButton(ann); button != dom.None {
			r.decorate(x+1, label, button, buttonStyle)
		}
	}
	b.out.rows = append(b.out.rows, r)
	b.runes = b.runes[:0]
	b.paragraph = dom.None
}

// place segments the pending runes into grapheme clusters.
func (r *row) place(b *builder, x int) int {
	s := make([]rune, len(b.runes))
	for i, p := range b.runes {
		s[i] = p.r
	}
	rest := string(s)
	state := -1
	i := 0
	for rest != "" {
		var (
			cluster string
			width   int
		)
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		first := b.runes[i]
		n := utf8.RuneCountInString(cluster)
		switch {
		case cluster == "\t":
			width = tabWidth - x%tabWidth
			cluster = " "
		case width == 0:
			width = 1
			cluster = " "
		}
		r.cells = append(r.cells, cell{
			x:      x,
			width:  width,
			text:   cluster,
			step:   first.step,
			runes:  n,
			loc:    first.loc,
			target: first.loc.Node,
			style:  b.styleOf(first.loc.Node),
		})
		x += width
		i += n
	}
	return x
}

func (r *row) decorate(x int, text string, target dom.NodeID, style tcell.Style) int {
	rest := text
	state := -1
	for rest != "" {
		var (
			cluster string
			width   int
		)
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		r.cells = append(r.cells, cell{x: x, width: width, text: cluster, step: -1, target: target, style: style})
		x += width
	}
	return x
}

var (
	decorationStyle = tcell.StyleDefault.Dim(true)
	buttonStyle     = tcell.StyleDefault.Bold(true)
)

func (b *builder) styleOf(n dom.NodeID) tcell.Style {
	style := tcell.StyleDefault
	if b.doc.EffectiveProperty(n, odt.PropFontWeight) == "bold" {
		style = style.Bold(true)
	}
	if b.doc.EffectiveProperty(n, odt.PropFontStyle) == "italic" {
		style = style.Italic(true)
	}
	if v := b.doc.EffectiveProperty(n, odt.PropUnderline); v != "" && v != "none" {
		style = style.Underline(true)
	}
	return style
}

func (b *builder) annotationOf(p dom.NodeID) dom.NodeID {
	if p == dom.None {
		return dom.None
	}
	parent := b.tree.Parent(p)
	if b.tree.IsElement(parent) && b.tree.Name(parent) == odt.ElementAnnotation {
		return parent
	}
	return dom.None
}

func (b *builder) lastParagraph(ann, p dom.NodeID) bool {
	last := dom.None
	for _, c := range b.tree.Children(ann) {
		if b.tree.IsElement(c) && b.tree.Name(c) == odt.ElementParagraph {
			last = c
		}
	}
	return last == p
}

// removeButton returns the label text node of the annotation's remove
// button and its text.
func (b *builder) removeButton(ann dom.NodeID) (dom.NodeID, string) {
	for _, c := range b.tree.Children(ann) {
		if !b.tree.IsElement(c) || b.tree.Name(c) != odt.ElementButton {
			continue
		}
		for _, label := range b.tree.Children(c) {
			if b.tree.IsText(label) {
				return label, b.tree.Text(label)
			}
		}
		return c, "x"
	}
	return dom.None, ""
}

// caret returns the grid position of step.
func (l *layout) caret(step int) (x, y int, ok bool) {
	for i, r := range l.rows {
		for _, c := range r.cells {
			if c.holds(step) {
				return c.x, i, true
			}
		}
	}
	for i, r := range l.rows {
		if r.endStep == step {
			return r.endX, i, true
		}
	}
	return 0, 0, false
}

// caretAt returns the location a click at column x of row y places the
// caret at.
func (l *layout) caretAt(x, y int) (dom.Location, bool) {
	if y < 0 || y >= len(l.rows) {
		return dom.Location{}, false
	}
	r := &l.rows[y]
	for _, c := range r.cells {
		if !c.decoration() && x < c.x+c.width {
			return c.loc, true
		}
	}
	return r.end, true
}

// targetAt returns the node drawn at column x of row y. Blank space of
// a row belongs to its paragraph.
func (l *layout) targetAt(x, y int) dom.NodeID {
	if y < 0 || y >= len(l.rows) {
		return dom.None
	}
	r := &l.rows[y]
	for _, c := range r.cells {
		if x >= c.x && x < c.x+c.width {
			return c.target
		}
	}
	return r.paragraph
}
