package odt

import "github.com/dshills/docedit/internal/dom"

// Text properties toggled by the editor.
const (
	PropFontWeight = "fo:font-weight"
	PropFontStyle  = "fo:font-style"
	PropUnderline  = "style:text-underline-style"
)

// EffectiveProperty returns the value of a text property at node: the
// value set on the closest enclosing element, or "".
func (d *Document) EffectiveProperty(node dom.NodeID, key string) string {
	t := d.tree
	for n := node; n != dom.None; n = t.Parent(n) {
		if t.IsElement(n) {
			if v, ok := t.Attr(n, key); ok {
				return v
			}
		}
		if n == d.body {
			break
		}
	}
	return ""
}

// SelectionHasProperty reports whether every character selected by member
// has the property value. A selection without characters has none.
func (d *Document) SelectionHasProperty(member, key, value string) bool {
	sel := d.CursorSelection(member).ToForward()
	found := false
	for _, loc := range d.collect(sel.Position, sel.Length) {
		if !d.tree.IsText(loc.Node) {
			continue
		}
		if d.EffectiveProperty(loc.Node, key) != value {
			return false
		}
		found = true
	}
	return found
}

// IsBold reports whether the member's selected text is bold.
func (d *Document) IsBold(member string) bool {
	return d.SelectionHasProperty(member, PropFontWeight, "bold")
}

// IsItalic reports whether the member's selected text is italic.
func (d *Document) IsItalic(member string) bool {
	return d.SelectionHasProperty(member, PropFontStyle, "italic")
}

// HasUnderline reports whether the member's selected text is underlined.
func (d *Document) HasUnderline(member string) bool {
	return d.SelectionHasProperty(member, PropUnderline, "solid")
}
