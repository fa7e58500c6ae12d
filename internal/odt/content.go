package odt

import (
	"strings"

	"github.com/dshills/docedit/internal/dom"
)

// Element names used in the document tree.
const (
	ElementWindow     = "window"
	ElementChrome     = "chrome"
	ElementCanvas     = "canvas"
	ElementStatusBar  = "statusbar"
	ElementBody       = "body"
	ElementParagraph  = "p"
	ElementSpan       = "span"
	ElementAnnotation = "annotation"
	ElementButton     = "button"
)

// Attribute names and values.
const (
	// AttrStyle holds a paragraph's style name.
	AttrStyle = "style"

	// AttrClass classifies chrome elements such as buttons.
	AttrClass = "class"

	// ClassRemoveAnnotation marks the button that removes its annotation.
	ClassRemoveAnnotation = "annotationRemoveButton"
)

// Content appends nodes below parent. Content values compose into a
// document body.
type Content func(t *dom.Tree, parent dom.NodeID)

// Text is a run of unstyled text. Empty text adds nothing.
func Text(s string) Content {
	return func(t *dom.Tree, parent dom.NodeID) {
		if s != "" {
			t.AppendChild(parent, t.NewText(s))
		}
	}
}

// Paragraph is a paragraph holding children.
func Paragraph(children ...Content) Content {
	return element(ElementParagraph, nil, children)
}

// StyledParagraph is a paragraph with a named paragraph style.
func StyledParagraph(style string, children ...Content) Content {
	return element(ElementParagraph, map[string]string{AttrStyle: style}, children)
}

// Span is inline content with direct text properties.
func Span(props map[string]string, children ...Content) Content {
	return element(ElementSpan, props, children)
}

// Annotation is a comment anchored inline. It holds its own paragraphs
// and a remove button.
func Annotation(paragraphs ...Content) Content {
	return func(t *dom.Tree, parent dom.NodeID) {
		ann := t.NewElement(ElementAnnotation)
		t.AppendChild(parent, ann)
		for _, p := range paragraphs {
			p(t, ann)
		}
		button := t.NewElement(ElementButton)
		t.SetAttr(button, AttrClass, ClassRemoveAnnotation)
		t.AppendChild(button, t.NewText("×"))
		t.AppendChild(ann, button)
	}
}

// Lines returns one plain paragraph per line of text.
func Lines(text string) []Content {
	lines := strings.Split(text, "\n")
	out := make([]Content, len(lines))
	for i, line := range lines {
		out[i] = Paragraph(Text(line))
	}
	return out
}

func element(name string, attrs map[string]string, children []Content) Content {
	return func(t *dom.Tree, parent dom.NodeID) {
		e := t.NewElement(name)
		for k, v := range attrs {
			t.SetAttr(e, k, v)
		}
		t.AppendChild(parent, e)
		for _, c := range children {
			c(t, e)
		}
	}
}
