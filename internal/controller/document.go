package controller

import (
	"github.com/dshills/docedit/internal/cursor"
	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/event"
	"github.com/dshills/docedit/internal/filter"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
	"github.com/dshills/docedit/internal/undo"
)

// Document is what the controller reads from the document it edits.
// *odt.Document implements it.
type Document interface {
	ops.Document
	undo.Document

	Tree() *dom.Tree
	RootNode() dom.NodeID
	CanvasNode() dom.NodeID
	LoopGuard() int

	PositionFilter() filter.Filter
	CreateRootFilter(member string) filter.Filter
	ParagraphElement(node dom.NodeID) dom.NodeID
	PositionInTextNode(step int) bool
	LocationAt(step int) (dom.Location, bool)

	Cursor(member string) *cursor.Cursor
	CursorPosition(member string) int
	CursorSelection(member string) cursor.Selection
	DistanceFromCursor(member string, node dom.NodeID, offset int) int
	SelectedText(member string) string
	PlainText() string
	AnnotationRange(annotation dom.NodeID) (position, length int, ok bool)

	IsBold(member string) bool
	IsItalic(member string) bool
	HasUnderline(member string) bool

	Subscribe(topic event.Topic, h event.Handler, opts ...event.SubscriptionOption) (*event.Subscription, error)
	Unsubscribe(sub *event.Subscription) error
	Emit(topic event.Topic, payload any)
}

var _ Document = (*odt.Document)(nil)
