package odt

import (
	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/event"
)

// Signals emitted on the document bus.
const (
	// SignalOperationExecuted carries the ops.Operation that was applied.
	SignalOperationExecuted event.Topic = "operation/executed"

	// SignalUndoStackChanged carries the undo manager's stack state.
	SignalUndoStackChanged event.Topic = "undo/changed"

	// SignalCursorAdded carries the new *cursor.Cursor.
	SignalCursorAdded event.Topic = "cursor/added"

	// SignalCursorRemoved carries the member id.
	SignalCursorRemoved event.Topic = "cursor/removed"

	// SignalCursorMoved carries the moved *cursor.Cursor.
	SignalCursorMoved event.Topic = "cursor/moved"

	// SignalParagraphChanged carries a ParagraphChange.
	SignalParagraphChanged event.Topic = "paragraph/changed"
)

// ParagraphChange describes an edit to one paragraph.
type ParagraphChange struct {
	Paragraph dom.NodeID
	Member    string
}

// Subscribe registers h for signals on topic.
func (d *Document) Subscribe(topic event.Topic, h event.Handler, opts ...event.SubscriptionOption) (*event.Subscription, error) {
	return d.bus.Subscribe(topic, h, opts...)
}

// Unsubscribe removes a subscription made with Subscribe.
func (d *Document) Unsubscribe(sub *event.Subscription) error {
	return d.bus.Unsubscribe(sub)
}

// Emit delivers payload to the subscribers of topic.
func (d *Document) Emit(topic event.Topic, payload any) {
	d.bus.Emit(topic, payload)
}

func (d *Document) emitParagraphChanged(member string, paragraphs ...dom.NodeID) {
	seen := make(map[dom.NodeID]bool, len(paragraphs))
	for _, p := range paragraphs {
		if p == dom.None || seen[p] {
			continue
		}
		seen[p] = true
		d.bus.Emit(SignalParagraphChanged, ParagraphChange{Paragraph: p, Member: member})
	}
}
