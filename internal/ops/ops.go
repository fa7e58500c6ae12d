// Package ops defines the operations a member sends to a document.
//
// An operation is an immutable, member-attributed request addressed in the
// document's canonical step space. Operations carry no reference to the
// controller that built them; executing one delegates to the Document it is
// applied to, which owns the mutation semantics.
package ops

import "fmt"

// Kind identifies an operation type. The value doubles as the wire name.
type Kind string

const (
	KindAddCursor          Kind = "AddCursor"
	KindRemoveCursor       Kind = "RemoveCursor"
	KindMoveCursor         Kind = "MoveCursor"
	KindInsertText         Kind = "InsertText"
	KindRemoveText         Kind = "RemoveText"
	KindSplitParagraph     Kind = "SplitParagraph"
	KindApplyDirectStyling Kind = "ApplyDirectStyling"
	KindRemoveAnnotation   Kind = "RemoveAnnotation"
	KindSetParagraphStyle  Kind = "SetParagraphStyle"
)

// IsEdit reports whether operations of this kind change document content
// rather than only cursor state.
func (k Kind) IsEdit() bool {
	switch k {
	case KindAddCursor, KindRemoveCursor, KindMoveCursor:
		return false
	default:
		return true
	}
}

// Document is the execution target of operations.
type Document interface {
	AddCursor(member string) error
	RemoveCursor(member string) error
	MoveCursor(member string, position, length int) error
	InsertText(member string, position int, text string, moveCursor bool) error
	RemoveText(member string, position, length int) error
	SplitParagraph(member string, position int, moveCursor bool) error
	ApplyDirectStyling(member string, position, length int, props map[string]string) error
	RemoveAnnotation(member string, position, length int) error
	SetParagraphStyle(member string, position int, styleName string) error
}

// Operation is a single step-addressed mutation request.
type Operation interface {
	Kind() Kind
	MemberID() string
	Execute(doc Document) error
	Spec() Spec
}

// AddCursor creates the member's cursor at the document start.
type AddCursor struct {
	Member string
}

func (op AddCursor) Kind() Kind                 { return KindAddCursor }
func (op AddCursor) MemberID() string           { return op.Member }
func (op AddCursor) Execute(doc Document) error { return doc.AddCursor(op.Member) }
func (op AddCursor) Spec() Spec                 { return Spec{Kind: KindAddCursor, Member: op.Member} }

// RemoveCursor deletes the member's cursor.
type RemoveCursor struct {
	Member string
}

func (op RemoveCursor) Kind() Kind                 { return KindRemoveCursor }
func (op RemoveCursor) MemberID() string           { return op.Member }
func (op RemoveCursor) Execute(doc Document) error { return doc.RemoveCursor(op.Member) }
func (op RemoveCursor) Spec() Spec                 { return Spec{Kind: KindRemoveCursor, Member: op.Member} }

// MoveCursor selects Length steps starting at Position. Position is the
// anchor; a negative Length puts the focus before it.
type MoveCursor struct {
	Member   string
	Position int
	Length   int
}

func (op MoveCursor) Kind() Kind       { return KindMoveCursor }
func (op MoveCursor) MemberID() string { return op.Member }
func (op MoveCursor) Execute(doc Document) error {
	return doc.MoveCursor(op.Member, op.Position, op.Length)
}
func (op MoveCursor) Spec() Spec {
	return Spec{Kind: KindMoveCursor, Member: op.Member, Position: op.Position, Length: op.Length}
}

// InsertText inserts Text before the step at Position. With MoveCursor set
// the member's cursor ends up collapsed after the inserted text.
type InsertText struct {
	Member     string
	Position   int
	Text       string
	MoveCursor bool
}

func (op InsertText) Kind() Kind       { return KindInsertText }
func (op InsertText) MemberID() string { return op.Member }
func (op InsertText) Execute(doc Document) error {
	return doc.InsertText(op.Member, op.Position, op.Text, op.MoveCursor)
}
func (op InsertText) Spec() Spec {
	return Spec{Kind: KindInsertText, Member: op.Member, Position: op.Position, Text: op.Text, MoveCursor: op.MoveCursor}
}

// RemoveText removes Length steps starting at Position. Removing the last
// step of a paragraph joins it with the following one.
type RemoveText struct {
	Member   string
	Position int
	Length   int
}

func (op RemoveText) Kind() Kind       { return KindRemoveText }
func (op RemoveText) MemberID() string { return op.Member }
func (op RemoveText) Execute(doc Document) error {
	return doc.RemoveText(op.Member, op.Position, op.Length)
}
func (op RemoveText) Spec() Spec {
	return Spec{Kind: KindRemoveText, Member: op.Member, Position: op.Position, Length: op.Length}
}

// SplitParagraph splits the paragraph at Position. The split adds one step.
type SplitParagraph struct {
	Member     string
	Position   int
	MoveCursor bool
}

func (op SplitParagraph) Kind() Kind       { return KindSplitParagraph }
func (op SplitParagraph) MemberID() string { return op.Member }
func (op SplitParagraph) Execute(doc Document) error {
	return doc.SplitParagraph(op.Member, op.Position, op.MoveCursor)
}
func (op SplitParagraph) Spec() Spec {
	return Spec{Kind: KindSplitParagraph, Member: op.Member, Position: op.Position, MoveCursor: op.MoveCursor}
}

// ApplyDirectStyling sets text properties, such as fo:font-weight, on the
// text of a step range.
type ApplyDirectStyling struct {
	Member     string
	Position   int
	Length     int
	Properties map[string]string
}

func (op ApplyDirectStyling) Kind() Kind       { return KindApplyDirectStyling }
func (op ApplyDirectStyling) MemberID() string { return op.Member }
func (op ApplyDirectStyling) Execute(doc Document) error {
	return doc.ApplyDirectStyling(op.Member, op.Position, op.Length, op.Properties)
}
func (op ApplyDirectStyling) Spec() Spec {
	props := make(map[string]string, len(op.Properties))
	for k, v := range op.Properties {
		props[k] = v
	}
	return Spec{Kind: KindApplyDirectStyling, Member: op.Member, Position: op.Position, Length: op.Length, Properties: props}
}

// RemoveAnnotation deletes the annotation whose content starts at Position
// and spans Length steps.
type RemoveAnnotation struct {
	Member   string
	Position int
	Length   int
}

func (op RemoveAnnotation) Kind() Kind       { return KindRemoveAnnotation }
func (op RemoveAnnotation) MemberID() string { return op.Member }
func (op RemoveAnnotation) Execute(doc Document) error {
	return doc.RemoveAnnotation(op.Member, op.Position, op.Length)
}
func (op RemoveAnnotation) Spec() Spec {
	return Spec{Kind: KindRemoveAnnotation, Member: op.Member, Position: op.Position, Length: op.Length}
}

// SetParagraphStyle sets the named style of the paragraph at Position.
type SetParagraphStyle struct {
	Member    string
	Position  int
	StyleName string
}

func (op SetParagraphStyle) Kind() Kind       { return KindSetParagraphStyle }
func (op SetParagraphStyle) MemberID() string { return op.Member }
func (op SetParagraphStyle) Execute(doc Document) error {
	return doc.SetParagraphStyle(op.Member, op.Position, op.StyleName)
}
func (op SetParagraphStyle) Spec() Spec {
	return Spec{Kind: KindSetParagraphStyle, Member: op.Member, Position: op.Position, StyleName: op.StyleName}
}

// Describe returns a short human-readable form of op for logs.
func Describe(op Operation) string {
	s := op.Spec()
	switch s.Kind {
	case KindAddCursor, KindRemoveCursor:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Member)
	case KindInsertText:
		return fmt.Sprintf("%s(%s @%d %q)", s.Kind, s.Member, s.Position, s.Text)
	case KindSplitParagraph:
		return fmt.Sprintf("%s(%s @%d)", s.Kind, s.Member, s.Position)
	case KindSetParagraphStyle:
		return fmt.Sprintf("%s(%s @%d %s)", s.Kind, s.Member, s.Position, s.StyleName)
	default:
		return fmt.Sprintf("%s(%s @%d+%d)", s.Kind, s.Member, s.Position, s.Length)
	}
}
