package ops

import (
	"fmt"
	"maps"
)

// Spec is the flat wire form of an operation. Fields that do not apply to
// a kind are zero.
type Spec struct {
	Kind       Kind
	Member     string
	Position   int
	Length     int
	Text       string
	MoveCursor bool
	StyleName  string
	Properties map[string]string
}

// Operation converts the spec back into a typed operation.
func (s Spec) Operation() (Operation, error) {
	if s.Member == "" {
		return nil, fieldError(fieldMember, ErrMissingField)
	}
	switch s.Kind {
	case KindAddCursor:
		return AddCursor{Member: s.Member}, nil
	case KindRemoveCursor:
		return RemoveCursor{Member: s.Member}, nil
	case KindMoveCursor:
		return MoveCursor{Member: s.Member, Position: s.Position, Length: s.Length}, nil
	case KindInsertText:
		return InsertText{Member: s.Member, Position: s.Position, Text: s.Text, MoveCursor: s.MoveCursor}, nil
	case KindRemoveText:
		return RemoveText{Member: s.Member, Position: s.Position, Length: s.Length}, nil
	case KindSplitParagraph:
		return SplitParagraph{Member: s.Member, Position: s.Position, MoveCursor: s.MoveCursor}, nil
	case KindApplyDirectStyling:
		return ApplyDirectStyling{Member: s.Member, Position: s.Position, Length: s.Length, Properties: maps.Clone(s.Properties)}, nil
	case KindRemoveAnnotation:
		return RemoveAnnotation{Member: s.Member, Position: s.Position, Length: s.Length}, nil
	case KindSetParagraphStyle:
		return SetParagraphStyle{Member: s.Member, Position: s.Position, StyleName: s.StyleName}, nil
	default:
		return nil, fieldError(fieldKind, fmt.Errorf("%w: %q", ErrUnknownOperation, s.Kind))
	}
}
