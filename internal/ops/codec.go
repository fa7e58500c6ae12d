package ops

import (
	"errors"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Wire field names.
const (
	fieldKind       = "optype"
	fieldMember     = "memberid"
	fieldPosition   = "position"
	fieldLength     = "length"
	fieldText       = "text"
	fieldMoveCursor = "moveCursor"
	fieldStyleName  = "styleName"
	fieldProperties = "setProperties"

	// textProperties groups character properties inside setProperties.
	textProperties = "style:text-properties"
)

// Encode returns the JSON wire form of op.
func Encode(op Operation) ([]byte, error) {
	return op.Spec().MarshalJSON()
}

// MarshalJSON encodes the spec with only the fields its kind uses.
func (s Spec) MarshalJSON() ([]byte, error) {
	w := &writer{buf: []byte(`{}`)}
	w.set(fieldKind, string(s.Kind))
	w.set(fieldMember, s.Member)
	switch s.Kind {
	case KindMoveCursor, KindRemoveText, KindRemoveAnnotation:
		w.set(fieldPosition, s.Position)
		w.set(fieldLength, s.Length)
	case KindInsertText:
		w.set(fieldPosition, s.Position)
		w.set(fieldText, s.Text)
		w.set(fieldMoveCursor, s.MoveCursor)
	case KindSplitParagraph:
		w.set(fieldPosition, s.Position)
		w.set(fieldMoveCursor, s.MoveCursor)
	case KindSetParagraphStyle:
		w.set(fieldPosition, s.Position)
		w.set(fieldStyleName, s.StyleName)
	case KindApplyDirectStyling:
		w.set(fieldPosition, s.Position)
		w.set(fieldLength, s.Length)
		keys := make([]string, 0, len(s.Properties))
		for k := range s.Properties {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		w.setRaw(fieldProperties+"."+escapeKey(textProperties), `{}`)
		for _, k := range keys {
			w.set(fieldProperties+"."+escapeKey(textProperties)+"."+escapeKey(k), s.Properties[k])
		}
	}
	return w.buf, w.err
}

// UnmarshalJSON decodes a spec, validating required fields.
func (s *Spec) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fieldError("", ErrInvalidJSON)
	}
	spec, err := decodeSpec(gjson.ParseBytes(data))
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

// Decode parses a single operation.
func Decode(data []byte) (Operation, error) {
	var s Spec
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s.Operation()
}

// EncodeList encodes operations as a JSON array.
func EncodeList(list []Operation) ([]byte, error) {
	buf := []byte(`[]`)
	for _, op := range list {
		raw, err := Encode(op)
		if err != nil {
			return nil, err
		}
		if buf, err = sjson.SetRawBytes(buf, "-1", raw); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// DecodeList parses a JSON array of operations. Errors carry the index of
// the offending element.
func DecodeList(data []byte) ([]Operation, error) {
	if !gjson.ValidBytes(data) {
		return nil, fieldError("", ErrInvalidJSON)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fieldError("", ErrFieldType)
	}
	var (
		out     []Operation
		decErr  error
		element int
	)
	root.ForEach(func(_, value gjson.Result) bool {
		spec, err := decodeSpec(value)
		var op Operation
		if err == nil {
			op, err = spec.Operation()
		}
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Index = element
			}
			decErr = err
			return false
		}
		out = append(out, op)
		element++
		return true
	})
	if decErr != nil {
		return nil, decErr
	}
	return out, nil
}

func decodeSpec(r gjson.Result) (Spec, error) {
	if !r.IsObject() {
		return Spec{}, fieldError("", ErrFieldType)
	}
	var s Spec
	kind, err := str(r, fieldKind, true)
	if err != nil {
		return Spec{}, err
	}
	s.Kind = Kind(kind)
	if s.Member, err = str(r, fieldMember, true); err != nil {
		return Spec{}, err
	}

	switch s.Kind {
	case KindAddCursor, KindRemoveCursor:
		return s, nil
	case KindMoveCursor, KindRemoveText, KindRemoveAnnotation, KindApplyDirectStyling:
		if s.Position, err = integer(r, fieldPosition, true); err != nil {
			return Spec{}, err
		}
		if s.Length, err = integer(r, fieldLength, s.Kind != KindMoveCursor); err != nil {
			return Spec{}, err
		}
	case KindInsertText, KindSplitParagraph, KindSetParagraphStyle:
		if s.Position, err = integer(r, fieldPosition, true); err != nil {
			return Spec{}, err
		}
	default:
		return Spec{}, fieldError(fieldKind, ErrUnknownOperation)
	}

	switch s.Kind {
	case KindInsertText:
		if s.Text, err = str(r, fieldText, true); err != nil {
			return Spec{}, err
		}
		s.MoveCursor = r.Get(fieldMoveCursor).Bool()
	case KindSplitParagraph:
		s.MoveCursor = r.Get(fieldMoveCursor).Bool()
	case KindSetParagraphStyle:
		if s.StyleName, err = str(r, fieldStyleName, true); err != nil {
			return Spec{}, err
		}
	case KindApplyDirectStyling:
		props := r.Get(fieldProperties + "." + escapeKey(textProperties))
		if props.Exists() && !props.IsObject() {
			return Spec{}, fieldError(fieldProperties, ErrFieldType)
		}
		s.Properties = make(map[string]string)
		props.ForEach(func(k, v gjson.Result) bool {
			s.Properties[k.String()] = v.String()
			return true
		})
	}
	return s, nil
}

func str(r gjson.Result, field string, required bool) (string, error) {
	v := r.Get(field)
	if !v.Exists() {
		if required {
			return "", fieldError(field, ErrMissingField)
		}
		return "", nil
	}
	if v.Type != gjson.String {
		return "", fieldError(field, ErrFieldType)
	}
	return v.String(), nil
}

func integer(r gjson.Result, field string, required bool) (int, error) {
	v := r.Get(field)
	if !v.Exists() {
		if required {
			return 0, fieldError(field, ErrMissingField)
		}
		return 0, nil
	}
	if v.Type != gjson.Number || v.Num != float64(int(v.Num)) {
		return 0, fieldError(field, ErrFieldType)
	}
	return int(v.Int()), nil
}

// escapeKey escapes path syntax characters in a literal key.
func escapeKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

type writer struct {
	buf []byte
	err error
}

func (w *writer) set(path string, value any) {
	if w.err != nil {
		return
	}
	w.buf, w.err = sjson.SetBytes(w.buf, path, value)
}

func (w *writer) setRaw(path, raw string) {
	if w.err != nil {
		return
	}
	w.buf, w.err = sjson.SetRawBytes(w.buf, path, []byte(raw))
}
