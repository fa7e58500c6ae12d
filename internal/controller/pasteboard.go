package controller

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/docedit/internal/ops"
)

// Pasteboard turns pasted plain text into operations for one member.
type Pasteboard struct {
	doc    Document
	member string
}

// NewPasteboard creates a pasteboard inserting at member's cursor.
func NewPasteboard(doc Document, member string) *Pasteboard {
	return &Pasteboard{doc: doc, member: member}
}

// CreatePasteOps returns the operations inserting data at the start of
// the member's selection. Each line break becomes a paragraph split, so
// text with k breaks yields k+1 insertions and k splits. Carriage returns
// are dropped.
func (p *Pasteboard) CreatePasteOps(data string) []ops.Operation {
	lines := strings.Split(strings.ReplaceAll(data, "\r", ""), "\n")
	position := p.doc.CursorSelection(p.member).ToForward().Position

	list := make([]ops.Operation, 0, 2*len(lines))
	for _, line := range lines {
		list = append(list, ops.InsertText{Member: p.member, Position: position, Text: line, MoveCursor: true})
		position += utf8.RuneCountInString(line)
		list = append(list, ops.SplitParagraph{Member: p.member, Position: position, MoveCursor: true})
		position++
	}
	return list[:len(list)-1]
}
