package keymap

// Editing actions a binding can name.
const (
	ActionNone = "none"

	ActionMoveLeft          = "cursor.left"
	ActionMoveRight         = "cursor.right"
	ActionMoveUp            = "cursor.up"
	ActionMoveDown          = "cursor.down"
	ActionMoveLineStart     = "cursor.lineStart"
	ActionMoveLineEnd       = "cursor.lineEnd"
	ActionMoveDocumentStart = "cursor.documentStart"
	ActionMoveDocumentEnd   = "cursor.documentEnd"

	ActionExtendLeft           = "select.left"
	ActionExtendRight          = "select.right"
	ActionExtendUp             = "select.up"
	ActionExtendDown           = "select.down"
	ActionExtendLineStart      = "select.lineStart"
	ActionExtendLineEnd        = "select.lineEnd"
	ActionExtendParagraphStart = "select.paragraphStart"
	ActionExtendParagraphEnd   = "select.paragraphEnd"
	ActionExtendDocumentStart  = "select.documentStart"
	ActionExtendDocumentEnd    = "select.documentEnd"
	ActionSelectAll            = "select.all"

	ActionBackspace      = "edit.backspace"
	ActionDelete         = "edit.delete"
	ActionClear          = "edit.clear"
	ActionInsertTab      = "edit.tab"
	ActionSplitParagraph = "edit.splitParagraph"

	ActionToggleBold      = "format.bold"
	ActionToggleItalic    = "format.italic"
	ActionToggleUnderline = "format.underline"

	ActionUndo = "history.undo"
	ActionRedo = "history.redo"
)

// Actions lists every built-in action name.
func Actions() []string {
	return []string{
		ActionMoveLeft, ActionMoveRight, ActionMoveUp, ActionMoveDown,
		ActionMoveLineStart, ActionMoveLineEnd, ActionMoveDocumentStart, ActionMoveDocumentEnd,
		ActionExtendLeft, ActionExtendRight, ActionExtendUp, ActionExtendDown,
		ActionExtendLineStart, ActionExtendLineEnd,
		ActionExtendParagraphStart, ActionExtendParagraphEnd,
		ActionExtendDocumentStart, ActionExtendDocumentEnd, ActionSelectAll,
		ActionBackspace, ActionDelete, ActionClear, ActionInsertTab, ActionSplitParagraph,
		ActionToggleBold, ActionToggleItalic, ActionToggleUnderline,
		ActionUndo, ActionRedo,
	}
}

// IsKnownAction reports whether name is a built-in action or ActionNone.
func IsKnownAction(name string) bool {
	if name == ActionNone {
		return true
	}
	for _, a := range Actions() {
		if a == name {
			return true
		}
	}
	return false
}
