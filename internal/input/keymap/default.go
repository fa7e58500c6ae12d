package keymap

// LoadDefaults registers the built-in keymaps.
func LoadDefaults(r *Registry) error {
	for _, km := range []*Keymap{CommonKeymap(), MacKeymap(), OtherKeymap()} {
		if err := r.Register(km); err != nil {
			return err
		}
	}
	return nil
}

// CommonKeymap returns the bindings shared by every platform.
func CommonKeymap() *Keymap {
	return &Keymap{
		Name:   "default-common",
		Source: "default",
		Bindings: []Binding{
			{Keys: "Tab", Action: ActionInsertTab, Description: "Insert a tab"},
			{Keys: "Enter", Action: ActionSplitParagraph, Description: "Split the paragraph"},
			{Keys: "Backspace", Action: ActionBackspace, Description: "Delete backward"},
			{Keys: "Delete", Action: ActionDelete, Description: "Delete forward"},

			{Keys: "Left", Action: ActionMoveLeft},
			{Keys: "Right", Action: ActionMoveRight},
			{Keys: "Up", Action: ActionMoveUp},
			{Keys: "Down", Action: ActionMoveDown},
			{Keys: "Home", Action: ActionMoveLineStart},
			{Keys: "End", Action: ActionMoveLineEnd},
			{Keys: "Ctrl+Home", Action: ActionMoveDocumentStart},
			{Keys: "Ctrl+End", Action: ActionMoveDocumentEnd},

			{Keys: "Shift+Left", Action: ActionExtendLeft},
			{Keys: "Shift+Right", Action: ActionExtendRight},
			{Keys: "Shift+Up", Action: ActionExtendUp},
			{Keys: "Shift+Down", Action: ActionExtendDown},
			{Keys: "Shift+Home", Action: ActionExtendLineStart},
			{Keys: "Shift+End", Action: ActionExtendLineEnd},
			{Keys: "Ctrl+Shift+Up", Action: ActionExtendParagraphStart},
			{Keys: "Ctrl+Shift+Down", Action: ActionExtendParagraphEnd},
			{Keys: "Ctrl+Shift+Home", Action: ActionExtendDocumentStart},
			{Keys: "Ctrl+Shift+End", Action: ActionExtendDocumentEnd},
		},
	}
}

// MacKeymap returns the bindings used with the Command key.
func MacKeymap() *Keymap {
	return &Keymap{
		Name:     "default-mac",
		Platform: PlatformMac,
		Source:   "default",
		Bindings: []Binding{
			{Keys: "Clear", Action: ActionClear, Description: "Delete the selection"},
			{Keys: "Meta+Left", Action: ActionMoveLineStart},
			{Keys: "Meta+Right", Action: ActionMoveLineEnd},
			{Keys: "Meta+Home", Action: ActionMoveDocumentStart},
			{Keys: "Meta+End", Action: ActionMoveDocumentEnd},
			{Keys: "Meta+Shift+Left", Action: ActionExtendLineStart},
			{Keys: "Meta+Shift+Right", Action: ActionExtendLineEnd},
			{Keys: "Alt+Shift+Up", Action: ActionExtendParagraphStart},
			{Keys: "Alt+Shift+Down", Action: ActionExtendParagraphEnd},
			{Keys: "Meta+Shift+Up", Action: ActionExtendDocumentStart},
			{Keys: "Meta+Shift+Down", Action: ActionExtendDocumentEnd},
			{Keys: "Meta+A", Action: ActionSelectAll},
			{Keys: "Meta+B", Action: ActionToggleBold},
			{Keys: "Meta+I", Action: ActionToggleItalic},
			{Keys: "Meta+U", Action: ActionToggleUnderline},
			{Keys: "Meta+Z", Action: ActionUndo},
			{Keys: "Meta+Shift+Z", Action: ActionRedo},
		},
	}
}

// OtherKeymap returns the bindings used with the Control key.
func OtherKeymap() *Keymap {
	return &Keymap{
		Name:     "default-other",
		Platform: PlatformOther,
		Source:   "default",
		Bindings: []Binding{
			{Keys: "Ctrl+A", Action: ActionSelectAll},
			{Keys: "Ctrl+B", Action: ActionToggleBold},
			{Keys: "Ctrl+I", Action: ActionToggleItalic},
			{Keys: "Ctrl+U", Action: ActionToggleUnderline},
			{Keys: "Ctrl+Z", Action: ActionUndo},
			{Keys: "Ctrl+Shift+Z", Action: ActionRedo},
		},
	}
}
