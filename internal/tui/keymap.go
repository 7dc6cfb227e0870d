package tui

// GlobalKeyBindings lists the keys handled by the root model before
// dispatching to the focused panel.
var GlobalKeyBindings = []string{
	"tab", "shift+tab", "1", "2", "3", "4",
	"q", "ctrl+c",
	"c", "d", "e", "i", "g", "r", "x",
}

// panelKeys maps each FocusTarget to the keys its panel handles internally.
// Only the events panel is interactive; the others render derived state.
var panelKeys = map[FocusTarget][]string{
	FocusEvents: {"[", "]", "f", "j", "k", "ctrl+u", "ctrl+d"},
}

// IsGlobalKey reports whether key is handled before panel dispatch.
func IsGlobalKey(key string) bool {
	for _, k := range GlobalKeyBindings {
		if k == key {
			return true
		}
	}
	return false
}

// PanelKeys returns the keys handled by the given focused panel.
func PanelKeys(focus FocusTarget) []string {
	return panelKeys[focus]
}
