// Package keybind parses key-combo strings and resolves key events to
// actions. A combo is a modifier set plus a primary key; matching is an
// exact modifier-set comparison, never subset matching.
package keybind

import (
	"fmt"
	"strings"

	"golang.org/x/mobile/event/key"
)

// Action tags an engine operation a key can trigger.
type Action string

const (
	ActionClearCanvas     Action = "clear_canvas"
	ActionUndo            Action = "undo"
	ActionRedo            Action = "redo"
	ActionUndoAll         Action = "undo_all"
	ActionRedoAll         Action = "redo_all"
	ActionToolPen         Action = "tool_pen"
	ActionToolMarker      Action = "tool_marker"
	ActionToolLine        Action = "tool_line"
	ActionToolRect        Action = "tool_rect"
	ActionToolEllipse     Action = "tool_ellipse"
	ActionToolArrow       Action = "tool_arrow"
	ActionToolText        Action = "tool_text"
	ActionToolSticky      Action = "tool_sticky"
	ActionToolEraser      Action = "tool_eraser"
	ActionToolSelect      Action = "tool_select"
	ActionToggleFill      Action = "toggle_fill"
	ActionToggleFreeze    Action = "toggle_freeze"
	ActionZoomIn          Action = "zoom_in"
	ActionZoomOut         Action = "zoom_out"
	ActionZoomReset       Action = "zoom_reset"
	ActionZoomLock        Action = "zoom_lock"
	ActionCopy            Action = "copy"
	ActionPaste           Action = "paste"
	ActionDuplicate       Action = "duplicate"
	ActionDelete          Action = "delete"
	ActionSelectAll       Action = "select_all"
	ActionBringToFront    Action = "bring_to_front"
	ActionSendToBack      Action = "send_to_back"
	ActionNextBoard       Action = "next_board"
	ActionPrevBoard       Action = "prev_board"
	ActionDuplicateBoard  Action = "duplicate_board"
	ActionNextPage        Action = "next_page"
	ActionPrevPage        Action = "prev_page"
	ActionNewPage         Action = "new_page"
	ActionDeletePage      Action = "delete_page"
	ActionCaptureFull     Action = "capture_full"
	ActionCaptureClip     Action = "capture_clipboard"
	ActionCaptureFile     Action = "capture_file"
	ActionToggleHelp      Action = "toggle_help"
	ActionTogglePalette   Action = "toggle_palette"
	ActionToggleBoards    Action = "toggle_board_picker"
	ActionToggleProps     Action = "toggle_properties"
	ActionTogglePresenter Action = "toggle_presenter"
	ActionQuit            Action = "quit"
)

// Combo is a parsed key combination. Key is a single lowercase
// character or a lowercase named key ("return", "escape", "f1", ...).
type Combo struct {
	Mods key.Modifiers
	Key  string
}

// relevantMods masks the modifiers combos distinguish. Shift changes
// the character for plain keys, so it participates in matching only
// when a combo names it explicitly.
const relevantMods = key.ModControl | key.ModAlt | key.ModShift

var namedKeys = map[string]string{
	"return": "return", "enter": "return",
	"escape": "escape", "esc": "escape",
	"space": "space", "tab": "tab", "backspace": "backspace", "delete": "delete",
	"up": "up", "down": "down", "left": "left", "right": "right",
	"home": "home", "end": "end", "pageup": "pageup", "pagedown": "pagedown",
	"f1": "f1", "f2": "f2", "f3": "f3", "f4": "f4", "f5": "f5", "f6": "f6",
	"f7": "f7", "f8": "f8", "f9": "f9", "f10": "f10", "f11": "f11", "f12": "f12",
	"plus": "+", "minus": "-",
}

// ParseCombo parses a combo string such as "Ctrl+Shift+Z" or "E".
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(s, "+")
	// A trailing empty part means the primary key itself was '+'.
	if len(parts) >= 2 && parts[len(parts)-1] == "" && parts[len(parts)-2] == "" {
		parts = append(parts[:len(parts)-2], "+")
	}
	var c Combo
	for i, raw := range parts {
		part := strings.TrimSpace(raw)
		last := i == len(parts)-1
		switch strings.ToLower(part) {
		case "ctrl", "control":
			c.Mods |= key.ModControl
		case "alt":
			c.Mods |= key.ModAlt
		case "shift":
			c.Mods |= key.ModShift
		default:
			if !last {
				return Combo{}, fmt.Errorf("combo %q: unknown modifier %q", s, part)
			}
			k := strings.ToLower(part)
			if named, ok := namedKeys[k]; ok {
				c.Key = named
			} else if len([]rune(k)) == 1 {
				c.Key = k
			} else {
				return Combo{}, fmt.Errorf("combo %q: unknown key %q", s, part)
			}
		}
	}
	if c.Key == "" {
		return Combo{}, fmt.Errorf("combo %q: missing primary key", s)
	}
	return c, nil
}

// Resolver maps key events to actions.
type Resolver struct {
	bindings map[Combo]Action
}

// NewResolver compiles a binding table from action tags to combo
// strings. Later entries never shadow earlier distinct actions on the
// same combo; duplicates are an error.
func NewResolver(table map[Action][]string) (*Resolver, error) {
	r := &Resolver{bindings: make(map[Combo]Action)}
	for action, combos := range table {
		for _, s := range combos {
			c, err := ParseCombo(s)
			if err != nil {
				return nil, fmt.Errorf("action %q: %w", action, err)
			}
			if prev, dup := r.bindings[c]; dup && prev != action {
				return nil, fmt.Errorf("combo %q bound to both %q and %q", s, prev, action)
			}
			r.bindings[c] = action
		}
	}
	return r, nil
}

// Resolve matches a key event. keyName is the normalized lowercase key
// (single character or named key); mods is the event's modifier state.
// When textInput is true only Ctrl/Alt combos are considered so plain
// characters fall through to buffer insertion.
//
// Plain character combos match only when Ctrl and Alt are absent;
// Shift+char is allowed because the source event already carries the
// shifted character.
func (r *Resolver) Resolve(keyName string, mods key.Modifiers, textInput bool) (Action, bool) {
	keyName = strings.ToLower(keyName)
	mods &= relevantMods
	if textInput && mods&(key.ModControl|key.ModAlt) == 0 {
		return "", false
	}
	if a, ok := r.bindings[Combo{Mods: mods, Key: keyName}]; ok {
		return a, true
	}
	// Shift+char events arrive with the shifted character; retry with
	// the shift bit dropped so a binding on the bare character matches.
	if mods&key.ModShift != 0 && !isNamed(keyName) {
		if a, ok := r.bindings[Combo{Mods: mods &^ key.ModShift, Key: keyName}]; ok {
			return a, true
		}
	}
	return "", false
}

func isNamed(k string) bool {
	_, ok := namedKeys[k]
	return ok && len([]rune(k)) > 1
}

// DefaultBindings is the built-in table applied when the configuration
// names none.
func DefaultBindings() map[Action][]string {
	return map[Action][]string{
		ActionClearCanvas:     {"e"},
		ActionUndo:            {"ctrl+z"},
		ActionRedo:            {"ctrl+shift+z", "ctrl+y"},
		ActionUndoAll:         {"ctrl+alt+z"},
		ActionRedoAll:         {"ctrl+alt+y"},
		ActionToolPen:         {"p"},
		ActionToolMarker:      {"m"},
		ActionToolLine:        {"l"},
		ActionToolRect:        {"r"},
		ActionToolEllipse:     {"o"},
		ActionToolArrow:       {"a"},
		ActionToolText:        {"t"},
		ActionToolSticky:      {"n"},
		ActionToolEraser:      {"x"},
		ActionToolSelect:      {"s"},
		ActionToggleFill:      {"f"},
		ActionToggleFreeze:    {"z"},
		ActionZoomIn:          {"plus"},
		ActionZoomOut:         {"minus"},
		ActionZoomReset:       {"0"},
		ActionZoomLock:        {"shift+l"},
		ActionCopy:            {"ctrl+c"},
		ActionPaste:           {"ctrl+v"},
		ActionDuplicate:       {"ctrl+d"},
		ActionDelete:          {"delete"},
		ActionSelectAll:       {"ctrl+a"},
		ActionBringToFront:    {"ctrl+up"},
		ActionSendToBack:      {"ctrl+down"},
		ActionNextBoard:       {"ctrl+tab"},
		ActionPrevBoard:       {"ctrl+shift+tab"},
		ActionDuplicateBoard:  {"ctrl+shift+d"},
		ActionNextPage:        {"pagedown"},
		ActionPrevPage:        {"pageup"},
		ActionNewPage:         {"ctrl+shift+n"},
		ActionDeletePage:      {"ctrl+shift+w"},
		ActionCaptureFull:     {"f10"},
		ActionCaptureClip:     {"ctrl+f10"},
		ActionCaptureFile:     {"shift+f10"},
		ActionToggleHelp:      {"f1"},
		ActionTogglePalette:   {"ctrl+p"},
		ActionToggleBoards:    {"b"},
		ActionToggleProps:     {"f4"},
		ActionTogglePresenter: {"f5"},
		ActionQuit:            {"q", "ctrl+q"},
	}
}
