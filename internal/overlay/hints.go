package overlay

import "sort"

// Hint is one onboarding message shown on first run.
type Hint struct {
	ID   string
	Text string
}

// DefaultHints returns the first-run walkthrough in display order.
func DefaultHints() []Hint {
	return []Hint{
		{ID: "draw", Text: "Click and drag to draw. Press P for pen, M for marker."},
		{ID: "help", Text: "Press F1 to see every keybinding."},
		{ID: "boards", Text: "Press Tab to switch boards. Boards can be opaque or transparent."},
		{ID: "freeze", Text: "Press Z to freeze the screen and annotate on top of it."},
	}
}

// Hints walks the user through onboarding. Dismissals persist via the
// config so hints stay hidden across sessions.
type Hints struct {
	order     []Hint
	dismissed map[string]bool
}

// NewHints builds the walkthrough, pre-dismissing ids restored from
// config.
func NewHints(order []Hint, dismissedIDs []string) *Hints {
	dismissed := make(map[string]bool, len(dismissedIDs))
	for _, id := range dismissedIDs {
		dismissed[id] = true
	}
	return &Hints{order: order, dismissed: dismissed}
}

// Current returns the first hint the user has not dismissed.
func (h *Hints) Current() (Hint, bool) {
	for _, hint := range h.order {
		if !h.dismissed[hint.ID] {
			return hint, true
		}
	}
	return Hint{}, false
}

// Dismiss hides a hint permanently. It reports whether the id was
// known and not already dismissed.
func (h *Hints) Dismiss(id string) bool {
	for _, hint := range h.order {
		if hint.ID == id {
			if h.dismissed[id] {
				return false
			}
			h.dismissed[id] = true
			return true
		}
	}
	return false
}

// DismissCurrent hides the hint currently shown.
func (h *Hints) DismissCurrent() bool {
	hint, ok := h.Current()
	if !ok {
		return false
	}
	return h.Dismiss(hint.ID)
}

// DismissedIDs returns the persisted dismissal set in stable order.
func (h *Hints) DismissedIDs() []string {
	ids := make([]string, 0, len(h.dismissed))
	for id, on := range h.dismissed {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
