package engine

import (
	"fmt"
	"strings"
)

// statusLine builds the per-tick status descriptor: tool, color,
// thickness, board and page position, and zoom. Presenter mode and the
// status-bar toggle blank it.
func (e *Engine) statusLine() string {
	if !e.input.StatusVisible() {
		return ""
	}
	b := e.boards.Active()
	name := b.Spec.Name
	if name == "" {
		name = b.Spec.ID
	}
	parts := []string{
		string(e.input.Tool),
		e.input.Style.Color.Hex(),
		fmt.Sprintf("%.0fpx", e.input.Style.Thickness),
		fmt.Sprintf("%s %d/%d", name, b.ActivePageIndex()+1, b.PageCount()),
	}
	if z := e.coord.Zoom(); z.Engaged() {
		zoom := fmt.Sprintf("zoom %.2gx", z.Scale())
		if z.Locked() {
			zoom += " locked"
		}
		parts = append(parts, zoom)
	}
	return strings.Join(parts, "  ")
}
