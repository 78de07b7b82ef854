package engine

import (
	"fmt"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/wayscriber/internal/capture"
	"github.com/example/wayscriber/internal/config"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/history"
	"github.com/example/wayscriber/internal/input"
	"github.com/example/wayscriber/internal/keybind"
	"github.com/example/wayscriber/internal/overlay"
	"github.com/example/wayscriber/internal/toolbar"
)

// handleKey routes a key event: overlay text capture first, then the
// binding resolver, then tool handling.
func (e *Engine) handleKey(ev KeyEvent, now time.Time) {
	e.input.SetModifiers(ev.Mods)
	if ev.Dir == key.DirRelease {
		return
	}
	// Fresh input cancels a delayed history replay.
	if e.replay.Active() {
		e.replay.Cancel()
	}

	switch {
	case e.palette.IsOpen():
		e.handlePaletteKey(ev, now)
		return
	case e.picker.IsOpen():
		e.handlePickerKey(ev)
		return
	case e.help.IsOpen():
		e.handleHelpKey(ev, now)
		return
	}

	if e.input.TextInputActive() {
		if action, ok := e.resolver.Resolve(ev.Name, ev.Mods, true); ok {
			e.applyAction(action, now)
			return
		}
		e.handleTextKey(ev)
		return
	}

	if ev.Name == "escape" {
		e.handleEscape(now)
		return
	}

	// Digits apply, save, or clear preset slots.
	if slot, ok := digitSlot(ev.Name); ok && slot <= e.input.PresetCount() {
		switch {
		case ev.Mods&key.ModControl != 0 && ev.Mods&key.ModShift != 0:
			e.input.SavePreset(slot - 1)
			return
		case ev.Mods&key.ModControl != 0 && ev.Mods&key.ModAlt != 0:
			e.input.ClearPreset(slot - 1)
			return
		case ev.Mods&(key.ModControl|key.ModAlt) == 0:
			if name, ok := e.input.ApplyPreset(slot - 1); ok {
				e.presetFlash.Show(slot, name, false, now)
				e.input.MarkDirtyFull()
			}
			return
		}
	}

	if action, ok := e.resolver.Resolve(ev.Name, ev.Mods, false); ok {
		e.applyAction(action, now)
		return
	}

	// Arrow keys nudge the selection; shift widens the step.
	if dx, dy, ok := arrowDelta(ev.Name); ok && len(e.input.Selection()) > 0 {
		if ev.Mods&key.ModControl != 0 {
			var edge input.Edge
			switch {
			case dx < 0:
				edge = input.EdgeLeft
			case dx > 0:
				edge = input.EdgeRight
			case dy < 0:
				edge = input.EdgeTop
			default:
				edge = input.EdgeBottom
			}
			if e.input.MoveToEdge(e.frame(), edge) {
				e.markSessionDirty(now)
			}
			return
		}
		if e.input.Nudge(e.frame(), dx, dy) {
			e.markSessionDirty(now)
		}
	}
}

func digitSlot(name string) (int, bool) {
	if len(name) == 1 && name[0] >= '1' && name[0] <= '9' {
		return int(name[0] - '0'), true
	}
	return 0, false
}

func arrowDelta(name string) (dx, dy int, ok bool) {
	switch name {
	case "left":
		return -1, 0, true
	case "right":
		return 1, 0, true
	case "up":
		return 0, -1, true
	case "down":
		return 0, 1, true
	}
	return 0, 0, false
}

// handleEscape walks the dismissal chain: overlays, active gesture,
// zoom, freeze.
func (e *Engine) handleEscape(now time.Time) {
	switch {
	case e.menu.IsOpen():
		e.menu.Close()
	case e.radial.IsOpen():
		e.radial.Close()
	case e.props.IsOpen():
		e.props.Close()
	case e.input.GestureActive():
		e.input.Cancel(e.frame())
	case e.coord.Zoom().Engaged():
		e.applyCaptureEvent(e.coord.DisengageZoom())
	case e.coord.FrozenPhase() == capture.FrozenActive:
		e.applyCaptureEvent(e.coord.ToggleFreeze(e.transparentBoard(), now))
	case len(e.input.Selection()) > 0:
		e.input.Deselect()
	default:
		return
	}
	e.input.MarkDirtyFull()
}

// handleTextKey edits the in-progress text shape.
func (e *Engine) handleTextKey(ev KeyEvent) {
	switch ev.Name {
	case "escape":
		e.input.Cancel(e.frame())
	case "return":
		if ev.Mods&key.ModShift != 0 {
			e.input.InsertNewline()
		} else {
			e.input.CommitText(e.frame())
			e.markSessionDirty(time.Now())
		}
	case "backspace":
		e.input.Backspace()
	case "left":
		e.input.CursorLeft()
	case "right":
		e.input.CursorRight()
	default:
		if ev.Rune > 0 && ev.Mods&(key.ModControl|key.ModAlt) == 0 {
			e.input.InsertRune(ev.Rune)
		}
	}
}

func (e *Engine) handlePaletteKey(ev KeyEvent, now time.Time) {
	switch ev.Name {
	case "escape":
		e.palette.Close()
	case "return":
		if cmd, ok := e.palette.Accept(); ok {
			e.applyAction(keybind.Action(cmd.ID), now)
		}
	case "up":
		e.palette.MoveSelection(-1)
	case "down":
		e.palette.MoveSelection(1)
	case "backspace":
		e.palette.Backspace()
	default:
		if ev.Rune > 0 && ev.Mods&(key.ModControl|key.ModAlt) == 0 {
			e.palette.AppendQuery(string(ev.Rune))
		}
	}
	e.input.MarkDirtyFull()
}

func (e *Engine) handlePickerKey(ev KeyEvent) {
	switch ev.Name {
	case "escape":
		e.picker.Close()
	case "return":
		if row, ok := e.picker.Accept(); ok {
			e.switchBoardSlot(row.Slot)
		}
	case "up":
		e.picker.MoveSelection(-1)
	case "down":
		e.picker.MoveSelection(1)
	}
	e.input.MarkDirtyFull()
}

func (e *Engine) handleHelpKey(ev KeyEvent, now time.Time) {
	switch ev.Name {
	case "escape":
		e.help.Close()
	case "backspace":
		q := e.help.Query()
		if q != "" {
			runes := []rune(q)
			e.help.SetQuery(string(runes[:len(runes)-1]))
		}
	default:
		if action, ok := e.resolver.Resolve(ev.Name, ev.Mods, true); ok && action == keybind.ActionToggleHelp {
			e.help.Close()
		} else if ev.Name == "f1" {
			e.help.Close()
		} else if ev.Rune > 0 && ev.Mods&(key.ModControl|key.ModAlt) == 0 {
			e.help.SetQuery(e.help.Query() + string(ev.Rune))
		}
	}
	e.input.MarkDirtyFull()
}

// transparentBoard reports whether the active board draws over the
// live desktop.
func (e *Engine) transparentBoard() bool {
	return e.boards.Active().Spec.Background.Transparent
}

// applyAction executes a resolved keybinding.
func (e *Engine) applyAction(action keybind.Action, now time.Time) {
	f := e.frame()
	switch action {
	case keybind.ActionToolPen, keybind.ActionToolMarker, keybind.ActionToolLine,
		keybind.ActionToolRect, keybind.ActionToolEllipse, keybind.ActionToolArrow,
		keybind.ActionToolText, keybind.ActionToolSticky, keybind.ActionToolEraser,
		keybind.ActionToolSelect:
		tool := input.Tool(actionToolName(action))
		e.input.SetTool(tool)
		e.toolbars.Top.SetActive(string(tool))
	case keybind.ActionToggleFill:
		e.input.Style.FillEnabled = !e.input.Style.FillEnabled
		e.input.MarkDirtyFull()
	case keybind.ActionUndo:
		e.settleGesture(f, now)
		if history.Undo(f) {
			e.input.MarkDirtyFull()
			e.markSessionDirty(now)
		}
	case keybind.ActionRedo:
		e.settleGesture(f, now)
		if history.Redo(f) {
			e.input.MarkDirtyFull()
			e.markSessionDirty(now)
		}
	case keybind.ActionUndoAll:
		e.settleGesture(f, now)
		e.replay.Start(history.DirUndo, -1, time.Duration(e.cfg.History.UndoAllDelayMs)*time.Millisecond, now)
	case keybind.ActionRedoAll:
		e.settleGesture(f, now)
		e.replay.Start(history.DirRedo, -1, time.Duration(e.cfg.History.RedoAllDelayMs)*time.Millisecond, now)
	case keybind.ActionClearCanvas:
		if e.input.ClearCanvas(f) {
			e.markSessionDirty(now)
		}
	case keybind.ActionCopy:
		e.input.Copy(f)
	case keybind.ActionPaste:
		if e.input.Paste(f) {
			e.markSessionDirty(now)
		}
	case keybind.ActionDuplicate:
		if e.input.Duplicate(f) {
			e.markSessionDirty(now)
		}
	case keybind.ActionDelete:
		if e.input.DeleteSelection(f) {
			e.markSessionDirty(now)
		}
	case keybind.ActionSelectAll:
		e.input.SelectAll(f)
	case keybind.ActionBringToFront:
		if e.input.BringToFront(f) {
			e.markSessionDirty(now)
		}
	case keybind.ActionSendToBack:
		if e.input.SendToBack(f) {
			e.markSessionDirty(now)
		}
	case keybind.ActionNextBoard:
		e.boards.NextBoard()
		e.afterBoardSwitch(now)
	case keybind.ActionPrevBoard:
		e.boards.PrevBoard()
		e.afterBoardSwitch(now)
	case keybind.ActionDuplicateBoard:
		if _, ok := e.boards.DuplicateActive(); ok {
			e.afterBoardSwitch(now)
		}
	case keybind.ActionNextPage:
		if e.boards.Active().NextPage() {
			e.input.MarkDirtyFull()
		}
	case keybind.ActionPrevPage:
		if e.boards.Active().PrevPage() {
			e.input.MarkDirtyFull()
		}
	case keybind.ActionNewPage:
		e.boards.Active().AddPage(e.boards.IDs())
		e.input.MarkDirtyFull()
		e.markSessionDirty(now)
	case keybind.ActionDeletePage:
		if e.boards.Active().DeleteActivePage() {
			e.input.MarkDirtyFull()
			e.markSessionDirty(now)
		}
	case keybind.ActionToggleFreeze:
		if !e.caps.Screencopy {
			e.logUnsupported("screencopy", "freeze unavailable")
			return
		}
		e.applyCaptureEvent(e.coord.ToggleFreeze(e.transparentBoard(), now))
	case keybind.ActionZoomIn:
		e.input.StageZoom(input.ZoomIn)
	case keybind.ActionZoomOut:
		e.input.StageZoom(input.ZoomOut)
	case keybind.ActionZoomReset:
		e.input.StageZoom(input.ZoomReset)
	case keybind.ActionZoomLock:
		e.input.StageZoom(input.ZoomToggleLock)
	case keybind.ActionCaptureFull:
		e.input.StageCapture(input.CaptureFileFull)
	case keybind.ActionCaptureClip:
		e.input.StageCapture(input.CaptureClipboardFull)
	case keybind.ActionCaptureFile:
		e.input.StageCapture(input.CaptureFileFull)
	case keybind.ActionToggleHelp:
		e.help.Toggle()
		e.input.MarkDirtyFull()
	case keybind.ActionTogglePalette:
		e.palette.Toggle()
		e.input.MarkDirtyFull()
	case keybind.ActionToggleBoards:
		if e.picker.IsOpen() {
			e.picker.Close()
		} else {
			e.picker.Open(e.boardRows())
		}
		e.input.MarkDirtyFull()
	case keybind.ActionToggleProps:
		e.props.Toggle()
		e.refreshProperties()
		e.input.MarkDirtyFull()
	case keybind.ActionTogglePresenter:
		on := e.input.TogglePresenter()
		e.applyPresenterChrome(on, now)
	case keybind.ActionQuit:
		e.quit = true
		e.coord.CancelOutstanding()
	}
}

func actionToolName(a keybind.Action) string {
	// Action tags are "tool_<name>".
	return string(a)[len("tool_"):]
}

// afterBoardSwitch applies per-board pen policy and repaints.
func (e *Engine) afterBoardSwitch(now time.Time) {
	if c, ok := e.boards.AdjustPenOnSwitch(e.input.Style.Color); ok {
		e.input.Style.Color = c
	}
	if e.picker.IsOpen() {
		e.picker.SetRows(e.boardRows())
	}
	e.input.MarkDirtyFull()
	e.markSessionDirty(now)
}

func (e *Engine) switchBoardSlot(slot int) {
	if e.boards.SwitchToSlot(slot) {
		e.afterBoardSwitch(time.Now())
	}
}

// boardRows builds the picker rows from the manager.
func (e *Engine) boardRows() []overlay.BoardRow {
	boards := e.boards.Boards()
	rows := make([]overlay.BoardRow, len(boards))
	for i, b := range boards {
		name := b.Spec.Name
		if name == "" {
			name = b.Spec.ID
		}
		shapes := 0
		for _, page := range b.Pages() {
			shapes += len(page.Shapes())
		}
		rows[i] = overlay.BoardRow{
			Slot:   i + 1,
			Name:   name,
			Shapes: shapes,
			Pinned: b.Spec.Pinned,
			Active: i == e.boards.ActiveIndex(),
		}
	}
	return rows
}

// refreshProperties mirrors the current tool into the panel rows.
func (e *Engine) refreshProperties() {
	st := e.input.Style
	props := []overlay.Property{
		{Label: "Tool", Value: string(e.input.Tool)},
		{Label: "Color", Value: st.Color.Hex()},
		{Label: "Thickness", Value: fmt.Sprintf("%.1f px", st.Thickness)},
		{Label: "Font size", Value: fmt.Sprintf("%.0f pt", st.FontSize)},
		{Label: "Marker opacity", Value: fmt.Sprintf("%.0f%%", st.MarkerOpacity*100)},
		{Label: "Fill", Value: onOff(st.FillEnabled)},
		{Label: "Selection", Value: fmt.Sprintf("%d shapes", len(e.input.Selection()))},
	}
	e.props.SetProperties(props)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// applyPresenterChrome adjusts toolbars, help, and toasts when the
// presenter toggle flips.
func (e *Engine) applyPresenterChrome(on bool, now time.Time) {
	p := e.cfg.Presenter
	if p.HideToolbars {
		e.toolbars.SetHidden(on)
	}
	if on && p.CloseHelpOverlay {
		e.help.Close()
	}
	if p.ShowToast {
		if on {
			e.toasts.Push("Presenter mode on", 0, now)
		} else {
			e.toasts.Push("Presenter mode off", 0, now)
		}
	}
	e.input.MarkDirtyFull()
}

// handlePointer routes pointer input through overlays, toolbars, zoom,
// then the drawing state machine.
func (e *Engine) handlePointer(ev PointerEvent, now time.Time) {
	p := geom.Pt(ev.X, ev.Y)
	e.lastPointer = p
	if e.coord.Suppression() == capture.SuppressCapture {
		return
	}
	if ev.Dir == mouse.DirPress && e.replay.Active() {
		e.replay.Cancel()
	}

	if ev.ScrollY != 0 {
		e.handleScroll(ev.ScrollY, now)
		return
	}

	if e.radial.IsOpen() {
		if ev.Dir == mouse.DirRelease {
			if item, ok := e.radial.Activate(p); ok {
				e.applyAction(keybind.Action(item.ID), now)
			}
			e.input.MarkDirtyFull()
		}
		return
	}
	if e.menu.IsOpen() {
		if ev.Dir == mouse.DirPress {
			if item, ok := e.menu.Activate(p, e.width, e.height); ok {
				e.applyAction(keybind.Action(item.ID), now)
			}
			e.input.MarkDirtyFull()
		} else if ev.Dir == mouse.DirNone {
			if idx, ok := e.menu.HitTest(p, e.width, e.height); ok {
				e.menu.SetHover(idx)
			} else {
				e.menu.SetHover(-1)
			}
		}
		return
	}
	if e.palette.IsOpen() {
		if ev.Dir == mouse.DirPress {
			if idx, ok := e.palette.HitTest(p, e.width, e.height); ok {
				e.palette.MoveSelection(idx - e.palette.Selection())
				if cmd, ok := e.palette.Accept(); ok {
					e.applyAction(keybind.Action(cmd.ID), now)
				}
			} else if !e.palette.Layout(e.width, e.height).Frame.Contains(p) {
				e.palette.Close()
			}
			e.input.MarkDirtyFull()
		}
		return
	}
	if e.picker.IsOpen() {
		if ev.Dir == mouse.DirPress {
			if idx, ok := e.picker.HitTest(p, e.width, e.height); ok {
				for e.picker.Selection() != idx {
					e.picker.MoveSelection(1)
				}
				if row, ok := e.picker.Accept(); ok {
					e.switchBoardSlot(row.Slot)
				}
			} else {
				e.picker.Close()
			}
			e.input.MarkDirtyFull()
		}
		return
	}

	// Toolbar clicks and dock drags.
	if ev.Dir == mouse.DirPress && ev.Button == mouse.ButtonLeft {
		if edge, id, ok := e.toolbars.HitTest(p, e.width, e.height); ok {
			e.toolbarAction(edge, id)
			return
		}
		for _, dock := range []*toolbar.Dock{e.toolbars.Top, e.toolbars.Side} {
			if dock.Contains(p, e.width, e.height) {
				dock.BeginDrag(p)
				e.draggingDock = dock
				return
			}
		}
	}
	if e.draggingDock != nil {
		switch ev.Dir {
		case mouse.DirNone:
			e.draggingDock.DragTo(p, e.width, e.height)
			e.input.MarkDirtyFull()
		case mouse.DirRelease:
			e.draggingDock.EndDrag()
			e.draggingDock = nil
		}
		return
	}

	// Zoom view: drag pans, plain motion tracks the pointer.
	if z := e.coord.Zoom(); z.Engaged() {
		switch ev.Dir {
		case mouse.DirPress:
			if ev.Button == mouse.ButtonLeft {
				z.BeginPan(p)
			}
		case mouse.DirNone:
			if z.Panning() {
				z.PanTo(p)
			} else {
				z.CenterOn(p)
			}
			e.input.MarkDirtyFull()
		case mouse.DirRelease:
			z.EndPan()
		}
		return
	}

	switch {
	case ev.Dir == mouse.DirPress && ev.Button == mouse.ButtonRight:
		e.menu.OpenAt(p, e.contextMenuItems())
		e.input.MarkDirtyFull()
	case ev.Dir == mouse.DirPress && ev.Button == mouse.ButtonMiddle:
		e.radial.OpenAt(p, radialItems())
		e.input.MarkDirtyFull()
	case ev.Dir == mouse.DirPress:
		e.input.PointerPress(e.frame(), p, now)
	case ev.Dir == mouse.DirNone:
		e.input.PointerMotion(e.frame(), p)
	case ev.Dir == mouse.DirRelease:
		if e.input.PointerRelease(e.frame(), p, now) {
			e.markSessionDirty(now)
		}
	}
}

// handleScroll routes wheel travel: help scrolling, zoom stepping,
// then tool sizing.
func (e *Engine) handleScroll(dy int, now time.Time) {
	switch {
	case e.help.IsOpen():
		e.help.ScrollBy(dy*helpScrollStep, e.width, e.height)
		e.input.MarkDirtyFull()
	case e.coord.Zoom().Engaged():
		if dy < 0 {
			e.input.StageZoom(input.ZoomIn)
		} else {
			e.input.StageZoom(input.ZoomOut)
		}
	case e.input.Mods&key.ModControl != 0:
		e.input.AdjustFontSize(float64(-dy))
		e.input.MarkDirtyFull()
	default:
		e.input.AdjustThickness(float64(-dy))
		e.input.MarkDirtyFull()
	}
}

const helpScrollStep = 24

// handleStylus maps tablet input onto the pointer model; pressure
// scales the stroke thickness around its configured base.
func (e *Engine) handleStylus(ev StylusEvent, now time.Time) {
	p := geom.Pt(ev.X, ev.Y)
	e.lastPointer = p
	if e.coord.Suppression() == capture.SuppressCapture {
		return
	}
	switch {
	case ev.Tip && !e.stylusDown:
		e.stylusDown = true
		e.stylusBase = e.input.Style.Thickness
		e.input.Style.Thickness = pressureThickness(e.stylusBase, ev.Pressure)
		e.input.PointerPress(e.frame(), p, now)
	case ev.Tip:
		e.input.Style.Thickness = pressureThickness(e.stylusBase, ev.Pressure)
		e.input.PointerMotion(e.frame(), p)
	case e.stylusDown:
		e.stylusDown = false
		committed := e.input.PointerRelease(e.frame(), p, now)
		e.input.Style.Thickness = e.stylusBase
		if committed {
			e.markSessionDirty(now)
		}
	default:
		e.input.PointerMotion(e.frame(), p)
	}
}

// pressureThickness interpolates linearly between half and one and a
// half times the base thickness.
func pressureThickness(base, pressure float64) float64 {
	if pressure < 0 {
		pressure = 0
	} else if pressure > 1 {
		pressure = 1
	}
	return base * (0.5 + pressure)
}

func (e *Engine) toolbarAction(edge toolbar.Edge, id string) {
	switch edge {
	case toolbar.EdgeTop:
		e.input.SetTool(input.Tool(id))
		e.toolbars.Top.SetActive(id)
	case toolbar.EdgeLeft:
		if c, err := geom.ParseHexColor(id); err == nil {
			e.input.Style.Color = c
			e.toolbars.Side.SetActive(id)
		}
	}
	e.input.MarkDirtyFull()
}

func (e *Engine) contextMenuItems() []overlay.Item {
	hasSelection := len(e.input.Selection()) > 0
	return []overlay.Item{
		{ID: string(keybind.ActionCopy), Label: "Copy", Shortcut: "Ctrl+C", Disabled: !hasSelection},
		{ID: string(keybind.ActionPaste), Label: "Paste", Shortcut: "Ctrl+V"},
		{ID: string(keybind.ActionDuplicate), Label: "Duplicate", Shortcut: "Ctrl+D", Disabled: !hasSelection},
		{ID: string(keybind.ActionDelete), Label: "Delete", Shortcut: "Del", Disabled: !hasSelection},
		{ID: string(keybind.ActionBringToFront), Label: "Bring to front", Disabled: !hasSelection},
		{ID: string(keybind.ActionSendToBack), Label: "Send to back", Disabled: !hasSelection},
		{ID: string(keybind.ActionSelectAll), Label: "Select all", Shortcut: "Ctrl+A"},
		{ID: string(keybind.ActionClearCanvas), Label: "Clear canvas", Shortcut: "E"},
	}
}

func radialItems() []overlay.Item {
	return []overlay.Item{
		{ID: string(keybind.ActionToolPen), Label: "Pen"},
		{ID: string(keybind.ActionToolMarker), Label: "Marker"},
		{ID: string(keybind.ActionToolArrow), Label: "Arrow"},
		{ID: string(keybind.ActionToolText), Label: "Text"},
		{ID: string(keybind.ActionToolEraser), Label: "Eraser"},
		{ID: string(keybind.ActionToolSelect), Label: "Select"},
	}
}

// paletteCommands lists every palette-reachable action.
func paletteCommands() []overlay.Command {
	cmd := func(a keybind.Action, title, keywords string) overlay.Command {
		return overlay.Command{ID: string(a), Title: title, Keywords: keywords}
	}
	return []overlay.Command{
		cmd(keybind.ActionToolPen, "Pen tool", "draw"),
		cmd(keybind.ActionToolMarker, "Marker tool", "highlight draw"),
		cmd(keybind.ActionToolLine, "Line tool", "draw"),
		cmd(keybind.ActionToolRect, "Rectangle tool", "draw box"),
		cmd(keybind.ActionToolEllipse, "Ellipse tool", "draw circle"),
		cmd(keybind.ActionToolArrow, "Arrow tool", "draw pointer"),
		cmd(keybind.ActionToolText, "Text tool", "type"),
		cmd(keybind.ActionToolSticky, "Sticky note", "note"),
		cmd(keybind.ActionToolEraser, "Eraser", "remove"),
		cmd(keybind.ActionToolSelect, "Select tool", "move"),
		cmd(keybind.ActionUndo, "Undo", "history"),
		cmd(keybind.ActionRedo, "Redo", "history"),
		cmd(keybind.ActionUndoAll, "Undo all", "history rewind"),
		cmd(keybind.ActionRedoAll, "Redo all", "history replay"),
		cmd(keybind.ActionClearCanvas, "Clear canvas", "erase everything"),
		cmd(keybind.ActionSelectAll, "Select all", "selection"),
		cmd(keybind.ActionNextBoard, "Next board", "switch"),
		cmd(keybind.ActionPrevBoard, "Previous board", "switch"),
		cmd(keybind.ActionDuplicateBoard, "Duplicate board", "copy"),
		cmd(keybind.ActionNewPage, "New page", "add"),
		cmd(keybind.ActionDeletePage, "Delete page", "remove"),
		cmd(keybind.ActionToggleFreeze, "Freeze screen", "capture screenshot"),
		cmd(keybind.ActionZoomIn, "Zoom in", "magnify"),
		cmd(keybind.ActionZoomOut, "Zoom out", "magnify"),
		cmd(keybind.ActionZoomReset, "Reset zoom", "magnify"),
		cmd(keybind.ActionCaptureFull, "Save screenshot", "export file png"),
		cmd(keybind.ActionCaptureClip, "Copy screenshot", "export clipboard png"),
		cmd(keybind.ActionToggleHelp, "Keyboard shortcuts", "help bindings"),
		cmd(keybind.ActionToggleBoards, "Board picker", "switch"),
		cmd(keybind.ActionToggleProps, "Properties panel", "tool info"),
		cmd(keybind.ActionTogglePresenter, "Presenter mode", "present highlight"),
		cmd(keybind.ActionQuit, "Quit", "exit close"),
	}
}

// drainPending consumes the staged action for this tick.
func (e *Engine) drainPending(now time.Time) {
	act, ok := e.input.TakePending()
	if !ok {
		return
	}
	switch act.Kind {
	case input.PendingZoom:
		e.dispatchZoom(act.Zoom, now)
	case input.PendingCapture:
		e.dispatchCapture(act.Capture, now)
	case input.PendingPreset:
		e.dispatchPreset(act, now)
	}
}

func (e *Engine) dispatchZoom(op input.ZoomOp, now time.Time) {
	z := e.coord.Zoom()
	switch op {
	case input.ZoomIn:
		if !z.Engaged() {
			if !e.caps.Screencopy && e.transparentBoard() {
				e.logUnsupported("screencopy", "zoom unavailable on transparent boards")
				return
			}
			e.applyCaptureEvent(e.coord.EngageZoom(e.transparentBoard(), e.lastPointer, now))
		} else {
			z.StepIn()
		}
	case input.ZoomOut:
		if !z.Engaged() {
			return
		}
		before := z.Scale()
		z.StepOut()
		if z.Scale() == before {
			e.applyCaptureEvent(e.coord.DisengageZoom())
		}
	case input.ZoomReset:
		if z.Engaged() {
			z.Reset()
		}
	case input.ZoomToggleLock:
		if z.Engaged() {
			z.ToggleLock()
		}
	case input.ZoomRefreshCapture:
		e.applyCaptureEvent(e.coord.RefreshZoomCapture(e.transparentBoard(), now))
	}
	e.input.MarkDirtyFull()
}

// dispatchCapture composes the annotated result and exports it off the
// loop.
func (e *Engine) dispatchCapture(target input.CaptureTarget, now time.Time) {
	if e.hooks.ComposeCapture == nil {
		e.log.Warn().Msg("no capture composer wired")
		return
	}
	img, err := e.hooks.ComposeCapture(target)
	if err != nil {
		e.log.Error().Err(err).Msg("capture compose failed")
		e.notifier.CaptureFailed(err.Error())
		e.toasts.Push("Screen capture failed", 0, now)
		return
	}
	if target == input.CaptureActiveWindow {
		img = e.exporter.Decorate(img)
	}
	toClipboard := false
	switch target {
	case input.CaptureClipboardFull, input.CaptureClipboardSelection, input.CaptureClipboardRegion:
		toClipboard = true
	}
	exporter := e.exporter
	post := e.Post
	if toClipboard {
		go func() {
			err := exporter.CopyClipboard(img, captureDetail(target))
			post(exportResultEvent{err: err})
		}()
		return
	}
	go func() {
		path, err := exporter.SaveFile(img, now)
		post(exportResultEvent{path: path, err: err})
	}()
}

func captureDetail(target input.CaptureTarget) string {
	switch target {
	case input.CaptureActiveWindow:
		return "window"
	case input.CaptureSelection, input.CaptureClipboardSelection, input.CaptureFileSelection:
		return "selection"
	case input.CaptureClipboardRegion, input.CaptureFileRegion:
		return "region"
	default:
		return "screen"
	}
}

// dispatchPreset persists a slot change and confirms it on screen.
// act.PresetSlot is the zero-based table index.
func (e *Engine) dispatchPreset(act *input.PendingAction, now time.Time) {
	idx := act.PresetSlot
	for len(e.cfg.Presets.Slots) <= idx {
		e.cfg.Presets.Slots = append(e.cfg.Presets.Slots, config.PresetSlot{})
	}
	switch act.PresetOp {
	case input.PresetSave:
		e.cfg.Presets.Slots[idx] = act.Preset
		e.presetFlash.Show(idx+1, act.Preset.Name, true, now)
	case input.PresetClear:
		e.cfg.Presets.Slots[idx] = config.PresetSlot{}
		e.presetFlash.Show(idx+1, "", true, now)
	}
	e.persistConfig()
	e.input.MarkDirtyFull()
}

// persistConfig writes the live config back to disk off the loop.
func (e *Engine) persistConfig() {
	if e.configPath == "" {
		return
	}
	cfg := *e.cfg
	path := e.configPath
	log := e.log
	go func() {
		if err := config.Save(&cfg, path); err != nil {
			log.Error().Err(err).Msg("config save failed")
		}
	}()
}
