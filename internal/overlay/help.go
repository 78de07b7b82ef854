package overlay

import (
	"strings"

	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/keybind"
)

const (
	helpRowHeight = 24
	helpHeaderH   = 56
	helpMargin    = 48
)

// HelpEntry is one keybinding row in the help overlay.
type HelpEntry struct {
	Section string
	Combo   string
	Label   string
}

// HelpOverlay is the searchable, scrollable keybinding reference.
type HelpOverlay struct {
	open    bool
	query   string
	scroll  int
	entries []HelpEntry
}

// HelpLayout is the two-column geometry for one frame.
type HelpLayout struct {
	Frame          geom.Rect
	Left           []HelpEntry
	Right          []HelpEntry
	RowHeight      int
	ContentHeight  int
	ViewportHeight int
	MaxScroll      int
}

type helpDescriptor struct {
	action  keybind.Action
	section string
	label   string
}

var helpOrder = []helpDescriptor{
	{keybind.ActionToolPen, "Tools", "Pen"},
	{keybind.ActionToolMarker, "Tools", "Marker"},
	{keybind.ActionToolLine, "Tools", "Line"},
	{keybind.ActionToolRect, "Tools", "Rectangle"},
	{keybind.ActionToolEllipse, "Tools", "Ellipse"},
	{keybind.ActionToolArrow, "Tools", "Arrow"},
	{keybind.ActionToolText, "Tools", "Text"},
	{keybind.ActionToolSticky, "Tools", "Sticky note"},
	{keybind.ActionToolEraser, "Tools", "Eraser"},
	{keybind.ActionToolSelect, "Tools", "Select"},
	{keybind.ActionToggleFill, "Tools", "Toggle fill"},
	{keybind.ActionUndo, "History", "Undo"},
	{keybind.ActionRedo, "History", "Redo"},
	{keybind.ActionUndoAll, "History", "Undo all"},
	{keybind.ActionRedoAll, "History", "Redo all"},
	{keybind.ActionClearCanvas, "History", "Clear canvas"},
	{keybind.ActionCopy, "Selection", "Copy"},
	{keybind.ActionPaste, "Selection", "Paste"},
	{keybind.ActionDuplicate, "Selection", "Duplicate"},
	{keybind.ActionDelete, "Selection", "Delete"},
	{keybind.ActionSelectAll, "Selection", "Select all"},
	{keybind.ActionBringToFront, "Selection", "Bring to front"},
	{keybind.ActionSendToBack, "Selection", "Send to back"},
	{keybind.ActionNextBoard, "Boards", "Next board"},
	{keybind.ActionPrevBoard, "Boards", "Previous board"},
	{keybind.ActionDuplicateBoard, "Boards", "Duplicate board"},
	{keybind.ActionNextPage, "Boards", "Next page"},
	{keybind.ActionPrevPage, "Boards", "Previous page"},
	{keybind.ActionNewPage, "Boards", "New page"},
	{keybind.ActionDeletePage, "Boards", "Delete page"},
	{keybind.ActionToggleFreeze, "Capture", "Freeze screen"},
	{keybind.ActionZoomIn, "Capture", "Zoom in"},
	{keybind.ActionZoomOut, "Capture", "Zoom out"},
	{keybind.ActionZoomReset, "Capture", "Reset zoom"},
	{keybind.ActionZoomLock, "Capture", "Lock zoom"},
	{keybind.ActionCaptureFull, "Capture", "Screenshot"},
	{keybind.ActionCaptureClip, "Capture", "Screenshot to clipboard"},
	{keybind.ActionCaptureFile, "Capture", "Screenshot to file"},
	{keybind.ActionToggleHelp, "Interface", "Toggle this help"},
	{keybind.ActionTogglePalette, "Interface", "Command palette"},
	{keybind.ActionToggleBoards, "Interface", "Board picker"},
	{keybind.ActionToggleProps, "Interface", "Properties panel"},
	{keybind.ActionTogglePresenter, "Interface", "Presenter mode"},
	{keybind.ActionQuit, "Interface", "Quit"},
}

// HelpEntries builds the help rows from a binding table so rebinds show
// the user's actual combos.
func HelpEntries(bindings map[keybind.Action][]string) []HelpEntry {
	entries := make([]HelpEntry, 0, len(helpOrder))
	for _, d := range helpOrder {
		combos, ok := bindings[d.action]
		if !ok || len(combos) == 0 {
			continue
		}
		entries = append(entries, HelpEntry{
			Section: d.section,
			Combo:   strings.Join(combos, ", "),
			Label:   d.label,
		})
	}
	return entries
}

func NewHelpOverlay(entries []HelpEntry) *HelpOverlay {
	return &HelpOverlay{entries: entries}
}

func (h *HelpOverlay) IsOpen() bool  { return h.open }
func (h *HelpOverlay) Query() string { return h.query }
func (h *HelpOverlay) Scroll() int   { return h.scroll }

func (h *HelpOverlay) Open() {
	h.open = true
	h.query = ""
	h.scroll = 0
}

func (h *HelpOverlay) Close() { h.open = false }

func (h *HelpOverlay) Toggle() {
	if h.open {
		h.Close()
		return
	}
	h.Open()
}

// SetQuery replaces the search filter and resets the scroll offset.
func (h *HelpOverlay) SetQuery(q string) {
	h.query = q
	h.scroll = 0
}

// Filtered returns rows whose label, combo, or section matches the
// query, case-insensitive.
func (h *HelpOverlay) Filtered() []HelpEntry {
	if h.query == "" {
		return h.entries
	}
	q := strings.ToLower(h.query)
	var out []HelpEntry
	for _, e := range h.entries {
		if strings.Contains(strings.ToLower(e.Label), q) ||
			strings.Contains(strings.ToLower(e.Combo), q) ||
			strings.Contains(strings.ToLower(e.Section), q) {
			out = append(out, e)
		}
	}
	return out
}

// ScrollBy moves the scroll offset by dy rows of wheel travel, clamped
// to the content for the current viewport.
func (h *HelpOverlay) ScrollBy(dy int, viewW, viewH int) {
	layout := h.Layout(viewW, viewH)
	h.scroll = clamp(h.scroll+dy, 0, layout.MaxScroll)
}

// Layout splits the filtered rows into two columns and derives the
// scroll bound from content minus viewport height.
func (h *HelpOverlay) Layout(viewW, viewH int) HelpLayout {
	if !h.open {
		return HelpLayout{}
	}
	frame := geom.Rect{
		X: helpMargin,
		Y: helpMargin,
		W: viewW - 2*helpMargin,
		H: viewH - 2*helpMargin,
	}
	if frame.W < 0 {
		frame.W = 0
	}
	if frame.H < 0 {
		frame.H = 0
	}
	filtered := h.Filtered()
	half := (len(filtered) + 1) / 2
	layout := HelpLayout{
		Frame:          frame,
		Left:           filtered[:half],
		Right:          filtered[half:],
		RowHeight:      helpRowHeight,
		ContentHeight:  half * helpRowHeight,
		ViewportHeight: frame.H - helpHeaderH,
	}
	if layout.ViewportHeight < 0 {
		layout.ViewportHeight = 0
	}
	layout.MaxScroll = layout.ContentHeight - layout.ViewportHeight
	if layout.MaxScroll < 0 {
		layout.MaxScroll = 0
	}
	if h.scroll > layout.MaxScroll {
		h.scroll = layout.MaxScroll
	}
	return layout
}
