// Package input owns the per-session interaction state: active tool
// and style, the drawing state machine, selection, text editing, and
// the small bits of UI feedback the renderer reads each frame.
package input

import (
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/wayscriber/internal/config"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/shape"
)

// Tool is the active drawing tool.
type Tool string

const (
	ToolPen     Tool = "pen"
	ToolMarker  Tool = "marker"
	ToolLine    Tool = "line"
	ToolRect    Tool = "rect"
	ToolEllipse Tool = "ellipse"
	ToolArrow   Tool = "arrow"
	ToolText    Tool = "text"
	ToolSticky  Tool = "sticky"
	ToolEraser  Tool = "eraser"
	ToolSelect  Tool = "select"
)

// Font size bounds for text tools.
const (
	MinFontSize = 8
	MaxFontSize = 72
)

// Pixel distance a pointer may travel between press and release and
// still count as a click.
const dragThreshold = 4

const doubleClickWindow = 400 * time.Millisecond

// Paste offset applied per paste so repeated pastes fan out.
const pasteOffset = 12

// phase is the drawing state machine's current state.
type phase int

const (
	phaseIdle phase = iota
	phasePendingTextClick
	phaseDrawing
	phaseEraserStroke
	phaseTextInput
	phaseMovingSelection
	phaseMarquee
	phaseResizingText
)

// Style is the active tool style applied to committed shapes.
type Style struct {
	Color          geom.Color
	Thickness      float64
	EraserKind     shape.EraserKind
	EraserMode     shape.EraseMode
	EraserSize     float64
	MarkerOpacity  float64
	Font           geom.FontDescriptor
	FontSize       float64
	TextBackground bool
	FillEnabled    bool
	ArrowLength    float64
	ArrowAngle     float64
	ArrowHeadAtEnd bool
}

// State is the per-overlay-session interaction state. It is owned by
// the event loop; no method is safe for concurrent use.
type State struct {
	Tool  Tool
	Style Style

	// Latched modifier state from the last modifier event.
	Mods key.Modifiers

	width  int
	height int

	hitTolerance    float64
	linearThreshold float64
	undoLimit       int

	phase      phase
	drawKind   shape.Kind
	start      geom.Point
	points     []geom.Point
	snapActive bool

	selection   []shape.ID
	lastClickAt time.Time
	lastClickID shape.ID

	dragStart   geom.Point
	dragLast    geom.Point
	dragBefore  map[shape.ID]shape.Data
	marqueeFrom geom.Point
	marqueeTo   geom.Point

	eraserCandidates map[shape.ID]bool

	text textEdit

	clipboard  []shape.Shape
	pasteCount int

	pending   *PendingAction
	dirty     dirtyTracker
	highlight highlights

	presenter     bool
	statusVisible bool

	presets presetTable
}

// NewState builds session state from configuration.
func NewState(cfg *config.Config, width, height int) *State {
	eraserMode := shape.EraseArea
	if cfg.Drawing.DefaultEraserMode == "stroke" {
		eraserMode = shape.EraseStroke
	}
	s := &State{
		Tool: ToolPen,
		Style: Style{
			Color:          cfg.Drawing.PenColor(),
			Thickness:      cfg.Drawing.DefaultThickness,
			EraserKind:     shape.EraserPixel,
			EraserMode:     eraserMode,
			EraserSize:     cfg.Drawing.DefaultEraserSize,
			MarkerOpacity:  cfg.Drawing.MarkerOpacity,
			Font:           fontFromConfig(cfg.Drawing),
			FontSize:       clampFontSize(cfg.Drawing.DefaultFontSize),
			TextBackground: cfg.Drawing.TextBackgroundEnabled,
			FillEnabled:    cfg.Drawing.DefaultFillEnabled,
			ArrowLength:    cfg.Arrow.Length,
			ArrowAngle:     cfg.Arrow.AngleDegrees,
			ArrowHeadAtEnd: cfg.Arrow.HeadAtEnd,
		},
		width:           width,
		height:          height,
		hitTolerance:    cfg.Drawing.HitTestTolerance,
		linearThreshold: cfg.Drawing.HitTestLinearThreshold,
		undoLimit:       cfg.Drawing.UndoStackLimit,
		statusVisible:   true,
		presets:         newPresetTable(cfg.Presets),
	}
	s.highlight.configure(cfg.UI.ClickHighlight)
	s.dirty.MarkFull()
	return s
}

func fontFromConfig(d config.DrawingConfig) geom.FontDescriptor {
	f := geom.DefaultFont()
	if d.FontFamily != "" {
		f.Family = d.FontFamily
	}
	if d.FontWeight == "bold" {
		f.Weight = geom.WeightBold
	}
	if d.FontStyle == "italic" {
		f.Style = geom.StyleItalic
	}
	return f
}

func clampFontSize(v float64) float64 {
	if v < MinFontSize {
		return MinFontSize
	}
	if v > MaxFontSize {
		return MaxFontSize
	}
	return v
}

// Resize records the overlay surface size.
func (s *State) Resize(width, height int) {
	s.width = width
	s.height = height
	s.dirty.MarkFull()
}

// SetModifiers latches the compositor's modifier report.
func (s *State) SetModifiers(m key.Modifiers) { s.Mods = m }

func (s *State) shiftHeld() bool { return s.Mods&key.ModShift != 0 }
func (s *State) ctrlHeld() bool  { return s.Mods&key.ModControl != 0 }

// GestureActive reports whether a drawing or editing gesture is in
// progress. Undo and redo wait until the gesture commits or cancels.
func (s *State) GestureActive() bool { return s.phase != phaseIdle }

// TextInputActive reports whether keystrokes go to the text buffer.
func (s *State) TextInputActive() bool { return s.phase == phaseTextInput }

// SetTool switches the active tool. Changes during a drawing gesture
// are deferred until the gesture ends.
func (s *State) SetTool(t Tool) {
	if s.phase == phaseDrawing || s.phase == phaseEraserStroke {
		return
	}
	if s.phase != phaseIdle {
		return
	}
	if s.Tool != t {
		s.Tool = t
		s.clearSelection()
		s.dirty.MarkFull()
	}
}

// AdjustFontSize shifts the text size within bounds.
func (s *State) AdjustFontSize(delta float64) {
	s.Style.FontSize = clampFontSize(s.Style.FontSize + delta)
}

// AdjustThickness shifts the stroke width, floored at 1.
func (s *State) AdjustThickness(delta float64) {
	s.Style.Thickness += delta
	if s.Style.Thickness < 1 {
		s.Style.Thickness = 1
	}
}

// Selection returns the ordered selected ids.
func (s *State) Selection() []shape.ID { return s.selection }

func (s *State) clearSelection() {
	if len(s.selection) > 0 {
		s.selection = s.selection[:0]
		s.dirty.MarkFull()
	}
}

// Deselect drops the selection without touching any shape.
func (s *State) Deselect() { s.clearSelection() }

func (s *State) selected(id shape.ID) bool {
	for _, v := range s.selection {
		if v == id {
			return true
		}
	}
	return false
}

// TogglePresenter flips presenter mode, returning the new value.
func (s *State) TogglePresenter() bool {
	s.presenter = !s.presenter
	s.dirty.MarkFull()
	return s.presenter
}

// Presenter reports whether presenter mode is active.
func (s *State) Presenter() bool { return s.presenter }

// ToggleStatusBar flips status line visibility.
func (s *State) ToggleStatusBar() bool {
	s.statusVisible = !s.statusVisible
	s.dirty.MarkFull()
	return s.statusVisible
}

// StatusVisible reports whether the status line should render.
func (s *State) StatusVisible() bool { return s.statusVisible && !s.presenter }

// Reset clears all transient interaction state, used on overlay
// teardown.
func (s *State) Reset() {
	s.phase = phaseIdle
	s.points = nil
	s.selection = nil
	s.dragBefore = nil
	s.eraserCandidates = nil
	s.text = textEdit{}
	s.pending = nil
	s.highlight.clear()
	s.dirty.MarkFull()
}
