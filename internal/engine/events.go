package engine

import (
	"github.com/google/uuid"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/wayscriber/internal/capture"
	"github.com/example/wayscriber/internal/config"
)

// Event is one item on the loop's input queue. The compositor glue
// translates wire events into these; background tasks post their
// completions the same way.
type Event interface{ isEvent() }

// KeyEvent is a key press, release, or repeat. Name is the
// resolver-facing key name ("a", "escape", "f1"); Rune carries the
// translated character for text input, or -1.
type KeyEvent struct {
	Name   string
	Rune   rune
	Mods   key.Modifiers
	Dir    key.Direction
	Repeat bool
}

// PointerEvent is pointer motion, button, or wheel travel in logical
// surface pixels.
type PointerEvent struct {
	X, Y    float64
	Button  mouse.Button
	Dir     mouse.Direction
	ScrollY int
}

// StylusEvent maps tablet input onto the pointer model with pressure.
type StylusEvent struct {
	X, Y     float64
	Pressure float64
	Tip      bool
	TipMoved bool
}

// ConfigureEvent is a surface resize or scale change.
type ConfigureEvent struct {
	Width  int
	Height int
	Scale  float64
}

// OutputEvent reports the overlay entering or leaving an output.
type OutputEvent struct {
	Identity string
	Entered  bool
}

// FrameEvent is one compositor frame callback; the capture coordinator
// uses it to sequence suppressed-surface screencopy.
type FrameEvent struct{}

// CaptureResultEvent carries a finished screencopy readback.
type CaptureResultEvent struct {
	ID     uuid.UUID
	Result capture.Result
}

// saveResultEvent is an autosave completion posted from a background
// writer.
type saveResultEvent struct {
	identity string
	err      error
}

// exportResultEvent is a screenshot export completion.
type exportResultEvent struct {
	path string
	err  error
}

// ConfigReloadEvent delivers a validated config from the file watcher.
type ConfigReloadEvent struct {
	Config *config.Config
}

// QuitEvent asks the loop to stop after the current tick.
type QuitEvent struct{}

func (KeyEvent) isEvent()           {}
func (PointerEvent) isEvent()       {}
func (StylusEvent) isEvent()        {}
func (ConfigureEvent) isEvent()     {}
func (OutputEvent) isEvent()        {}
func (FrameEvent) isEvent()         {}
func (CaptureResultEvent) isEvent() {}
func (saveResultEvent) isEvent()    {}
func (exportResultEvent) isEvent()  {}
func (ConfigReloadEvent) isEvent()  {}
func (QuitEvent) isEvent()          {}
