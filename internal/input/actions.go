package input

import "github.com/example/wayscriber/internal/config"

// CaptureTarget selects what a screenshot action covers and where it
// goes.
type CaptureTarget int

const (
	CaptureFullScreen CaptureTarget = iota
	CaptureActiveWindow
	CaptureSelection
	CaptureClipboardFull
	CaptureFileFull
	CaptureClipboardSelection
	CaptureFileSelection
	CaptureClipboardRegion
	CaptureFileRegion
)

// ZoomOp is a staged zoom command.
type ZoomOp int

const (
	ZoomIn ZoomOp = iota
	ZoomOut
	ZoomReset
	ZoomToggleLock
	ZoomRefreshCapture
)

// PresetOp mutates the persisted preset table.
type PresetOp int

const (
	PresetSave PresetOp = iota
	PresetClear
)

// PendingKind tags the staged action variant.
type PendingKind int

const (
	PendingCapture PendingKind = iota
	PendingZoom
	PendingPreset
)

// PendingAction is the at-most-one action staged for the supervisor to
// consume on its next tick.
type PendingAction struct {
	Kind    PendingKind
	Capture CaptureTarget
	Zoom    ZoomOp

	PresetOp   PresetOp
	PresetSlot int
	Preset     config.PresetSlot
}

// StageCapture replaces any staged action with a capture request.
func (s *State) StageCapture(target CaptureTarget) {
	s.pending = &PendingAction{Kind: PendingCapture, Capture: target}
}

// StageZoom replaces any staged action with a zoom command.
func (s *State) StageZoom(op ZoomOp) {
	s.pending = &PendingAction{Kind: PendingZoom, Zoom: op}
}

func (s *State) stagePreset(op PresetOp, slot int, preset config.PresetSlot) {
	s.pending = &PendingAction{Kind: PendingPreset, PresetOp: op, PresetSlot: slot, Preset: preset}
}

// TakePending removes and returns the staged action.
func (s *State) TakePending() (*PendingAction, bool) {
	if s.pending == nil {
		return nil, false
	}
	a := s.pending
	s.pending = nil
	return a, true
}
