package input

import (
	"fmt"

	"github.com/example/wayscriber/internal/config"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/shape"
)

// presetTable holds the configured quick presets, indexed by slot
// (0-based).
type presetTable struct {
	slotCount int
	slots     []*config.PresetSlot
}

func newPresetTable(cfg config.PresetsConfig) presetTable {
	t := presetTable{
		slotCount: cfg.SlotCount,
		slots:     make([]*config.PresetSlot, cfg.SlotCount),
	}
	for i := range cfg.Slots {
		if i >= t.slotCount {
			break
		}
		slot := cfg.Slots[i]
		t.slots[i] = &slot
	}
	return t
}

// PresetCount returns the configured slot count.
func (s *State) PresetCount() int { return s.presets.slotCount }

// PresetName returns the display name for a slot, or "" when empty.
func (s *State) PresetName(slot int) string {
	if slot < 0 || slot >= len(s.presets.slots) || s.presets.slots[slot] == nil {
		return ""
	}
	p := s.presets.slots[slot]
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("preset %d", slot+1)
}

// ApplyPreset loads a slot into the active tool state. Returns the
// preset's display name and whether the slot was occupied.
func (s *State) ApplyPreset(slot int) (string, bool) {
	if slot < 0 || slot >= len(s.presets.slots) || s.presets.slots[slot] == nil {
		return "", false
	}
	if s.phase != phaseIdle {
		return "", false
	}
	p := s.presets.slots[slot]

	s.Tool = Tool(p.Tool)
	if c, err := geom.ParseHexColor(p.Color); err == nil {
		s.Style.Color = c
	}
	if p.Size > 0 {
		s.Style.Thickness = p.Size
	}
	if p.EraserSize != nil {
		s.Style.EraserSize = *p.EraserSize
	}
	if p.EraserMode != nil {
		if *p.EraserMode == "stroke" {
			s.Style.EraserMode = shape.EraseStroke
		} else {
			s.Style.EraserMode = shape.EraseArea
		}
	}
	if p.MarkerOpacity != nil {
		s.Style.MarkerOpacity = *p.MarkerOpacity
	}
	if p.FillEnabled != nil {
		s.Style.FillEnabled = *p.FillEnabled
	}
	if p.FontSize != nil {
		s.Style.FontSize = clampFontSize(*p.FontSize)
	}
	if p.TextBackground != nil {
		s.Style.TextBackground = *p.TextBackground
	}
	if p.ArrowLength != nil {
		s.Style.ArrowLength = *p.ArrowLength
	}
	if p.ArrowAngle != nil {
		s.Style.ArrowAngle = *p.ArrowAngle
	}
	if p.ShowStatusBar != nil {
		s.statusVisible = *p.ShowStatusBar
	}
	s.clearSelection()
	s.dirty.MarkFull()
	return s.PresetName(slot), true
}

// SavePreset snapshots the current tool state into a slot and stages
// the save for the supervisor to persist.
func (s *State) SavePreset(slot int) bool {
	if slot < 0 || slot >= len(s.presets.slots) {
		return false
	}
	mode := "area"
	if s.Style.EraserMode == shape.EraseStroke {
		mode = "stroke"
	}
	eraserSize := s.Style.EraserSize
	opacity := s.Style.MarkerOpacity
	fill := s.Style.FillEnabled
	fontSize := s.Style.FontSize
	textBG := s.Style.TextBackground
	arrowLen := s.Style.ArrowLength
	arrowAngle := s.Style.ArrowAngle
	preset := config.PresetSlot{
		Tool:           string(s.Tool),
		Color:          s.Style.Color.Hex(),
		Size:           s.Style.Thickness,
		EraserSize:     &eraserSize,
		EraserMode:     &mode,
		MarkerOpacity:  &opacity,
		FillEnabled:    &fill,
		FontSize:       &fontSize,
		TextBackground: &textBG,
		ArrowLength:    &arrowLen,
		ArrowAngle:     &arrowAngle,
	}
	s.presets.slots[slot] = &preset
	s.stagePreset(PresetSave, slot, preset)
	return true
}

// ClearPreset empties a slot and stages the removal.
func (s *State) ClearPreset(slot int) bool {
	if slot < 0 || slot >= len(s.presets.slots) || s.presets.slots[slot] == nil {
		return false
	}
	s.presets.slots[slot] = nil
	s.stagePreset(PresetClear, slot, config.PresetSlot{})
	return true
}
