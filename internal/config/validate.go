package config

import (
	"fmt"

	"github.com/example/wayscriber/internal/geom"
)

// Validation is a field-level configuration error. The configurator
// surfaces it next to the offending field.
type Validation struct {
	Field   string
	Message string
}

func (v *Validation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func invalid(field, format string, args ...any) error {
	return &Validation{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks every recognized option. The first failing field is
// reported.
func (c *Config) Validate() error {
	if err := c.Drawing.validate(); err != nil {
		return err
	}
	if c.Arrow.Length <= 0 {
		return invalid("arrow.length", "must be positive, got %v", c.Arrow.Length)
	}
	if c.Arrow.AngleDegrees <= 0 || c.Arrow.AngleDegrees >= 90 {
		return invalid("arrow.angle_degrees", "must be in (0, 90), got %v", c.Arrow.AngleDegrees)
	}
	if c.Performance.BufferCount < 1 || c.Performance.BufferCount > 4 {
		return invalid("performance.buffer_count", "must be 1..4, got %d", c.Performance.BufferCount)
	}
	if c.Performance.MaxFPSNoVsync < 1 {
		return invalid("performance.max_fps_no_vsync", "must be positive, got %d", c.Performance.MaxFPSNoVsync)
	}
	if c.Performance.UIAnimationFPS < 1 {
		return invalid("performance.ui_animation_fps", "must be positive, got %d", c.Performance.UIAnimationFPS)
	}
	if err := c.Boards.validate(); err != nil {
		return err
	}
	if err := c.Session.validate(); err != nil {
		return err
	}
	if err := c.Presets.validate(); err != nil {
		return err
	}
	if err := checkColor("ui.click_highlight.fill_color", c.UI.ClickHighlight.FillColor); err != nil {
		return err
	}
	if err := checkColor("ui.click_highlight.outline_color", c.UI.ClickHighlight.OutlineColor); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return invalid("logging.level", "unknown level %q", c.Logging.Level)
	}
	return nil
}

func (d *DrawingConfig) validate() error {
	if err := checkColor("drawing.default_color", d.DefaultColor); err != nil {
		return err
	}
	if d.DefaultThickness <= 0 {
		return invalid("drawing.default_thickness", "must be positive, got %v", d.DefaultThickness)
	}
	if d.DefaultEraserSize <= 0 {
		return invalid("drawing.default_eraser_size", "must be positive, got %v", d.DefaultEraserSize)
	}
	switch d.DefaultEraserMode {
	case "area", "stroke":
	default:
		return invalid("drawing.default_eraser_mode", "must be area or stroke, got %q", d.DefaultEraserMode)
	}
	if d.DefaultFontSize < 8 || d.DefaultFontSize > 72 {
		return invalid("drawing.default_font_size", "must be 8..72, got %v", d.DefaultFontSize)
	}
	if d.MarkerOpacity <= 0 || d.MarkerOpacity > 1 {
		return invalid("drawing.marker_opacity", "must be in (0, 1], got %v", d.MarkerOpacity)
	}
	if d.HitTestTolerance < 0 {
		return invalid("drawing.hit_test_tolerance", "must not be negative, got %v", d.HitTestTolerance)
	}
	if d.HitTestLinearThreshold <= 0 {
		return invalid("drawing.hit_test_linear_threshold", "must be positive, got %v", d.HitTestLinearThreshold)
	}
	if d.UndoStackLimit < 1 {
		return invalid("drawing.undo_stack_limit", "must be positive, got %d", d.UndoStackLimit)
	}
	return nil
}

func (b *BoardsConfig) validate() error {
	if b.MaxCount < 1 {
		return invalid("boards.max_count", "must be positive, got %d", b.MaxCount)
	}
	seen := make(map[string]bool, len(b.Items))
	for i, item := range b.Items {
		field := fmt.Sprintf("boards.items[%d]", i)
		if item.ID == "" {
			return invalid(field+".id", "must not be empty")
		}
		if seen[item.ID] {
			return invalid(field+".id", "duplicate id %q", item.ID)
		}
		seen[item.ID] = true
		if item.Background != "transparent" {
			if err := checkColor(field+".background", item.Background); err != nil {
				return err
			}
		}
		if item.PenColor != "" {
			if err := checkColor(field+".pen_color", item.PenColor); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SessionConfig) validate() error {
	switch s.Storage {
	case "auto", "config", "custom":
	default:
		return invalid("session.storage", "must be auto, config, or custom, got %q", s.Storage)
	}
	if s.Storage == "custom" && s.CustomDirectory == "" {
		return invalid("session.custom_directory", "required when storage is custom")
	}
	switch s.Compress {
	case "auto", "on", "off":
	default:
		return invalid("session.compress", "must be auto, on, or off, got %q", s.Compress)
	}
	if s.AutosaveIdleMs < 0 {
		return invalid("session.autosave_idle_ms", "must not be negative, got %d", s.AutosaveIdleMs)
	}
	if s.AutosaveIntervalMs < 0 {
		return invalid("session.autosave_interval_ms", "must not be negative, got %d", s.AutosaveIntervalMs)
	}
	if s.MaxShapesPerFrame < 1 {
		return invalid("session.max_shapes_per_frame", "must be positive, got %d", s.MaxShapesPerFrame)
	}
	if s.MaxFileSizeMB < 1 {
		return invalid("session.max_file_size_mb", "must be positive, got %d", s.MaxFileSizeMB)
	}
	if s.MaxPersistedUndoDepth < 0 {
		return invalid("session.max_persisted_undo_depth", "must not be negative, got %d", s.MaxPersistedUndoDepth)
	}
	if s.BackupRetention < 0 {
		return invalid("session.backup_retention", "must not be negative, got %d", s.BackupRetention)
	}
	return nil
}

func (p *PresetsConfig) validate() error {
	if p.SlotCount < MinPresetSlots || p.SlotCount > MaxPresetSlots {
		return invalid("presets.slot_count", "must be %d..%d, got %d", MinPresetSlots, MaxPresetSlots, p.SlotCount)
	}
	if len(p.Slots) > p.SlotCount {
		return invalid("presets.slots", "%d slots exceed slot_count %d", len(p.Slots), p.SlotCount)
	}
	for i, slot := range p.Slots {
		field := fmt.Sprintf("presets.slots[%d]", i)
		if slot.Color != "" {
			if err := checkColor(field+".color", slot.Color); err != nil {
				return err
			}
		}
		if slot.FontSize != nil && (*slot.FontSize < 8 || *slot.FontSize > 72) {
			return invalid(field+".font_size", "must be 8..72, got %v", *slot.FontSize)
		}
		if slot.MarkerOpacity != nil && (*slot.MarkerOpacity <= 0 || *slot.MarkerOpacity > 1) {
			return invalid(field+".marker_opacity", "must be in (0, 1], got %v", *slot.MarkerOpacity)
		}
	}
	return nil
}

func checkColor(field, value string) error {
	if _, err := geom.ParseHexColor(value); err != nil {
		return invalid(field, "malformed hex color %q", value)
	}
	return nil
}
