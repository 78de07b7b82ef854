// Package config handles configuration loading, validation, and live
// reload for wayscriber. The file is TOML; an external configurator
// rewrites it while the overlay runs.
package config

import (
	"os"
	"path/filepath"

	"github.com/example/wayscriber/internal/geom"
)

// Preset slot bounds.
const (
	MinPresetSlots = 1
	MaxPresetSlots = 9
)

// Config holds the complete overlay configuration.
type Config struct {
	Drawing     DrawingConfig     `toml:"drawing"`
	Arrow       ArrowConfig       `toml:"arrow"`
	History     HistoryConfig     `toml:"history"`
	Performance PerformanceConfig `toml:"performance"`
	Boards      BoardsConfig      `toml:"boards"`
	Session     SessionConfig     `toml:"session"`

	// Keybindings maps action tags to combo strings, e.g.
	// "clear_canvas" -> ["e"].
	Keybindings map[string][]string `toml:"keybindings"`

	Presenter PresenterConfig `toml:"presenter_mode"`
	UI        UIConfig        `toml:"ui"`
	Presets   PresetsConfig   `toml:"presets"`
	Logging   LoggingConfig   `toml:"logging"`
}

// DrawingConfig seeds the input state's tool defaults.
type DrawingConfig struct {
	DefaultColor           string  `toml:"default_color"`
	DefaultThickness       float64 `toml:"default_thickness"`
	DefaultEraserSize      float64 `toml:"default_eraser_size"`
	DefaultEraserMode      string  `toml:"default_eraser_mode"`
	DefaultFontSize        float64 `toml:"default_font_size"`
	FontFamily             string  `toml:"font_family"`
	FontWeight             string  `toml:"font_weight"`
	FontStyle              string  `toml:"font_style"`
	MarkerOpacity          float64 `toml:"marker_opacity"`
	HitTestTolerance       float64 `toml:"hit_test_tolerance"`
	HitTestLinearThreshold float64 `toml:"hit_test_linear_threshold"`
	UndoStackLimit         int     `toml:"undo_stack_limit"`
	TextBackgroundEnabled  bool    `toml:"text_background_enabled"`
	DefaultFillEnabled     bool    `toml:"default_fill_enabled"`
}

// ArrowConfig seeds the arrow tool's head geometry.
type ArrowConfig struct {
	Length       float64 `toml:"length"`
	AngleDegrees float64 `toml:"angle_degrees"`
	HeadAtEnd    bool    `toml:"head_at_end"`
}

// HistoryConfig paces delayed undo-all/redo-all replay.
type HistoryConfig struct {
	UndoAllDelayMs       int  `toml:"undo_all_delay_ms"`
	RedoAllDelayMs       int  `toml:"redo_all_delay_ms"`
	CustomSectionEnabled bool `toml:"custom_section_enabled"`
	CustomUndoDelayMs    int  `toml:"custom_undo_delay_ms"`
	CustomRedoDelayMs    int  `toml:"custom_redo_delay_ms"`
	CustomUndoSteps      int  `toml:"custom_undo_steps"`
	CustomRedoSteps      int  `toml:"custom_redo_steps"`
}

// PerformanceConfig controls frame pacing.
type PerformanceConfig struct {
	BufferCount    int  `toml:"buffer_count"`
	EnableVsync    bool `toml:"enable_vsync"`
	MaxFPSNoVsync  int  `toml:"max_fps_no_vsync"`
	UIAnimationFPS int  `toml:"ui_animation_fps"`
}

// BoardsConfig seeds the board manager.
type BoardsConfig struct {
	MaxCount              int         `toml:"max_count"`
	AutoCreate            bool        `toml:"auto_create"`
	ShowBoardBadge        bool        `toml:"show_board_badge"`
	PersistCustomizations bool        `toml:"persist_customizations"`
	DefaultBoard          string      `toml:"default_board"`
	Items                 []BoardItem `toml:"items"`
}

// BoardItem is one configured board slot. Background is "transparent"
// or a hex color.
type BoardItem struct {
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	Background    string `toml:"background"`
	PenColor      string `toml:"pen_color"`
	AutoAdjustPen bool   `toml:"auto_adjust_pen"`
	Pinned        bool   `toml:"pinned"`
	Persist       bool   `toml:"persist"`
}

// SessionConfig drives the autosave scheduler and snapshot store.
type SessionConfig struct {
	PersistTransparent      bool   `toml:"persist_transparent"`
	PersistWhiteboard       bool   `toml:"persist_whiteboard"`
	PersistBlackboard       bool   `toml:"persist_blackboard"`
	PersistHistory          bool   `toml:"persist_history"`
	RestoreToolState        bool   `toml:"restore_tool_state"`
	AutosaveEnabled         bool   `toml:"autosave_enabled"`
	AutosaveIdleMs          int    `toml:"autosave_idle_ms"`
	AutosaveIntervalMs      int    `toml:"autosave_interval_ms"`
	Storage                 string `toml:"storage"`
	CustomDirectory         string `toml:"custom_directory"`
	MaxShapesPerFrame       int    `toml:"max_shapes_per_frame"`
	MaxFileSizeMB           int    `toml:"max_file_size_mb"`
	Compress                string `toml:"compress"`
	AutoCompressThresholdKB int    `toml:"auto_compress_threshold_kb"`
	MaxPersistedUndoDepth   int    `toml:"max_persisted_undo_depth"`
	BackupRetention         int    `toml:"backup_retention"`
	PerOutput               bool   `toml:"per_output"`
}

// PresenterConfig adjusts chrome while presenter mode is on.
type PresenterConfig struct {
	HideStatusBar        bool   `toml:"hide_status_bar"`
	HideToolbars         bool   `toml:"hide_toolbars"`
	HideToolPreview      bool   `toml:"hide_tool_preview"`
	CloseHelpOverlay     bool   `toml:"close_help_overlay"`
	EnableClickHighlight bool   `toml:"enable_click_highlight"`
	ToolBehavior         string `toml:"tool_behavior"`
	ShowToast            bool   `toml:"show_toast"`
}

// UIConfig groups interface tunables.
type UIConfig struct {
	ClickHighlight ClickHighlightConfig `toml:"click_highlight"`

	// DismissedHints lists onboarding hint ids the user closed so
	// they stay hidden across sessions.
	DismissedHints []string `toml:"dismissed_hints,omitempty"`
}

// ClickHighlightConfig renders click pulses.
type ClickHighlightConfig struct {
	Enabled          bool    `toml:"enabled"`
	UsePenColor      bool    `toml:"use_pen_color"`
	Radius           float64 `toml:"radius"`
	OutlineThickness float64 `toml:"outline_thickness"`
	DurationMs       int     `toml:"duration_ms"`
	FillColor        string  `toml:"fill_color"`
	OutlineColor     string  `toml:"outline_color"`
}

// PresetsConfig holds the quick-preset slots.
type PresetsConfig struct {
	SlotCount int          `toml:"slot_count"`
	Slots     []PresetSlot `toml:"slots"`
}

// PresetSlot captures a tool setup. Pointer fields mean "leave the
// current value" when nil.
type PresetSlot struct {
	Name           string   `toml:"name,omitempty"`
	Tool           string   `toml:"tool"`
	Color          string   `toml:"color"`
	Size           float64  `toml:"size"`
	EraserSize     *float64 `toml:"eraser_size,omitempty"`
	EraserMode     *string  `toml:"eraser_mode,omitempty"`
	MarkerOpacity  *float64 `toml:"marker_opacity,omitempty"`
	FillEnabled    *bool    `toml:"fill_enabled,omitempty"`
	FontSize       *float64 `toml:"font_size,omitempty"`
	TextBackground *bool    `toml:"text_background,omitempty"`
	ArrowLength    *float64 `toml:"arrow_length,omitempty"`
	ArrowAngle     *float64 `toml:"arrow_angle,omitempty"`
	ShowStatusBar  *bool    `toml:"show_status_bar,omitempty"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Drawing: DrawingConfig{
			DefaultColor:           "#FF0000",
			DefaultThickness:       3,
			DefaultEraserSize:      24,
			DefaultEraserMode:      "area",
			DefaultFontSize:        18,
			FontFamily:             "sans-serif",
			FontWeight:             "normal",
			FontStyle:              "normal",
			MarkerOpacity:          0.4,
			HitTestTolerance:       6,
			HitTestLinearThreshold: 12,
			UndoStackLimit:         200,
			TextBackgroundEnabled:  false,
			DefaultFillEnabled:     false,
		},
		Arrow: ArrowConfig{
			Length:       18,
			AngleDegrees: 30,
			HeadAtEnd:    true,
		},
		History: HistoryConfig{
			UndoAllDelayMs:       120,
			RedoAllDelayMs:       120,
			CustomSectionEnabled: false,
			CustomUndoDelayMs:    200,
			CustomRedoDelayMs:    200,
			CustomUndoSteps:      5,
			CustomRedoSteps:      5,
		},
		Performance: PerformanceConfig{
			BufferCount:    2,
			EnableVsync:    true,
			MaxFPSNoVsync:  60,
			UIAnimationFPS: 30,
		},
		Boards: BoardsConfig{
			MaxCount:              9,
			AutoCreate:            true,
			ShowBoardBadge:        true,
			PersistCustomizations: true,
			DefaultBoard:          "board-1",
		},
		Session: SessionConfig{
			PersistTransparent:      false,
			PersistWhiteboard:       true,
			PersistBlackboard:       true,
			PersistHistory:          false,
			RestoreToolState:        true,
			AutosaveEnabled:         true,
			AutosaveIdleMs:          2000,
			AutosaveIntervalMs:      30000,
			Storage:                 "auto",
			MaxShapesPerFrame:       10000,
			MaxFileSizeMB:           16,
			Compress:                "auto",
			AutoCompressThresholdKB: 256,
			MaxPersistedUndoDepth:   100,
			BackupRetention:         1,
			PerOutput:               true,
		},
		Keybindings: map[string][]string{},
		Presenter: PresenterConfig{
			HideStatusBar:        true,
			HideToolbars:         true,
			HideToolPreview:      true,
			CloseHelpOverlay:     true,
			EnableClickHighlight: true,
			ToolBehavior:         "keep",
			ShowToast:            true,
		},
		UI: UIConfig{
			ClickHighlight: ClickHighlightConfig{
				Enabled:          false,
				UsePenColor:      true,
				Radius:           22,
				OutlineThickness: 2,
				DurationMs:       450,
				FillColor:        "#FFD90040",
				OutlineColor:     "#FFD900",
			},
		},
		Presets: PresetsConfig{
			SlotCount: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

// StorageDir resolves the snapshot directory from the storage policy.
// "auto" uses the XDG state directory, "config" the config file's
// directory, "custom" the configured path.
func (s *SessionConfig) StorageDir(configPath string) string {
	switch s.Storage {
	case "custom":
		if s.CustomDirectory != "" {
			return s.CustomDirectory
		}
	case "config":
		if configPath != "" {
			return filepath.Join(filepath.Dir(configPath), "sessions")
		}
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "wayscriber", "sessions")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "wayscriber-sessions")
	}
	return filepath.Join(home, ".local", "state", "wayscriber", "sessions")
}

// MaxFileSizeBytes converts the configured megabyte cap.
func (s *SessionConfig) MaxFileSizeBytes() int64 {
	return int64(s.MaxFileSizeMB) << 20
}

// PenColor parses the default drawing color, falling back to red.
func (d *DrawingConfig) PenColor() geom.Color {
	c, err := geom.ParseHexColor(d.DefaultColor)
	if err != nil {
		return geom.Color{R: 1, A: 1}
	}
	return c
}
