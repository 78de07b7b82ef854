package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	input := `
[drawing]
default_color = "#00FF00"
default_thickness = 5.0

[session]
autosave_idle_ms = 1500
compress = "on"

[keybindings]
clear_canvas = ["e"]
undo = ["ctrl+z"]

[[presets.slots]]
tool = "pen"
color = "#0000FF"
size = 4.0
`
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", cfg.Drawing.DefaultColor)
	assert.Equal(t, 5.0, cfg.Drawing.DefaultThickness)
	assert.Equal(t, 1500, cfg.Session.AutosaveIdleMs)
	assert.Equal(t, "on", cfg.Session.Compress)
	assert.Equal(t, []string{"e"}, cfg.Keybindings["clear_canvas"])
	require.Len(t, cfg.Presets.Slots, 1)
	assert.Equal(t, "pen", cfg.Presets.Slots[0].Tool)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Arrow, cfg.Arrow)
}

func TestLoadRejectsMalformedColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	input := `
[drawing]
default_color = "not-a-color"
`
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var v *Validation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "drawing.default_color", v.Field)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"eraser mode", func(c *Config) { c.Drawing.DefaultEraserMode = "laser" }, "drawing.default_eraser_mode"},
		{"font size low", func(c *Config) { c.Drawing.DefaultFontSize = 4 }, "drawing.default_font_size"},
		{"marker opacity", func(c *Config) { c.Drawing.MarkerOpacity = 1.5 }, "drawing.marker_opacity"},
		{"arrow angle", func(c *Config) { c.Arrow.AngleDegrees = 120 }, "arrow.angle_degrees"},
		{"storage", func(c *Config) { c.Session.Storage = "cloud" }, "session.storage"},
		{"custom dir required", func(c *Config) { c.Session.Storage = "custom" }, "session.custom_directory"},
		{"compress", func(c *Config) { c.Session.Compress = "zstd" }, "session.compress"},
		{"slot count", func(c *Config) { c.Presets.SlotCount = 20 }, "presets.slot_count"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var v *Validation
			require.True(t, errors.As(err, &v), "expected a validation error, got %v", err)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestValidateDuplicateBoardID(t *testing.T) {
	cfg := Default()
	cfg.Boards.Items = []BoardItem{
		{ID: "board-1", Background: "transparent"},
		{ID: "board-1", Background: "#FFFFFF"},
	}
	err := cfg.Validate()
	var v *Validation
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v.Message, "duplicate")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Drawing.DefaultColor = "#123456"
	cfg.Session.BackupRetention = 3
	cfg.Keybindings = map[string][]string{"undo": {"ctrl+z"}}
	mode := "stroke"
	cfg.Presets.Slots = []PresetSlot{{Name: "laser", Tool: "pen", Color: "#FF00FF", Size: 2, EraserMode: &mode}}

	require.NoError(t, Save(cfg, path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveRoundTripsUnedited(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	require.NoError(t, Save(Default(), a))
	loaded, err := Load(a)
	require.NoError(t, err)
	require.NoError(t, Save(loaded, b))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, string(da), string(db))
}

func TestStorageDir(t *testing.T) {
	s := Default().Session

	s.Storage = "custom"
	s.CustomDirectory = "/var/lib/annotate"
	assert.Equal(t, "/var/lib/annotate", s.StorageDir(""))

	s.Storage = "config"
	assert.Equal(t, "/etc/wayscriber/sessions", s.StorageDir("/etc/wayscriber/config.toml"))

	s.Storage = "auto"
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, "/tmp/state/wayscriber/sessions", s.StorageDir(""))
}

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(Default(), path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	cfg := Default()
	cfg.Drawing.DefaultThickness = 7
	require.NoError(t, Save(cfg, path))

	select {
	case got := <-w.Updates():
		assert.Equal(t, 7.0, got.Drawing.DefaultThickness)
	case <-time.After(3 * time.Second):
		t.Fatal("no config update delivered")
	}
}

func TestWatcherKeepsLastGoodOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(Default(), path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[[[broken"), 0o644))

	select {
	case got := <-w.Updates():
		t.Fatalf("unexpected update for malformed config: %+v", got)
	case <-time.After(500 * time.Millisecond):
	}
}
