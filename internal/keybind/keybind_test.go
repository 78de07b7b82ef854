package keybind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
)

func TestParseCombo(t *testing.T) {
	tests := []struct {
		in   string
		mods key.Modifiers
		key  string
	}{
		{"e", 0, "e"},
		{"E", 0, "e"},
		{"ctrl+z", key.ModControl, "z"},
		{"Ctrl+Shift+Z", key.ModControl | key.ModShift, "z"},
		{"control+alt+y", key.ModControl | key.ModAlt, "y"},
		{"F1", 0, "f1"},
		{"esc", 0, "escape"},
		{"plus", 0, "+"},
		{"ctrl++", key.ModControl, "+"},
		{"shift+pageup", key.ModShift, "pageup"},
	}
	for _, tc := range tests {
		c, err := ParseCombo(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.mods, c.Mods, tc.in)
		assert.Equal(t, tc.key, c.Key, tc.in)
	}
}

func TestParseComboRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "ctrl+", "meta+z", "ctrl+foo", "z+ctrl"} {
		_, err := ParseCombo(in)
		assert.Error(t, err, in)
	}
}

func TestResolverMatchesDefaults(t *testing.T) {
	r, err := NewResolver(DefaultBindings())
	require.NoError(t, err)

	a, ok := r.Resolve("e", 0, false)
	require.True(t, ok)
	assert.Equal(t, ActionClearCanvas, a)

	a, ok = r.Resolve("z", key.ModControl, false)
	require.True(t, ok)
	assert.Equal(t, ActionUndo, a)

	a, ok = r.Resolve("Z", key.ModControl|key.ModShift, false)
	require.True(t, ok)
	assert.Equal(t, ActionRedo, a)

	_, ok = r.Resolve("e", key.ModControl, false)
	assert.False(t, ok)
}

func TestResolverShiftedCharacterFallsBack(t *testing.T) {
	r, err := NewResolver(map[Action][]string{ActionToolPen: {"p"}})
	require.NoError(t, err)

	// The compositor reports Shift held with the shifted character;
	// a bare-character binding still matches.
	a, ok := r.Resolve("p", key.ModShift, false)
	require.True(t, ok)
	assert.Equal(t, ActionToolPen, a)
}

func TestResolverTextInputOnlyModified(t *testing.T) {
	r, err := NewResolver(DefaultBindings())
	require.NoError(t, err)

	_, ok := r.Resolve("e", 0, true)
	assert.False(t, ok, "plain characters must reach the text buffer")

	a, ok := r.Resolve("z", key.ModControl, true)
	require.True(t, ok)
	assert.Equal(t, ActionUndo, a)
}

func TestResolverRejectsDuplicateCombo(t *testing.T) {
	_, err := NewResolver(map[Action][]string{
		ActionUndo: {"ctrl+z"},
		ActionRedo: {"ctrl+z"},
	})
	require.Error(t, err)
}

func TestDefaultBindingsCompile(t *testing.T) {
	_, err := NewResolver(DefaultBindings())
	require.NoError(t, err)
}
