//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetInit(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	initOnce = sync.Once{}
	initErr = nil
}

func TestWritesFailWithoutDisplay(t *testing.T) {
	resetInit(t)

	require.ErrorIs(t, WriteText("hello"), errNoDisplay)
	require.ErrorIs(t, WritePNG([]byte("not real png")), errNoDisplay)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.ErrorIs(t, WriteImage(img), errNoDisplay,
		"encoding succeeds but publishing must still refuse")
}

func TestInitFailureIsSticky(t *testing.T) {
	resetInit(t)

	require.ErrorIs(t, WriteText("first"), errNoDisplay)

	// A display appearing after the first attempt does not retrigger
	// initialization within the process.
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	assert.ErrorIs(t, WriteText("second"), errNoDisplay)
}
