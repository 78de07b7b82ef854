package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), A: 255})
		}
	}
	return img
}

func TestSaveFileWritesTimestampedPNG(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, nil)
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	path, err := e.SaveFile(testImage(8, 8), now)
	require.NoError(t, err)
	require.Equal(t, "wayscriber-20260314-150926.png", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), decoded.Bounds())
}

func TestSaveFileSuffixesOnCollision(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, nil)
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	first, err := e.SaveFile(testImage(4, 4), now)
	require.NoError(t, err)
	second, err := e.SaveFile(testImage(4, 4), now)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Equal(t, "wayscriber-20260314-150926-2.png", filepath.Base(second))
}

func TestSaveFileRejectsEmptyImage(t *testing.T) {
	e := New(t.TempDir(), nil)
	_, err := e.SaveFile(nil, time.Now())
	require.Error(t, err)

	_, err = e.SaveFile(image.NewRGBA(image.Rectangle{}), time.Now())
	require.Error(t, err)
}

func TestCopyClipboardRejectsEmptyImage(t *testing.T) {
	e := New(t.TempDir(), nil)
	require.Error(t, e.CopyClipboard(nil, "screen"))
}

func TestDefaultDirPrefersXDG(t *testing.T) {
	t.Setenv("XDG_PICTURES_DIR", "/tmp/shots")
	require.Equal(t, "/tmp/shots", DefaultDir())

	t.Setenv("XDG_PICTURES_DIR", "")
	dir := DefaultDir()
	require.True(t, strings.HasSuffix(dir, "Pictures") || dir == ".")
}

func TestDecorateHonorsWindowShadow(t *testing.T) {
	e := New(t.TempDir(), nil)
	img := testImage(10, 10)

	require.Same(t, img, e.Decorate(img))

	e.WindowShadow = true
	out := e.Decorate(img)
	require.NotNil(t, out)
	require.Greater(t, out.Bounds().Dx(), img.Bounds().Dx())
}
