// Package capture coordinates freeze and zoom acquisition: screencopy
// request lifecycle, overlay suppression, and the captured image
// buffers the renderer composites.
package capture

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/example/wayscriber/internal/geom"
)

// Image is a captured frame: ARGB32 little-endian pixels with a row
// stride, plus the output geometry it was taken from.
type Image struct {
	Pixels   []byte
	Stride   int
	Width    int
	Height   int
	Geometry geom.Rect
}

// Validate checks the buffer layout.
func (im *Image) Validate() error {
	if im.Width <= 0 || im.Height <= 0 {
		return fmt.Errorf("capture image %dx%d: empty", im.Width, im.Height)
	}
	if im.Stride < im.Width*4 {
		return fmt.Errorf("capture image stride %d < row bytes %d", im.Stride, im.Width*4)
	}
	if len(im.Pixels) < im.Stride*im.Height {
		return fmt.Errorf("capture image buffer %d bytes, want %d", len(im.Pixels), im.Stride*im.Height)
	}
	return nil
}

// ToRGBA converts the ARGB32 buffer (BGRA byte order) into an
// image.RGBA for export encoding.
func (im *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		src := im.Pixels[y*im.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < im.Width; x++ {
			b, g, r, a := src[x*4], src[x*4+1], src[x*4+2], src[x*4+3]
			dst[x*4], dst[x*4+1], dst[x*4+2], dst[x*4+3] = r, g, b, a
		}
	}
	return out
}

// Magnify scales the region of the capture around center by scale into
// a viewport-sized RGBA, used when rendering an engaged zoom over a
// frozen or captured background.
func (im *Image) Magnify(center geom.Point, scale float64, viewW, viewH int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	srcW := float64(viewW) / scale
	srcH := float64(viewH) / scale
	x0 := int(center.X - srcW/2)
	y0 := int(center.Y - srcH/2)
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x0+int(srcW) > im.Width {
		x0 = im.Width - int(srcW)
	}
	if y0+int(srcH) > im.Height {
		y0 = im.Height - int(srcH)
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	src := im.ToRGBA()
	region := image.Rect(x0, y0, min(x0+int(srcW)+1, im.Width), min(y0+int(srcH)+1, im.Height))
	dst := image.NewRGBA(image.Rect(0, 0, viewW, viewH))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src.SubImage(region), region, xdraw.Src, nil)
	return dst
}
