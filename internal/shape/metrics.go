package shape

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Text measurement backs the padded bounding boxes of text and sticky
// notes. Faces are cached per rounded point size; the renderer resolves
// the configured family itself, so a single metric face is sufficient
// for layout purposes.

var (
	faceMu    sync.Mutex
	faceCache map[int]font.Face
	parsedSFN *opentype.Font
)

func metricFace(size float64) font.Face {
	pt := int(math.Round(size))
	if pt < 1 {
		pt = 1
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	if faceCache == nil {
		faceCache = make(map[int]font.Face)
	}
	if f, ok := faceCache[pt]; ok {
		return f
	}
	if parsedSFN == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// goregular is embedded and always parses; treat failure
			// as a bug and fall through with a nil cache entry.
			return nil
		}
		parsedSFN = f
	}
	face, err := opentype.NewFace(parsedSFN, &opentype.FaceOptions{
		Size:    float64(pt),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	faceCache[pt] = face
	return face
}

// LineHeight returns the line advance for the given point size.
func LineHeight(size float64) float64 {
	face := metricFace(size)
	if face == nil {
		return size * 1.2
	}
	return float64(face.Metrics().Height.Ceil())
}

func measureString(s string, size float64) float64 {
	face := metricFace(size)
	if face == nil {
		return float64(len(s)) * size * 0.6
	}
	return float64(font.MeasureString(face, s).Ceil())
}

// WrapLines splits text into rendered lines. Explicit newlines always
// break; when wrapWidth > 0, lines are additionally word-wrapped to fit.
func WrapLines(text string, size, wrapWidth float64) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if wrapWidth <= 0 || measureString(raw, size) <= wrapWidth {
			out = append(out, raw)
			continue
		}
		words := strings.Fields(raw)
		if len(words) == 0 {
			out = append(out, raw)
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if measureString(candidate, size) > wrapWidth {
				out = append(out, line)
				line = w
				continue
			}
			line = candidate
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// MeasureText returns the unpadded extent of a text block.
func MeasureText(text string, size, wrapWidth float64) (w, h float64) {
	lines := WrapLines(text, size, wrapWidth)
	lh := LineHeight(size)
	for _, l := range lines {
		if lw := measureString(l, size); lw > w {
			w = lw
		}
	}
	if wrapWidth > 0 && w > wrapWidth {
		w = wrapWidth
	}
	return w, lh * float64(len(lines))
}
