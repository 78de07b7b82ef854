package input

import (
	"time"

	"github.com/example/wayscriber/internal/config"
	"github.com/example/wayscriber/internal/geom"
)

// Highlight is one click pulse for presenter mode.
type Highlight struct {
	Pos      geom.Point
	Start    time.Time
	Duration time.Duration
	Color    geom.Color
	Outline  geom.Color
	Radius   float64
	Width    float64
}

// Progress returns animation progress in [0, 1].
func (h *Highlight) Progress(now time.Time) float64 {
	if h.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(h.Start)) / float64(h.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

type highlights struct {
	cfg    config.ClickHighlightConfig
	fill   geom.Color
	line   geom.Color
	active []Highlight
}

func (h *highlights) configure(cfg config.ClickHighlightConfig) {
	h.cfg = cfg
	if c, err := geom.ParseHexColor(cfg.FillColor); err == nil {
		h.fill = c
	}
	if c, err := geom.ParseHexColor(cfg.OutlineColor); err == nil {
		h.line = c
	}
}

func (h *highlights) add(p geom.Point, pen geom.Color, now time.Time) {
	fill, line := h.fill, h.line
	if h.cfg.UsePenColor {
		fill = pen
		fill.A *= 0.25
		line = pen
	}
	h.active = append(h.active, Highlight{
		Pos:      p,
		Start:    now,
		Duration: time.Duration(h.cfg.DurationMs) * time.Millisecond,
		Color:    fill,
		Outline:  line,
		Radius:   h.cfg.Radius,
		Width:    h.cfg.OutlineThickness,
	})
}

// prune drops finished pulses, reporting whether any remain.
func (h *highlights) prune(now time.Time) bool {
	kept := h.active[:0]
	for _, hl := range h.active {
		if hl.Progress(now) < 1 {
			kept = append(kept, hl)
		}
	}
	h.active = kept
	return len(h.active) > 0
}

func (h *highlights) clear() { h.active = nil }

// recordClickHighlight adds a pulse when click highlighting applies.
func (s *State) recordClickHighlight(p geom.Point, now time.Time) {
	enabled := s.highlight.cfg.Enabled || s.presenter
	if !enabled {
		return
	}
	s.highlight.add(p, s.Style.Color, now)
	r := int(s.highlight.cfg.Radius + s.highlight.cfg.OutlineThickness + 1)
	s.dirty.MarkRect(geom.Rect{X: int(p.X) - r, Y: int(p.Y) - r, W: 2 * r, H: 2 * r})
}

// ActiveHighlights prunes and returns live pulses. The second return
// is the keep-rendering hint.
func (s *State) ActiveHighlights(now time.Time) ([]Highlight, bool) {
	animating := s.highlight.prune(now)
	return s.highlight.active, animating
}
