package overlay

import (
	"strings"

	"github.com/example/wayscriber/internal/geom"
)

const (
	paletteWidth      = 520
	paletteInputH     = 36
	paletteMaxVisible = 8
)

// Command is a palette entry resolved to an action tag on accept.
type Command struct {
	ID       string
	Title    string
	Keywords string
}

// CommandPalette is the searchable action list opened over the screen
// center.
type CommandPalette struct {
	open      bool
	query     string
	selection int
	commands  []Command
}

// PaletteLayout is the frame geometry for one frame.
type PaletteLayout struct {
	Frame geom.Rect
	Input geom.Rect
	Rows  []geom.Rect
}

func NewCommandPalette(commands []Command) *CommandPalette {
	return &CommandPalette{commands: commands}
}

func (p *CommandPalette) IsOpen() bool  { return p.open }
func (p *CommandPalette) Query() string { return p.query }

func (p *CommandPalette) Open() {
	p.open = true
	p.query = ""
	p.selection = 0
}

func (p *CommandPalette) Close() { p.open = false }

func (p *CommandPalette) Toggle() {
	if p.open {
		p.Close()
		return
	}
	p.Open()
}

// SetQuery replaces the filter text and resets the selection.
func (p *CommandPalette) SetQuery(q string) {
	p.query = q
	p.selection = 0
}

// AppendQuery adds typed text to the filter.
func (p *CommandPalette) AppendQuery(text string) {
	p.SetQuery(p.query + text)
}

// Backspace removes the last rune from the filter. Like any other
// query edit it resets the highlighted row, even when there is nothing
// left to delete.
func (p *CommandPalette) Backspace() {
	if p.query == "" {
		p.selection = 0
		return
	}
	runes := []rune(p.query)
	p.SetQuery(string(runes[:len(runes)-1]))
}

// Filtered returns the commands matching the query, case-insensitive
// against title and keywords.
func (p *CommandPalette) Filtered() []Command {
	if p.query == "" {
		return p.commands
	}
	q := strings.ToLower(p.query)
	var out []Command
	for _, c := range p.commands {
		if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Keywords), q) {
			out = append(out, c)
		}
	}
	return out
}

// MoveSelection shifts the highlighted row, clamped to the filtered
// list.
func (p *CommandPalette) MoveSelection(delta int) {
	n := len(p.Filtered())
	if n == 0 {
		p.selection = 0
		return
	}
	p.selection = clamp(p.selection+delta, 0, n-1)
}

func (p *CommandPalette) Selection() int { return p.selection }

// Selected returns the highlighted command.
func (p *CommandPalette) Selected() (Command, bool) {
	filtered := p.Filtered()
	if !p.open || p.selection >= len(filtered) {
		return Command{}, false
	}
	return filtered[p.selection], true
}

// Accept closes the palette and returns the highlighted command.
func (p *CommandPalette) Accept() (Command, bool) {
	cmd, ok := p.Selected()
	if ok {
		p.Close()
	}
	return cmd, ok
}

// Layout centers the palette in the upper third of the viewport.
func (p *CommandPalette) Layout(viewW, viewH int) PaletteLayout {
	if !p.open {
		return PaletteLayout{}
	}
	w := paletteWidth
	if w > viewW-2*screenInset {
		w = viewW - 2*screenInset
	}
	visible := len(p.Filtered())
	if visible > paletteMaxVisible {
		visible = paletteMaxVisible
	}
	frame := geom.Rect{
		X: (viewW - w) / 2,
		Y: viewH / 6,
		W: w,
		H: paletteInputH + visible*itemHeight + 2*framePad,
	}
	frame = clampFrame(frame, viewW, viewH)
	input := geom.Rect{X: frame.X + framePad, Y: frame.Y + framePad, W: frame.W - 2*framePad, H: paletteInputH - framePad}
	rows := make([]geom.Rect, visible)
	for i := range rows {
		rows[i] = geom.Rect{
			X: frame.X + framePad,
			Y: frame.Y + framePad + paletteInputH + i*itemHeight,
			W: frame.W - 2*framePad,
			H: itemHeight,
		}
	}
	return PaletteLayout{Frame: frame, Input: input, Rows: rows}
}

// HitTest maps a pointer position to a filtered row index.
func (p *CommandPalette) HitTest(pt geom.Point, viewW, viewH int) (int, bool) {
	if !p.open {
		return 0, false
	}
	layout := p.Layout(viewW, viewH)
	for i, r := range layout.Rows {
		if r.Contains(pt) {
			return i, true
		}
	}
	return 0, false
}
