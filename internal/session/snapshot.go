// Package session persists board contents between overlay runs: a
// versioned snapshot document per output identity, written atomically
// with rotation, plus the autosave scheduler that decides when.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/wayscriber/internal/board"
	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/logger"
	"github.com/example/wayscriber/internal/shape"
)

// Version is the snapshot schema version.
const Version = 1

// ToolState captures the restorable tool settings.
type ToolState struct {
	Color          geom.Color          `json:"color"`
	Thickness      float64             `json:"thickness"`
	EraserKind     shape.EraserKind    `json:"eraser_kind"`
	EraserMode     shape.EraseMode     `json:"eraser_mode"`
	EraserSize     float64             `json:"eraser_size"`
	MarkerOpacity  float64             `json:"marker_opacity"`
	Font           geom.FontDescriptor `json:"font"`
	FontSize       float64             `json:"font_size"`
	TextBackground bool                `json:"text_background"`
	FillEnabled    bool                `json:"fill_enabled"`
}

// Snapshot is the decoded payload of a session file.
type Snapshot struct {
	Version int           `json:"version"`
	DocID   string        `json:"doc_id"`
	SavedAt time.Time     `json:"saved_at"`
	Boards  []BoardRecord `json:"boards"`
	Tool    *ToolState    `json:"tool,omitempty"`
}

// BoardRecord is one persisted board with its ordered pages.
type BoardRecord struct {
	Spec  board.Spec   `json:"spec"`
	Pages []PageRecord `json:"pages"`
}

// PageRecord is one persisted canvas frame.
type PageRecord struct {
	Shapes []ShapeRecord  `json:"shapes"`
	Undo   []ActionRecord `json:"undo,omitempty"`
	Redo   []ActionRecord `json:"redo,omitempty"`
}

// ShapeRecord is the tagged on-disk form of a shape. RefID is only a
// remap key for history references; fresh ids are always assigned at
// load time.
type ShapeRecord struct {
	Kind   shape.Kind      `json:"kind"`
	RefID  uint64          `json:"ref_id,omitempty"`
	Locked bool            `json:"locked,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// ActionRecord is the tagged on-disk form of a history action.
type ActionRecord struct {
	Kind        string            `json:"kind"`
	Positions   []PlacementRecord `json:"positions,omitempty"`
	RefID       uint64            `json:"ref_id,omitempty"`
	Before      *ShapeRecord      `json:"before,omitempty"`
	After       *ShapeRecord      `json:"after,omitempty"`
	BeforeIndex int               `json:"before_index,omitempty"`
	AfterIndex  int               `json:"after_index,omitempty"`
	Children    []ActionRecord    `json:"children,omitempty"`
}

// PlacementRecord pairs a shape record with its frame index.
type PlacementRecord struct {
	Index int         `json:"index"`
	Shape ShapeRecord `json:"shape"`
}

func encodeShape(s shape.Shape) (ShapeRecord, error) {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return ShapeRecord{}, fmt.Errorf("encode %s shape: %w", s.Data.Kind(), err)
	}
	return ShapeRecord{Kind: s.Data.Kind(), RefID: uint64(s.ID), Locked: s.Locked, Data: data}, nil
}

func decodeShapeData(kind shape.Kind, data json.RawMessage) (shape.Data, error) {
	var (
		d   shape.Data
		err error
	)
	switch kind {
	case shape.KindLine:
		var v shape.Line
		err = json.Unmarshal(data, &v)
		d = v
	case shape.KindRect:
		var v shape.Rect
		err = json.Unmarshal(data, &v)
		d = v.Normalized()
	case shape.KindEllipse:
		var v shape.Ellipse
		err = json.Unmarshal(data, &v)
		d = v
	case shape.KindArrow:
		var v shape.Arrow
		err = json.Unmarshal(data, &v)
		d = v
	case shape.KindFreehand:
		var v shape.Freehand
		err = json.Unmarshal(data, &v)
		d = v
	case shape.KindEraser:
		var v shape.Eraser
		err = json.Unmarshal(data, &v)
		d = v
	case shape.KindText:
		var v shape.Text
		err = json.Unmarshal(data, &v)
		d = v
	case shape.KindStickyNote:
		var v shape.StickyNote
		err = json.Unmarshal(data, &v)
		d = v
	default:
		return nil, fmt.Errorf("unknown shape kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s shape: %w", kind, err)
	}
	return d, nil
}

// EncodeOptions bounds what a snapshot carries.
type EncodeOptions struct {
	PersistHistory   bool
	MaxShapes        int // per frame; excess tail truncated with a warning
	MaxUndoDepth     int
	RestoreToolState bool
}

// BuildSnapshot encodes the persisted boards of a manager. Boards whose
// spec disables persistence are skipped.
func BuildSnapshot(m *board.Manager, tool *ToolState, opts EncodeOptions, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		Version: Version,
		DocID:   uuid.NewString(),
		SavedAt: now,
	}
	if opts.RestoreToolState {
		snap.Tool = tool
	}
	for _, b := range m.Boards() {
		if !b.Spec.Persist {
			continue
		}
		rec := BoardRecord{Spec: b.Spec}
		for _, page := range b.Pages() {
			pr, err := encodePage(page, opts)
			if err != nil {
				return nil, fmt.Errorf("board %q: %w", b.Spec.ID, err)
			}
			rec.Pages = append(rec.Pages, pr)
		}
		snap.Boards = append(snap.Boards, rec)
	}
	return snap, nil
}

func encodePage(f *canvas.Frame, opts EncodeOptions) (PageRecord, error) {
	var pr PageRecord
	shapes := f.Shapes()
	if opts.MaxShapes > 0 && len(shapes) > opts.MaxShapes {
		logger.WithComponent("session").Warn().
			Int("count", len(shapes)).
			Int("max", opts.MaxShapes).
			Msg("truncating shapes over per-frame cap")
		shapes = shapes[:opts.MaxShapes]
	}
	for _, s := range shapes {
		rec, err := encodeShape(s)
		if err != nil {
			return pr, err
		}
		pr.Shapes = append(pr.Shapes, rec)
	}
	if opts.PersistHistory {
		var err error
		pr.Undo, err = encodeActions(capTail(f.UndoActions(), opts.MaxUndoDepth))
		if err != nil {
			return pr, err
		}
		pr.Redo, err = encodeActions(capTail(f.RedoActions(), opts.MaxUndoDepth))
		if err != nil {
			return pr, err
		}
	}
	return pr, nil
}

// capTail keeps at most n entries, truncating the tail of the stack
// silently when the depth shrinks.
func capTail(actions []canvas.Action, n int) []canvas.Action {
	if n <= 0 || len(actions) <= n {
		return actions
	}
	return actions[:n]
}

func encodeActions(actions []canvas.Action) ([]ActionRecord, error) {
	var out []ActionRecord
	for _, a := range actions {
		rec, err := encodeAction(a)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func encodeAction(a canvas.Action) (ActionRecord, error) {
	switch v := a.(type) {
	case canvas.Create:
		ps, err := encodePlacements(v.Positions)
		return ActionRecord{Kind: "create", Positions: ps}, err
	case canvas.Delete:
		ps, err := encodePlacements(v.Positions)
		return ActionRecord{Kind: "delete", Positions: ps}, err
	case canvas.Replace:
		before, err := encodeShape(v.Before)
		if err != nil {
			return ActionRecord{}, err
		}
		after, err := encodeShape(v.After)
		if err != nil {
			return ActionRecord{}, err
		}
		return ActionRecord{Kind: "replace", RefID: uint64(v.ID), Before: &before, After: &after}, nil
	case canvas.ZOrder:
		return ActionRecord{Kind: "zorder", RefID: uint64(v.ID), BeforeIndex: v.BeforeIndex, AfterIndex: v.AfterIndex}, nil
	case canvas.Composite:
		children, err := encodeActions(v.Actions)
		return ActionRecord{Kind: "composite", Children: children}, err
	default:
		return ActionRecord{}, fmt.Errorf("unknown history action %T", a)
	}
}

func encodePlacements(ps []canvas.Placement) ([]PlacementRecord, error) {
	var out []PlacementRecord
	for _, p := range ps {
		rec, err := encodeShape(p.Shape)
		if err != nil {
			return nil, err
		}
		out = append(out, PlacementRecord{Index: p.Index, Shape: rec})
	}
	return out, nil
}

// idRemap allocates fresh shape ids for every reference id seen in a
// snapshot, keeping intra-page references consistent.
type idRemap struct {
	ids *canvas.IDSource
	m   map[uint64]shape.ID
}

func newIDRemap(ids *canvas.IDSource) *idRemap {
	return &idRemap{ids: ids, m: make(map[uint64]shape.ID)}
}

func (r *idRemap) lookup(ref uint64) shape.ID {
	if ref == 0 {
		return r.ids.Next()
	}
	if id, ok := r.m[ref]; ok {
		return id
	}
	id := r.ids.Next()
	r.m[ref] = id
	return id
}

// Apply restores the snapshot's boards into the manager. History and
// tool state are applied per the options.
func Apply(snap *Snapshot, m *board.Manager, opts EncodeOptions) (*ToolState, error) {
	if snap.Version != Version {
		return nil, fmt.Errorf("%w: snapshot version %d, want %d", ErrCorrupt, snap.Version, Version)
	}
	for _, rec := range snap.Boards {
		remap := newIDRemap(m.IDs())
		var pages []*canvas.Frame
		for _, pr := range rec.Pages {
			f, err := decodePage(pr, m.IDs(), remap, opts)
			if err != nil {
				return nil, fmt.Errorf("board %q: %w", rec.Spec.ID, err)
			}
			pages = append(pages, f)
		}
		if err := m.RestoreBoard(rec.Spec, pages); err != nil {
			return nil, err
		}
	}
	if opts.RestoreToolState {
		return snap.Tool, nil
	}
	return nil, nil
}

func decodePage(pr PageRecord, ids *canvas.IDSource, remap *idRemap, opts EncodeOptions) (*canvas.Frame, error) {
	f := canvas.NewFrame(ids)
	for _, rec := range pr.Shapes {
		s, err := decodeShape(rec, remap)
		if err != nil {
			return nil, err
		}
		f.InsertAt(f.Len(), s)
	}
	if opts.PersistHistory {
		undo, err := decodeActions(capTailRecords(pr.Undo, opts.MaxUndoDepth), remap)
		if err != nil {
			return nil, err
		}
		redo, err := decodeActions(capTailRecords(pr.Redo, opts.MaxUndoDepth), remap)
		if err != nil {
			return nil, err
		}
		f.RestoreHistory(undo, redo)
	}
	return f, nil
}

func capTailRecords(recs []ActionRecord, n int) []ActionRecord {
	if n <= 0 || len(recs) <= n {
		return recs
	}
	return recs[:n]
}

func decodeShape(rec ShapeRecord, remap *idRemap) (shape.Shape, error) {
	data, err := decodeShapeData(rec.Kind, rec.Data)
	if err != nil {
		return shape.Shape{}, err
	}
	return shape.Shape{ID: remap.lookup(rec.RefID), Locked: rec.Locked, Data: data}, nil
}

func decodeActions(recs []ActionRecord, remap *idRemap) ([]canvas.Action, error) {
	var out []canvas.Action
	for _, rec := range recs {
		a, err := decodeAction(rec, remap)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeAction(rec ActionRecord, remap *idRemap) (canvas.Action, error) {
	switch rec.Kind {
	case "create":
		ps, err := decodePlacements(rec.Positions, remap)
		return canvas.Create{Positions: ps}, err
	case "delete":
		ps, err := decodePlacements(rec.Positions, remap)
		return canvas.Delete{Positions: ps}, err
	case "replace":
		if rec.Before == nil || rec.After == nil {
			return nil, fmt.Errorf("%w: replace action missing payload", ErrCorrupt)
		}
		before, err := decodeShape(*rec.Before, remap)
		if err != nil {
			return nil, err
		}
		after, err := decodeShape(*rec.After, remap)
		if err != nil {
			return nil, err
		}
		return canvas.Replace{ID: remap.lookup(rec.RefID), Before: before, After: after}, nil
	case "zorder":
		return canvas.ZOrder{ID: remap.lookup(rec.RefID), BeforeIndex: rec.BeforeIndex, AfterIndex: rec.AfterIndex}, nil
	case "composite":
		children, err := decodeActions(rec.Children, remap)
		return canvas.Composite{Actions: children}, err
	default:
		return nil, fmt.Errorf("%w: unknown action kind %q", ErrCorrupt, rec.Kind)
	}
}

func decodePlacements(recs []PlacementRecord, remap *idRemap) ([]canvas.Placement, error) {
	var out []canvas.Placement
	for _, rec := range recs {
		s, err := decodeShape(rec.Shape, remap)
		if err != nil {
			return nil, err
		}
		out = append(out, canvas.Placement{Index: rec.Index, Shape: s})
	}
	return out, nil
}
