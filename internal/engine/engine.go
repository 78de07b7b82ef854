// Package engine runs the single-threaded overlay core: it drains
// compositor events into the input state machine, dispatches staged
// capture, zoom, and preset actions, paces autosave and delayed
// history, and hands render hints back to the compositor glue. All
// mutable state is owned by the loop goroutine; background I/O posts
// completions onto the same queue.
package engine

import (
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/wayscriber/internal/board"
	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/capture"
	"github.com/example/wayscriber/internal/config"
	"github.com/example/wayscriber/internal/export"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/history"
	"github.com/example/wayscriber/internal/input"
	"github.com/example/wayscriber/internal/keybind"
	"github.com/example/wayscriber/internal/logger"
	"github.com/example/wayscriber/internal/notify"
	"github.com/example/wayscriber/internal/overlay"
	"github.com/example/wayscriber/internal/session"
	"github.com/example/wayscriber/internal/toolbar"
)

// FrameHints tells the renderer what to draw and whether more frames
// follow.
type FrameHints struct {
	Full          bool
	Rects         []geom.Rect
	KeepRendering bool
	Suppression   capture.Suppression
	Status        string
}

// Hooks are the engine's outbound calls into the compositor glue.
// Every hook is optional.
type Hooks struct {
	// RequestCapture starts a screencopy readback; the glue posts a
	// CaptureResultEvent with the same id when it completes.
	RequestCapture func(id uuid.UUID, kind capture.RequestKind)
	// ComposeCapture renders the annotated result for an export
	// target into a copy safe to encode off the loop.
	ComposeCapture func(target input.CaptureTarget) (*image.RGBA, error)
	// Render draws one frame from the current model.
	Render func(FrameHints)
	// SetClickThrough toggles the surface input region while the
	// overlay is suppressed.
	SetClickThrough func(bool)
	// Quit tears down the overlay session.
	Quit func()
}

// Capabilities reports what the compositor offers; missing pieces
// degrade features rather than failing startup.
type Capabilities struct {
	LayerShell bool
	Screencopy bool
}

// Engine owns the overlay session state and the event loop.
type Engine struct {
	cfg        *config.Config
	configPath string
	hooks      Hooks
	caps       Capabilities

	input    *input.State
	boards   *board.Manager
	coord    *capture.Coordinator
	resolver *keybind.Resolver
	store    *session.Store
	autosave session.Autosave
	replay   history.Scheduler
	exporter *export.Exporter
	notifier *notify.Notifier
	toolbars *toolbar.Toolbars

	help        *overlay.HelpOverlay
	palette     *overlay.CommandPalette
	picker      overlay.BoardPicker
	props       overlay.PropertiesPanel
	menu        overlay.ContextMenu
	radial      overlay.RadialMenu
	toasts      overlay.Toasts
	presetFlash overlay.PresetFeedback
	hints       *overlay.Hints

	events chan Event

	width, height int
	lastPointer   geom.Point
	identity      string
	loaded        map[string]bool
	draggingDock  *toolbar.Dock
	stylusDown    bool
	stylusBase    float64

	lastRender       time.Time
	quit             bool
	clickThrough     bool
	saving           bool
	autosaveNotified bool
	unsupportedOnce  map[string]bool

	log *zerolog.Logger
}

// New builds an engine from a validated config. configPath anchors
// config-relative session storage and preset persistence.
func New(cfg *config.Config, configPath string, hooks Hooks) (*Engine, error) {
	resolver, err := keybind.NewResolver(bindingTable(cfg))
	if err != nil {
		return nil, coreErr(KindValidation, "parse keybindings", err)
	}
	notifier := notify.New(notify.DefaultPreferences())
	ids := &canvas.IDSource{}
	e := &Engine{
		cfg:        cfg,
		configPath: configPath,
		hooks:      hooks,
		caps:       Capabilities{LayerShell: true, Screencopy: true},
		input:      input.NewState(cfg, 0, 0),
		boards:     board.NewManager(boardOptions(cfg), ids),
		coord:      capture.NewCoordinator(),
		resolver:   resolver,
		store: &session.Store{
			Dir:             cfg.Session.StorageDir(configPath),
			MaxFileSize:     cfg.Session.MaxFileSizeBytes(),
			BackupRetention: cfg.Session.BackupRetention,
		},
		exporter: export.New("", notifier),
		notifier: notifier,
		toolbars: toolbar.New(),
		help:     overlay.NewHelpOverlay(overlay.HelpEntries(bindingTable(cfg))),
		palette:  overlay.NewCommandPalette(paletteCommands()),
		hints:    overlay.NewHints(overlay.DefaultHints(), cfg.UI.DismissedHints),
		events:   make(chan Event, 128),
		loaded:   make(map[string]bool),

		unsupportedOnce: make(map[string]bool),
		log:             logger.WithComponent("engine"),
	}
	return e, nil
}

// SetCapabilities records compositor support discovered during setup.
// Missing layer-shell moves the toolbars inline; missing screencopy
// disables freeze and zoom capture.
func (e *Engine) SetCapabilities(caps Capabilities) {
	e.caps = caps
	if !caps.LayerShell {
		e.logUnsupported("layer-shell", "toolbars render inline")
		e.toolbars.SetPlacement(toolbar.PlacementInline)
	}
	if !caps.Screencopy {
		e.logUnsupported("screencopy", "freeze and zoom capture disabled")
	}
}

// logUnsupported logs a missing capability once per run.
func (e *Engine) logUnsupported(proto, effect string) {
	if e.unsupportedOnce[proto] {
		return
	}
	e.unsupportedOnce[proto] = true
	e.log.Warn().Str("protocol", proto).Msg("compositor capability missing, " + effect)
}

// Post queues an event for the loop. Safe to call from any goroutine.
func (e *Engine) Post(ev Event) {
	e.events <- ev
}

// Input exposes the interaction state to the renderer.
func (e *Engine) Input() *input.State { return e.input }

// Boards exposes the board manager to the renderer.
func (e *Engine) Boards() *board.Manager { return e.boards }

// Capture exposes the freeze and zoom state to the renderer.
func (e *Engine) Capture() *capture.Coordinator { return e.coord }

// Toolbars exposes the dock state to the renderer.
func (e *Engine) Toolbars() *toolbar.Toolbars { return e.toolbars }

// bindingTable merges the user's keybindings over the defaults.
func bindingTable(cfg *config.Config) map[keybind.Action][]string {
	table := keybind.DefaultBindings()
	for tag, combos := range cfg.Keybindings {
		table[keybind.Action(tag)] = combos
	}
	return table
}

// boardOptions converts configured board slots into manager options.
// Each board's persistence follows the session policy for its
// background kind unless the slot forces it on.
func boardOptions(cfg *config.Config) board.Options {
	opts := board.Options{
		MaxCount:   cfg.Boards.MaxCount,
		AutoCreate: cfg.Boards.AutoCreate,
		Template: board.Spec{
			Background: board.Background{Transparent: true},
			Persist:    cfg.Session.PersistTransparent,
		},
	}
	for _, item := range cfg.Boards.Items {
		spec := board.Spec{
			ID:            item.ID,
			Name:          item.Name,
			AutoAdjustPen: item.AutoAdjustPen,
			Pinned:        item.Pinned,
		}
		if item.Background == "" || item.Background == "transparent" {
			spec.Background = board.Background{Transparent: true}
		} else if c, err := geom.ParseHexColor(item.Background); err == nil {
			spec.Background = board.Background{Color: c}
		} else {
			spec.Background = board.Background{Transparent: true}
		}
		spec.Persist = item.Persist || persistPolicy(cfg.Session, spec.Background)
		if item.PenColor != "" {
			if c, err := geom.ParseHexColor(item.PenColor); err == nil {
				spec.DefaultPenColor = &c
			}
		}
		opts.Boards = append(opts.Boards, spec)
	}
	return opts
}

// persistPolicy resolves the session persistence flag for a board
// background: transparent, dark, or light.
func persistPolicy(s config.SessionConfig, bg board.Background) bool {
	if bg.Transparent {
		return s.PersistTransparent
	}
	c := bg.Color
	luma := 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
	if luma < 0.5 {
		return s.PersistBlackboard
	}
	return s.PersistWhiteboard
}

// autosaveOptions derives scheduler pacing from the session config.
func autosaveOptions(cfg *config.Config) session.AutosaveOptions {
	return session.AutosaveOptions{
		IdleDebounce: time.Duration(cfg.Session.AutosaveIdleMs) * time.Millisecond,
		Interval:     time.Duration(cfg.Session.AutosaveIntervalMs) * time.Millisecond,
		Backoff:      5 * time.Second,
	}
}

// encodeOptions derives snapshot bounds from the session config.
func encodeOptions(cfg *config.Config) session.EncodeOptions {
	return session.EncodeOptions{
		PersistHistory:   cfg.Session.PersistHistory,
		MaxShapes:        cfg.Session.MaxShapesPerFrame,
		MaxUndoDepth:     cfg.Session.MaxPersistedUndoDepth,
		RestoreToolState: cfg.Session.RestoreToolState,
	}
}

// ApplyConfig adopts a reloaded config without discarding session
// state: bindings, help content, storage policy, and chrome update in
// place while boards and shapes survive.
func (e *Engine) ApplyConfig(cfg *config.Config) {
	resolver, err := keybind.NewResolver(bindingTable(cfg))
	if err != nil {
		e.log.Error().Err(err).Msg("reloaded keybindings invalid, keeping previous")
		return
	}
	e.cfg = cfg
	e.resolver = resolver
	e.help = overlay.NewHelpOverlay(overlay.HelpEntries(bindingTable(cfg)))
	e.store.Dir = cfg.Session.StorageDir(e.configPath)
	e.store.MaxFileSize = cfg.Session.MaxFileSizeBytes()
	e.store.BackupRetention = cfg.Session.BackupRetention
	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	e.input.MarkDirtyFull()
	e.log.Info().Msg("configuration reloaded")
}

// toolState snapshots the restorable tool settings for persistence.
func (e *Engine) toolState() *session.ToolState {
	st := e.input.Style
	return &session.ToolState{
		Color:          st.Color,
		Thickness:      st.Thickness,
		EraserKind:     st.EraserKind,
		EraserMode:     st.EraserMode,
		EraserSize:     st.EraserSize,
		MarkerOpacity:  st.MarkerOpacity,
		Font:           st.Font,
		FontSize:       st.FontSize,
		TextBackground: st.TextBackground,
		FillEnabled:    st.FillEnabled,
	}
}
