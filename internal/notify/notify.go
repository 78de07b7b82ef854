// Package notify sends desktop notifications for overlay events. All
// sends are fire-and-forget; a failing notification daemon never
// blocks the event loop.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/wayscriber/internal/logger"
	"github.com/example/wayscriber/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCaptureSaved fires when a screenshot lands on disk.
	EventCaptureSaved Event = "capture_saved"
	// EventCaptureCopied fires when a screenshot reaches the clipboard.
	EventCaptureCopied Event = "capture_copied"
	// EventCaptureFailed fires when screencopy is abandoned after
	// retries.
	EventCaptureFailed Event = "capture_failed"
	// EventAutosaveFailed fires once per failure episode when session
	// autosave keeps failing.
	EventAutosaveFailed Event = "autosave_failed"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Wayscriber",
		Events: map[Event]EventPreference{
			EventCaptureSaved:   {Template: "Saved %s"},
			EventCaptureCopied:  {Template: "Copied %s to clipboard"},
			EventCaptureFailed:  {Template: "Screen capture failed: %s"},
			EventAutosaveFailed: {Template: "Session autosave failing: %s"},
		},
	}
}

// Notifier sends OS-level notifications based on the configured
// preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event enabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	enabled := make(map[Event]bool, len(prefs.Events))
	for k, v := range prefs.Events {
		cloned.Events[k] = v
		enabled[k] = true
	}
	return &Notifier{prefs: cloned, enabled: enabled}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// CaptureSaved announces a written screenshot, using the file itself
// as the notification icon when it exists.
func (n *Notifier) CaptureSaved(path string) {
	if !n.enabledFor(EventCaptureSaved) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventCaptureSaved, detail, opts)
}

// CaptureCopied announces a clipboard export with an optional preview.
func (n *Notifier) CaptureCopied(detail string, img image.Image) {
	if !n.enabledFor(EventCaptureCopied) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			logger.WithComponent("notify").Warn().Err(err).Msg("notification preview failed")
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCaptureCopied, detail, opts)
}

// CaptureFailed announces an abandoned screencopy.
func (n *Notifier) CaptureFailed(reason string) {
	n.dispatch(EventCaptureFailed, reason, platform.Options{Urgency: platform.UrgencyCritical})
}

// AutosaveFailed announces a persistent autosave failure.
func (n *Notifier) AutosaveFailed(reason string) {
	n.dispatch(EventAutosaveFailed, reason, platform.Options{Urgency: platform.UrgencyCritical})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	pref, ok := n.prefs.Events[event]
	if !ok || strings.TrimSpace(pref.Template) == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(pref.Template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := platform.Notify(n.prefs.Title, body, opts); err != nil {
		logger.WithComponent("notify").Warn().Err(err).Str("event", string(event)).Msg("notification failed")
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "wayscriber-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.WithComponent("notify").Warn().Err(err).Msg("remove preview failed")
		}
	}
	return path, cleanup, nil
}
