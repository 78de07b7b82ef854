// Package export resolves finished captures into their destinations:
// a timestamped PNG in the screenshot directory or a clipboard write.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wayscriber/internal/clipboard"
	"github.com/example/wayscriber/internal/logger"
	"github.com/example/wayscriber/internal/notify"
)

const filenameStamp = "20060102-150405"

// Exporter writes annotated captures out. Notifier may be nil, in
// which case completion is only logged.
type Exporter struct {
	Dir      string
	Notifier *notify.Notifier

	// WindowShadow composites a drop shadow under window captures
	// before encoding.
	WindowShadow bool

	log *zerolog.Logger
}

// New returns an Exporter saving into dir. An empty dir falls back to
// DefaultDir.
func New(dir string, notifier *notify.Notifier) *Exporter {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Exporter{
		Dir:      dir,
		Notifier: notifier,
		log:      logger.WithComponent("export"),
	}
}

// DefaultDir resolves the screenshot directory: XDG_PICTURES_DIR, then
// ~/Pictures, then the working directory.
func DefaultDir() string {
	if dir := os.Getenv("XDG_PICTURES_DIR"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Pictures")
	}
	return "."
}

// SaveFile encodes img as PNG under the exporter directory using a
// timestamped name and returns the absolute path written.
func (e *Exporter) SaveFile(img image.Image, now time.Time) (string, error) {
	path, err := e.save(img, now)
	if err != nil {
		e.log.Error().Err(err).Msg("screenshot save failed")
		if e.Notifier != nil {
			e.Notifier.CaptureFailed(err.Error())
		}
		return "", err
	}
	e.log.Info().Str("path", path).Msg("screenshot saved")
	if e.Notifier != nil {
		e.Notifier.CaptureSaved(path)
	}
	return path, nil
}

func (e *Exporter) save(img image.Image, now time.Time) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("nothing to save")
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot directory %q: %w", e.Dir, err)
	}
	path, err := e.nextPath(now)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write PNG to %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// nextPath picks the first unused timestamped name, suffixing a
// counter when several captures land in the same second.
func (e *Exporter) nextPath(now time.Time) (string, error) {
	stamp := now.Format(filenameStamp)
	for i := 0; i < 100; i++ {
		name := fmt.Sprintf("wayscriber-%s.png", stamp)
		if i > 0 {
			name = fmt.Sprintf("wayscriber-%s-%d.png", stamp, i+1)
		}
		path := filepath.Join(e.Dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		} else if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("stat %q: %w", path, err)
		}
	}
	return "", fmt.Errorf("no free screenshot name for stamp %s", stamp)
}

// CopyClipboard places img on the clipboard as PNG. detail names the
// capture in the notification, for example "screen" or "selection".
func (e *Exporter) CopyClipboard(img image.Image, detail string) error {
	if img == nil || img.Bounds().Empty() {
		err := fmt.Errorf("nothing to copy")
		if e.Notifier != nil {
			e.Notifier.CaptureFailed(err.Error())
		}
		return err
	}
	if detail == "" {
		detail = "capture"
	}
	if err := clipboard.WriteImage(img); err != nil {
		e.log.Error().Err(err).Msg("clipboard copy failed")
		if e.Notifier != nil {
			e.Notifier.CaptureFailed(err.Error())
		}
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	e.log.Info().Str("detail", detail).Msg("capture copied to clipboard")
	if e.Notifier != nil {
		e.Notifier.CaptureCopied(detail, img)
	}
	return nil
}

// Decorate applies the configured post-processing for a window capture.
func (e *Exporter) Decorate(img *image.RGBA) *image.RGBA {
	if !e.WindowShadow || img == nil {
		return img
	}
	return ApplyShadow(img, DefaultShadowOptions())
}
