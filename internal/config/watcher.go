package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/wayscriber/internal/logger"
)

// Watcher reloads the config file when the external configurator
// rewrites it. Parsed configs arrive on Updates; malformed writes are
// logged and skipped so the running overlay keeps its last good
// config.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	updates chan *Config
	cancel  context.CancelFunc
}

// NewWatcher watches the directory containing path. Watching the
// directory rather than the file survives rename-based atomic writes.
func NewWatcher(path string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    path,
		fs:      fs,
		updates: make(chan *Config, 1),
		cancel:  cancel,
	}
	go w.loop(ctx)
	return w, nil
}

// Updates delivers each successfully reloaded config.
func (w *Watcher) Updates() <-chan *Config { return w.updates }

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	return w.fs.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	log := logger.WithComponent("config")
	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, w.reload)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func (w *Watcher) reload() {
	log := logger.WithComponent("config")
	cfg, err := Load(w.path)
	if err != nil {
		log.Warn().Err(err).Str("path", w.path).Msg("config reload failed, keeping previous")
		return
	}
	// Replace any undelivered update with the newest one.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	log.Info().Str("path", w.path).Msg("config reloaded")
}
