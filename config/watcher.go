package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher hot-reloads a Config from its backing YAML file, for long-running
// reasoner processes that want to pick up a new step/time budget without a
// restart (SPEC_FULL §0 "Configuration").
type Watcher struct {
	mu        sync.RWMutex
	current   *Config
	path      string
	logger    *zap.Logger
	fsWatcher *fsnotify.Watcher
	callbacks []func(*Config)
}

// NewWatcher starts watching path for changes. If path is empty, the
// watcher is a no-op holder of the initial config (no file to watch).
func NewWatcher(path string, initial *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{current: initial, path: path, logger: logger}
	if path == "" {
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsWatcher = fsWatcher

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.loop()
	logger.Info("config hot reload enabled", zap.String("path", path))
	return w, nil
}

// Current returns the most recently loaded, validated Config.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after every successful reload.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := NewLoader(w.path).Load()
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.Strings("sources", cfg.LoadedFrom))
	for _, cb := range callbacks {
		cb(cfg)
	}
}
