package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration file whenever it is written, created or
// renamed into place.
type Watcher struct {
	path string
}

// NewWatcher watches path, or DefaultPath when path is empty.
func NewWatcher(path string) (*Watcher, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return &Watcher{path: abs}, nil
}

func (w *Watcher) Path() string { return w.path }

// Watch delivers every successfully reloaded configuration on changes until
// ctx is done. Invalid files are logged and skipped. errs receives
// unrecoverable watcher failures.
func (w *Watcher) Watch(ctx context.Context) (changes <-chan *Config, errs <-chan error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Debug("config: watching %s", dir)

	changesCh := make(chan *Config, 1)
	errorsCh := make(chan error, 1)

	go func() {
		defer close(changesCh)
		defer close(errorsCh)
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					errorsCh <- fmt.Errorf("watcher events channel closed unexpectedly")
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}

				cfg, err := Load(w.path)
				if err != nil {
					logger.Warn("config: reload of %s failed: %v", w.path, err)
					continue
				}

				// Keep only the newest pending configuration.
				select {
				case <-changesCh:
				default:
				}
				changesCh <- cfg

			case err, ok := <-watcher.Errors:
				if !ok {
					errorsCh <- fmt.Errorf("watcher errors channel closed unexpectedly")
					return
				}
				logger.Warn("config: watcher error: %v", err)
			}
		}
	}()

	return changesCh, errorsCh, nil
}
