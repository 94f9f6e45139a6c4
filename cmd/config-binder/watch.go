package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watcher reruns generation when Go sources or the config file change.
type watcher struct {
	fs         *fsnotify.Watcher
	configPath string
	output     string
	debounce   time.Duration
	logger     *zap.Logger
}

func newWatcher(dirs []string, configPath, output string, logger *zap.Logger) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch directories, not files, so atomic saves (rename over) are seen.
	for _, dir := range append([]string{filepath.Dir(configPath)}, dirs...) {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return &watcher{
		fs:         fs,
		configPath: filepath.Clean(configPath),
		output:     filepath.Clean(output),
		debounce:   200 * time.Millisecond,
		logger:     logger,
	}, nil
}

// relevant reports whether ev should trigger a rebuild. Writes into the
// output directory never do.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	name := filepath.Clean(ev.Name)
	if filepath.Dir(name) == w.output {
		return false
	}

	if name == w.configPath {
		return true
	}

	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

// run calls rebuild after each burst of relevant changes until ctx is done.
func (w *watcher) run(ctx context.Context, rebuild func()) error {
	defer w.fs.Close()

	fire := make(chan struct{}, 1)

	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			if !w.relevant(ev) {
				continue
			}

			w.logger.Debug("change detected", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))

			if timer != nil {
				timer.Stop()
			}

			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			rebuild()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}
