// Package watch keeps a config resolver current while its file changes on
// disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/donaldgifford/fmtrc/internal/config"
)

// debounce coalesces the burst of events editors emit for a single save.
const debounce = 50 * time.Millisecond

// Watcher re-resolves a config file when it changes. Resolvers are
// immutable; a reload publishes a new one and never touches the old.
type Watcher struct {
	path    string
	loader  *config.Loader
	logger  *zap.Logger
	current atomic.Pointer[config.Resolver]

	// OnReload, if set, is called from Run after each successful reload.
	OnReload func(*config.Resolver)
}

// New resolves path once and returns a Watcher serving the result. Errors
// from the initial load are returned as is.
func New(path string, loader *config.Loader, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = config.NewLoader(logger)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	r, err := loader.Resolve(abs)
	if err != nil {
		return nil, err
	}

	w := &Watcher{path: abs, loader: loader, logger: logger}
	w.current.Store(r)
	return w, nil
}

// Current returns the most recently loaded resolver. Safe for concurrent use.
func (w *Watcher) Current() *config.Resolver {
	return w.current.Load()
}

// Run watches the config file until ctx is cancelled. The parent directory
// is watched rather than the file so that editors replacing the file by
// rename are seen. A failed reload is logged and the previous resolver
// stays current.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.logger.Info("watching config", zap.String("path", w.path))

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("config changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	r, err := w.loader.Resolve(w.path)
	if err != nil {
		w.logger.Warn("reloading config failed, keeping previous", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.current.Store(r)
	w.logger.Info("config reloaded",
		zap.String("path", w.path),
		zap.Stringer("options", r.Base()),
		zap.Int("overrides", r.Overrides()),
	)
	if w.OnReload != nil {
		w.OnReload(r)
	}
}
