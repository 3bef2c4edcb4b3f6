package graphfile

import (
	"context"
	"path/filepath"
	"time"

	"graphedit/domain/core/aggregates"
	pkgerrors "graphedit/pkg/errors"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc receives each reloaded graph together with its read diagnostics
type ReloadFunc func(g *aggregates.Graph, err error)

// Watcher reloads a graph file whenever it is written or recreated.
// The containing directory is watched so editors that save by rename are seen.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching the directory holding path
func NewWatcher(store *Store, path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(store.Path(path))
	if err != nil {
		return nil, pkgerrors.NewIOError("resolve watched path", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, pkgerrors.NewIOError("create file watcher", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, pkgerrors.NewIOError("watch directory", err).WithDetail("path", filepath.Dir(abs))
	}

	logger.Info("Watching graph file", zap.String("path", abs))
	return &Watcher{
		store:    store,
		path:     abs,
		debounce: debounce,
		logger:   logger,
		watcher:  fsWatcher,
	}, nil
}

// Run delivers reloads to fn until ctx is cancelled. fn runs on the
// caller's goroutine, one reload at a time.
func (w *Watcher) Run(ctx context.Context, fn ReloadFunc) error {
	defer w.watcher.Close()

	// Debounce timer to avoid multiple rapid reloads
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Clean(event.Name) != w.path {
				continue
			}
			w.logger.Debug("Graph file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			g, err := w.store.Load(ctx, w.path)
			w.logger.Info("Graph file reloaded",
				zap.String("path", w.path),
				zap.Int("nodes", g.NodeCount()),
				zap.Int("edges", g.EdgeCount()),
				zap.Bool("clean", err == nil),
			)
			fn(g, err)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-ctx.Done():
			w.logger.Info("Stopping graph watcher")
			return nil
		}
	}
}

// Close stops watching without waiting for Run
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
