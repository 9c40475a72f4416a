package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/davitacols/ansa-fs/internal/config"
)

// Watcher re-runs an analysis whenever the watched tree changes.
// Filesystem events arrive in bursts (editors write temp files, then
// rename), so changes are debounced before the callback fires.
type Watcher struct {
	config   *config.Config
	logger   *zap.Logger
	onChange func(ctx context.Context) error
}

// New creates a watcher. onChange runs after each debounced burst of
// change events; an error from it stops the watch loop.
func New(cfg *config.Config, logger *zap.Logger, onChange func(ctx context.Context) error) *Watcher {
	return &Watcher{
		config:   cfg,
		logger:   logger,
		onChange: onChange,
	}
}

// Run watches root until the context is cancelled. Every directory in
// the tree is registered individually; directories created while
// watching are added as their create events arrive.
func (w *Watcher) Run(ctx context.Context, root string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addTree(fw, root); err != nil {
		return err
	}

	debounce := time.Duration(w.config.WatchDebounceMs) * time.Millisecond
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.ignored(filepath.Base(event.Name)) {
				continue
			}
			w.logger.Debug("Filesystem event",
				zap.String("op", event.Op.String()),
				zap.String("path", event.Name))

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, event.Name); err != nil {
						w.logger.Warn("Cannot watch new directory",
							zap.String("path", event.Name), zap.Error(err))
					}
				}
			}

			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-timer.C:
			pending = false
			w.logger.Info("Change detected, re-running analysis")
			if err := w.onChange(ctx); err != nil {
				return err
			}
		}
	}
}

// addTree registers root and every non-ignored directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("Cannot descend while watching", zap.String("path", path), zap.Error(err))
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(d.Name()) {
			return fs.SkipDir
		}
		return fw.Add(path)
	})
}

func (w *Watcher) ignored(name string) bool {
	return w.config.ShouldIgnoreDir(name)
}
