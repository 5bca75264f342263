// Package watch triggers rebuilds when template files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/worksheet-go/infrastructure/logging"
)

// DefaultDebounce collapses event bursts such as editor save sequences.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the changed paths after each quiet period.
type Handler func(ctx context.Context, changed []string) error

// Watcher watches directory trees for changes.
type Watcher struct {
	paths    []string
	debounce time.Duration
}

// New creates a watcher over paths. Directories are watched recursively.
func New(paths []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{paths: paths, debounce: debounce}
}

// Run blocks until ctx is done, calling h after each debounced burst of
// changes. A handler error is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	if len(w.paths) == 0 {
		return errors.New("no paths to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	for _, p := range w.paths {
		if err := addTree(fw, p); err != nil {
			return err
		}
	}
	logging.Info().Add(logging.Count(len(w.paths))).Msg("watching for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fw, event.Name); err != nil {
						logging.Warn().Add(logging.Path(event.Name)).Add(logging.ErrorField(err)).Msg("watch new directory")
					}
				}
			}
			logging.Debug().Add(logging.Path(event.Name)).Add(logging.Str("op", event.Op.String())).Msg("change detected")
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.Warn().Add(logging.ErrorField(err)).Msg("watch error")

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			if err := h(ctx, changed); err != nil {
				logging.Error().Add(logging.ErrorField(err)).Msg("rebuild failed")
			}
		}
	}
}

func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
