package site

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a
// rebuild fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher rebuilds the site when the docs tree or a local dictionary
// changes. Events inside the output directory are ignored.
type Watcher struct {
	fsw      *fsnotify.Watcher
	ignore   string
	debounce time.Duration
	logger   *log.Logger
	rebuild  func(ctx context.Context) error
}

// NewWatcher watches every directory under roots. Roots that do not exist
// are skipped.
func NewWatcher(roots []string, outputDir string, debounce time.Duration, logger *log.Logger, rebuild func(ctx context.Context) error) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	ignore, _ := filepath.Abs(outputDir)
	w := &Watcher{fsw: fsw, ignore: ignore, debounce: debounce, logger: logger, rebuild: rebuild}

	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		if err := w.addTree(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) || (path != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	if w.ignore == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == w.ignore || strings.HasPrefix(abs, w.ignore+string(filepath.Separator))
}

// Run processes events until ctx is cancelled. Rebuild errors are logged
// and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := 0

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("Watching new directory", "path", ev.Name, "error", err)
					}
				}
			}
			w.logger.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			pending++
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending == 0 {
				continue
			}
			w.logger.Info("Rebuilding site", "changes", pending)
			pending = 0
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("Rebuild failed", "error", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}
