package main

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-doxs/internal/fileutil"
	"github.com/alnah/go-doxs/internal/logging"
)

// watchDebounce coalesces editor save bursts into one rebuild.
const watchDebounce = 150 * time.Millisecond

// watcher re-renders inputs under root when they change.
type watcher struct {
	root      string
	outputDir string
	exts      []string
	outExt    string
	log       logging.Logger
	debounce  time.Duration
	onChange  func([]FileToRender)
}

// run blocks until ctx is done. Directories created under root are
// watched as they appear.
func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Close()

	info, err := os.Stat(w.root)
	if err != nil {
		return err
	}
	baseDir := ""
	if info.IsDir() {
		baseDir = w.root
		if err := w.addTree(fw, w.root); err != nil {
			return err
		}
	} else if err := fw.Add(filepath.Dir(w.root)); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}

	delay := w.debounce
	if delay <= 0 {
		delay = watchDebounce
	}
	timer := time.NewTimer(delay)
	timer.Stop()
	pending := make(map[string]struct{})

	w.log.Info("watching", "path", w.root)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if baseDir != "" && !isHidden(ev.Name) {
					if err := w.addTree(fw, ev.Name); err != nil {
						w.log.Warn("watch add failed", "path", ev.Name, "error", err)
					}
				}
				continue
			}
			path, ok := w.relevant(ev)
			if !ok {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(delay)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)

		case <-timer.C:
			changed := make([]FileToRender, 0, len(pending))
			for path := range pending {
				changed = append(changed, FileToRender{
					InputPath:  path,
					OutputPath: resolveOutputPath(path, w.outputDir, baseDir, w.outExt),
				})
				delete(pending, path)
			}
			slices.SortFunc(changed, func(a, b FileToRender) int {
				return cmp.Compare(a.InputPath, b.InputPath)
			})
			w.log.Debug("rebuilding", "files", len(changed))
			w.onChange(changed)
		}
	}
}

// relevant reports whether ev should trigger a rebuild and of which file.
// Only writes and creates of matching, visible files count; a single-file
// root only matches itself.
func (w *watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	if isHidden(ev.Name) || !fileutil.HasExtension(ev.Name, w.exts) {
		return "", false
	}
	if info, err := os.Stat(w.root); err == nil && !info.IsDir() {
		if filepath.Clean(ev.Name) != filepath.Clean(w.root) {
			return "", false
		}
	}
	return ev.Name, true
}

// addTree watches dir and its visible subdirectories.
func (w *watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
