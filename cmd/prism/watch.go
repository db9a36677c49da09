package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 150 * time.Millisecond

// watchAndRun runs r once and then again whenever the module or options
// file changes, until ctx is cancelled. The parent directories are watched
// so editors that replace files on save are still seen.
func watchAndRun(ctx context.Context, r *runner) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	files := watchedFiles(r.input, r.configPath)
	dirs := map[string]bool{}
	for f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	rerun := func() {
		if err := r.run(ctx); err != nil && err != errSanitizeFailed {
			r.logger.Error("%v", err)
		}
	}
	rerun()

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if relevant(ev, files) {
				r.logger.Debug("change: %s", ev)
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch: %v", err)
		case <-timer.C:
			r.logger.Info("re-running after change")
			rerun()
		}
	}
}

func watchedFiles(paths ...string) map[string]bool {
	files := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		files[filepath.Clean(p)] = true
	}
	return files
}

func relevant(ev fsnotify.Event, files map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := ev.Name
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	return files[filepath.Clean(name)]
}
