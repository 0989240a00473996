package dataset

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the event bursts editors produce when saving.
const debounceDelay = 200 * time.Millisecond

// Watcher reloads a dataset file whenever it changes on disk, so
// long-running servers pick up table edits without a restart.
type Watcher struct {
	path      string
	onLoad    func(*Dataset)
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts watching path and invokes onLoad with each successfully
// reloaded dataset. Reload failures are logged and skipped, leaving the
// previous table in place. onLoad runs on a watcher goroutine and must be
// safe to call concurrently with the rest of the program.
func Watch(path string, onLoad func(*Dataset)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	// Watch the directory rather than the file: editors often replace the
	// file instead of writing it in place, which drops a file-level watch.
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		path:    path,
		onLoad:  onLoad,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var pending *time.Timer
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounceDelay, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("dataset: watcher error", "error", err)
		case <-w.done:
			if pending != nil {
				pending.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	ds, err := Load(w.path)
	if err != nil {
		slog.Warn("dataset: reload failed", "path", w.path, "error", err)
		return
	}
	slog.Info("dataset: reloaded", "path", w.path, "declarations", len(ds.Relationships))
	w.onLoad(ds)
}

// Close stops the watcher. Reloads already in flight may still complete.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
