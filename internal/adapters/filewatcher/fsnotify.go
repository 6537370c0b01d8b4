// Package filewatcher provides corpus change monitoring.
// Clean Architecture: Adapter implementing ports.CorpusWatcher.
package filewatcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FSNotifyWatcher implements ports.CorpusWatcher using fsnotify. It
// watches the corpus file's directory because the crawler publishes the
// file by rename, which replaces the inode a direct file watch follows.
type FSNotifyWatcher struct {
	watcher *fsnotify.Watcher
}

// NewFSNotifyWatcher creates a new corpus watcher.
func NewFSNotifyWatcher() (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FSNotifyWatcher{watcher: w}, nil
}

// Watch starts monitoring the corpus file and emits one signal per
// create or write of that file.
func (w *FSNotifyWatcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	if err := w.watcher.Add(filepath.Dir(path)); err != nil {
		return nil, err
	}

	target := filepath.Base(path)
	signals := make(chan struct{}, 1)

	go func() {
		defer close(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				// Coalesce: a pending signal is enough.
				select {
				case signals <- struct{}{}:
				default:
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return signals, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}
