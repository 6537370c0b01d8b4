package filewatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFSNotifyWatcher_Creation(t *testing.T) {
	watcher, err := NewFSNotifyWatcher()
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()
}

func TestFSNotifyWatcher_SignalsCorpusWrite(t *testing.T) {
	dir, _ := os.MkdirTemp("", "watcher-test-*")
	defer os.RemoveAll(dir)
	corpusPath := filepath.Join(dir, "website_text.txt")

	watcher, _ := NewFSNotifyWatcher()
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	signals, err := watcher.Watch(ctx, corpusPath)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(corpusPath, []byte("New corpus text."), 0644)
	}()

	select {
	case <-signals:
		// Expected.
	case <-ctx.Done():
		t.Error("timeout waiting for corpus signal")
	}
}

func TestFSNotifyWatcher_IgnoresOtherFiles(t *testing.T) {
	dir, _ := os.MkdirTemp("", "watcher-test-*")
	defer os.RemoveAll(dir)

	watcher, _ := NewFSNotifyWatcher()
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	signals, _ := watcher.Watch(ctx, filepath.Join(dir, "website_text.txt"))

	os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("noise"), 0644)

	select {
	case <-signals:
		t.Error("should not signal for unrelated files")
	case <-time.After(300 * time.Millisecond):
		// Expected - no signal.
	}
}

func TestFSNotifyWatcher_SignalsRenamePublish(t *testing.T) {
	dir, _ := os.MkdirTemp("", "watcher-test-*")
	defer os.RemoveAll(dir)
	corpusPath := filepath.Join(dir, "website_text.txt")

	watcher, _ := NewFSNotifyWatcher()
	defer watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	signals, _ := watcher.Watch(ctx, corpusPath)

	// The crawler writes a temp file then renames it into place.
	go func() {
		time.Sleep(100 * time.Millisecond)
		tmp := filepath.Join(dir, ".website_text.txt.tmp-1")
		os.WriteFile(tmp, []byte("Published corpus."), 0644)
		os.Rename(tmp, corpusPath)
	}()

	select {
	case <-signals:
		// Expected.
	case <-ctx.Done():
		t.Error("timeout waiting for rename signal")
	}
}

func TestFSNotifyWatcher_Stop(t *testing.T) {
	watcher, _ := NewFSNotifyWatcher()
	if err := watcher.Stop(); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}
