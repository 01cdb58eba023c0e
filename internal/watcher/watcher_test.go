package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caseboard/caseboard/internal/watcher"
)

func TestWatcher_WriteTriggersCallback(t *testing.T) {
	dir := t.TempDir()

	var called atomic.Int32
	w, err := watcher.New([]string{dir}, func() { called.Add(1) }, watcher.WithFiles("cards.yml"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "cards.yml"), []byte("cards: []\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for called.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if called.Load() == 0 {
		t.Fatal("callback not invoked after write")
	}
}

// TestWatcher_CancelWithPendingDebounce verifies context cancel with a
// pending debounce timer doesn't hang or panic.
func TestWatcher_CancelWithPendingDebounce(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.New([]string{dir}, func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, nil)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "cards.yml"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel with pending debounce")
	}
}

func TestWatcher_NewWithInvalidPath(t *testing.T) {
	_, err := watcher.New([]string{t.TempDir(), "/nonexistent/path"}, func() {})
	if err == nil {
		t.Fatal("expected error when one path is invalid")
	}
}

func TestWatcher_CloseStopsRun(t *testing.T) {
	w, err := watcher.New([]string{t.TempDir()}, func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Run(context.Background(), nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
