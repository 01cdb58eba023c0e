package filelock_test

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/caseboard/caseboard/internal/filelock"
)

func TestLockRelock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".lock")

	for i := range 2 {
		unlock, err := filelock.Lock(lockPath)
		if err != nil {
			t.Fatalf("Lock() #%d error: %v", i, err)
		}
		if err := unlock(); err != nil {
			t.Fatalf("unlock() #%d error: %v", i, err)
		}
	}
}

func TestLockMissingDir(t *testing.T) {
	if _, err := filelock.Lock(filepath.Join(t.TempDir(), "nope", ".lock")); err == nil {
		t.Error("expected error for lock in missing directory")
	}
}

func TestLockSerializesWriters(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".lock")

	var holders, overlaps atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := filelock.Lock(lockPath)
			if err != nil {
				t.Errorf("Lock() error: %v", err)
				return
			}
			if holders.Add(1) > 1 {
				overlaps.Add(1)
			}
			holders.Add(-1)
			if err := unlock(); err != nil {
				t.Errorf("unlock() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := overlaps.Load(); n > 0 {
		t.Errorf("lock held by more than one writer %d times", n)
	}
}
