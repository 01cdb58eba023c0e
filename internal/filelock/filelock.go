// Package filelock serializes writers of a board directory across processes
// with an advisory lock on a sidecar file.
package filelock

import (
	"fmt"
	"os"
)

// Lock blocks until it holds the exclusive lock on path, creating the file if
// needed. The returned function releases the lock.
func Lock(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // lock path built by the store
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	return func() error {
		uerr := unlockFile(f)
		cerr := f.Close()
		if uerr != nil {
			return fmt.Errorf("releasing lock: %w", uerr)
		}
		return cerr
	}, nil
}
