package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireLock takes an exclusive file lock guarding against concurrent runs.
// Two processes writing summaries to the same server would race each other's
// strip-and-append edits, so a run refuses to start while another holds the
// lock. The returned release function also removes the lock file.
func AcquireLock(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create lock directory: %w", err)
	}

	fileLock := flock.New(path)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("pipeline: acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("pipeline: another run is already in progress (lock held at %s)", path)
	}

	release := func() {
		_ = fileLock.Unlock()
		_ = os.Remove(path)
	}
	return release, nil
}
