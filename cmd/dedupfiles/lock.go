package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// runLock keeps two deleting runs of the same user from racing each other
type runLock struct {
	flock *flock.Flock
	path  string
}

// defaultLockPath returns the per-user lock file location
func defaultLockPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("dedupfiles-%d.lock", os.Getuid()))
}

func newRunLock(path string) *runLock {
	return &runLock{flock: flock.New(path), path: path}
}

// acquire takes the lock without blocking
func (l *runLock) acquire() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !acquired {
		return fmt.Errorf("another dedupfiles run holds %s", l.path)
	}
	return nil
}

// release unlocks
func (l *runLock) release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
