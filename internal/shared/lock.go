package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// InstanceLock guards the audio device so only one player runs per lock file.
type InstanceLock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the lock at path without blocking.
//
// Returns [ErrAlreadyRunning] when another process holds it.
func AcquireLock(path string) (*InstanceLock, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create lock directory: %w", err)
		}
	}

	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: lock held at %s", ErrAlreadyRunning, path)
	}
	return &InstanceLock{path: path, lock: l}, nil
}

// Path returns the lock file location.
func (l *InstanceLock) Path() string { return l.path }

// Release unlocks and removes the lock file.
func (l *InstanceLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	_ = os.Remove(l.path)
	return nil
}
