// Package buildlock provides an advisory cross-process file lock
// guaranteeing single-writer construction of a snapshot (spec §3.3,
// §5: "Single-writer per snapshot during construction"). A process-local
// Builder already rejects concurrent writers by reference; buildlock
// extends that guarantee across processes sharing one build directory
// (e.g. two astdbctl watch instances pointed at the same source tree),
// the same way the teacher guards concurrent sync operations on one
// .beads directory.
package buildlock

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrHeld is returned by TryAcquire when another process already holds
// the lock.
var ErrHeld = errors.New("buildlock: build already in progress")

// Lock wraps an advisory file lock rooted at a build directory.
type Lock struct {
	flock *flock.Flock
	path  string
}

// New returns a Lock for dir, using a fixed ".astdb-build.lock" file
// inside it (mirrors the teacher's ".sync.lock" convention).
func New(dir string) *Lock {
	path := filepath.Join(dir, ".astdb-build.lock")
	return &Lock{flock: flock.New(path), path: path}
}

// TryAcquire attempts to take the lock without blocking, returning
// ErrHeld if another process already holds it.
func (l *Lock) TryAcquire() error {
	locked, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("buildlock: acquiring %s: %w", l.path, err)
	}
	if !locked {
		return ErrHeld
	}
	return nil
}

// Acquire blocks, retrying every interval, until the lock is obtained or
// timeout elapses, for a caller that wants to wait for a concurrent build
// to finish rather than fail outright. astdbctl watch does not use it; it
// calls TryAcquire and exits if the lock is held.
func (l *Lock) Acquire(timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := l.TryAcquire()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrHeld) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("buildlock: timed out waiting for %s: %w", l.path, ErrHeld)
		}
		time.Sleep(interval)
	}
}

// Release unlocks and allows another process to acquire the lock.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("buildlock: releasing %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file's path, for diagnostics/logging.
func (l *Lock) Path() string { return l.path }
