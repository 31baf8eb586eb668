// Package filelock serializes writers of link targets, archives and stats files
// across concurrent pathfind runs, and writes result files atomically.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when a lock could not be acquired in time.
var ErrLockTimeout = errors.New("lock timeout")

const retryDelay = 50 * time.Millisecond

// FileLock is an advisory lock backed by a lock file.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a lock on path. The lock file is created on first use.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock blocks until the exclusive lock is held.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock acquires the lock without blocking. It returns false when another
// process holds it.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// LockWithTimeout retries the lock until it is held or timeout elapses. A
// non-positive timeout blocks like Lock.
func (fl *FileLock) LockWithTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fl.Lock()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	acquired, err := fl.flock.TryLockContext(ctx, retryDelay)
	if acquired {
		return nil
	}
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s held for more than %s", ErrLockTimeout, fl.path, timeout)
	}
	return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Acquire takes an exclusive lock on path, creating its parent directory if
// needed, and returns a release function that unlocks and removes the lock
// file. It matches the linker's lock hook.
func Acquire(path string) (release func() error, err error) {
	return AcquireTimeout(path, 0)
}

// AcquireTimeout is Acquire with a bounded wait; see LockWithTimeout.
func AcquireTimeout(path string, timeout time.Duration) (release func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for lock %s: %w", path, err)
	}

	lock := NewFileLock(path)
	if err := lock.LockWithTimeout(timeout); err != nil {
		return nil, err
	}

	return func() error {
		if err := lock.Unlock(); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove lock file %s: %w", path, err)
		}
		return nil
	}, nil
}

// AtomicWrite replaces path with data. The content is staged in a temporary
// file in the same directory and renamed over path, so readers see either the
// old file or the complete new one.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// LockAndWrite writes path atomically while holding <path>.lock.
func LockAndWrite(path string, data []byte) error {
	return LockAndWriteTimeout(path, data, 0)
}

// LockAndWriteTimeout is LockAndWrite with a bounded wait for the lock.
func LockAndWriteTimeout(path string, data []byte, timeout time.Duration) error {
	release, err := AcquireTimeout(path+".lock", timeout)
	if err != nil {
		return err
	}
	defer release()

	return AtomicWrite(path, data)
}
