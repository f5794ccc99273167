// Package filelock writes the output document atomically under an advisory
// lock so that concurrent runs targeting the same destination cannot
// interleave.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the output lock.
var ErrLocked = errors.New("output is locked by another process")

// OutputLock guards a single output path with "<path>.lock".
type OutputLock struct {
	flock *flock.Flock
	path  string
}

// NewOutputLock creates the lock for outputPath. Nothing touches the disk
// until Acquire is called.
func NewOutputLock(outputPath string) *OutputLock {
	lockPath := outputPath + ".lock"
	return &OutputLock{
		flock: flock.New(lockPath),
		path:  lockPath,
	}
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. Returns ErrLocked if it is held elsewhere.
func (l *OutputLock) Acquire() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", l.path, err)
	}
	if !acquired {
		return fmt.Errorf("%s: %w", l.path, ErrLocked)
	}
	return nil
}

// Release unlocks the lock. The lock file stays on disk so every process
// contends on the same inode.
func (l *OutputLock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// AtomicWrite replaces path with data using a temp file in the same
// directory followed by a rename. Readers never observe a partial document.
// An existing file keeps its permissions; new files are created 0644.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("output path %s is a directory", path)
		}
		mode = info.Mode().Perm()
	}

	tempFile, err := os.CreateTemp(dir, ".codeagg-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Clean up the temp file unless it was renamed into place
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
	if err := os.Chmod(tempPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// WriteDocument locks path, atomically replaces its contents and unlocks.
func WriteDocument(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	lock := NewOutputLock(path)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	return AtomicWrite(path, data)
}
