// Package cachelock implements the cache-root advisory lockfile (spec §5):
// acquired at startup, released at shutdown, so that no two engine
// instances operate on the same cache simultaneously.
package cachelock

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock holds an advisory flock on a cache root's lockfile.
type Lock struct {
	file *os.File
}

// Acquire opens (creating if necessary) the lockfile at path and takes an
// exclusive, non-blocking advisory lock on it. Returns an error if another
// process already holds it.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lockfile: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire lock on %s: another chariot run appears to be using this cache: %w", path, err)
	}

	return &Lock{file: f}, nil
}

// Release unlocks and closes the lockfile.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("release lock: %w", err)
	}
	return l.file.Close()
}
