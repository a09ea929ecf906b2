// Package lock provides shared advisory locks on input files.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds an exclusive lock on the file.
var ErrLocked = errors.New("file is locked by another process")

// Flocker abstracts the subset of flock.Flock used for shared locking.
type Flocker interface {
	TryRLock() (bool, error)
	Unlock() error
}

// Lock wraps a Flocker to provide fail-fast shared locking.
type Lock struct {
	flocker Flocker
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f}
}

// NewFromPath creates a Lock backed by the file at path. The lock file is
// opened read-only so that read-only inputs can be locked and nothing is
// created on disk.
func NewFromPath(path string) *Lock {
	return New(flock.New(path, flock.SetFlag(os.O_RDONLY)))
}

// TryRLock attempts a non-blocking shared lock acquisition. It returns
// ErrLocked if an exclusive lock is held elsewhere, or wraps any underlying
// error from the Flocker.
func (l *Lock) TryRLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := l.flocker.TryRLock()
	if err != nil {
		return fmt.Errorf("acquiring shared lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}
