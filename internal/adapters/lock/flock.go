// Package lock serializes runs against one workspace with an advisory file lock.
package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

var _ ports.Locker = (*FileLocker)(nil)

// FileLocker implements ports.Locker with flock(2).
type FileLocker struct{}

// NewFileLocker creates a new FileLocker.
func NewFileLocker() *FileLocker {
	return &FileLocker{}
}

// Lock takes an exclusive, non-blocking lock on path, creating the file if needed.
// The holder's pid is written into the file for operators.
func (l *FileLocker) Lock(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create lock directory"), "path", path)
	}

	//nolint:gosec // lock path is derived from the workspace root
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, domain.PrivateFilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open lock file"), "path", path)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, zerr.With(domain.ErrWorkspaceLocked, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to acquire lock"), "path", path)
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	released := false
	return func() error {
		if released {
			return nil
		}
		released = true
		unlockErr := unix.Flock(int(f.Fd()), unix.LOCK_UN)
		return errors.Join(unlockErr, f.Close())
	}, nil
}
