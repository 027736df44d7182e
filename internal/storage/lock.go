//go:build unix

package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout is how long Update and View wait for another bm process.
const LockTimeout = 2 * time.Second

// fileLock is an advisory exclusive flock on a sibling "<db>.lock" file.
//
// The lock file is never removed: unlinking it while another process waits
// would let the two processes lock different inodes.
type fileLock struct {
	file *os.File
}

func lockPath(dbPath string) string {
	return dbPath + ".lock"
}

// acquireLock takes an exclusive lock for dbPath, polling until timeout.
func acquireLock(dbPath string, timeout time.Duration) (*fileLock, error) {
	path := lockPath(dbPath)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	backoff := time.Millisecond

	for {
		err := flockRetryEINTR(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &fileLock{file: file}, nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) {
			_ = file.Close()
			return nil, fmt.Errorf("flock %s: %w", path, err)
		}

		if time.Now().After(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}

		time.Sleep(backoff)
		backoff = min(backoff*2, 25*time.Millisecond)
	}
}

// release unlocks and closes the lock file. Safe to call more than once.
func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}

	unlockErr := flockRetryEINTR(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlocking database: %w", unlockErr)
	}
	if closeErr != nil {
		closeErr = fmt.Errorf("closing lock file: %w", closeErr)
	}
	return errors.Join(unlockErr, closeErr)
}

func flockRetryEINTR(fd int, how int) error {
	for {
		err := unix.Flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
