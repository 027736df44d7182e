//go:build !unix

package storage

import "time"

// LockTimeout is how long Update and View wait for another bm process.
const LockTimeout = 2 * time.Second

// fileLock is a no-op where flock is unavailable; concurrent saves are
// last-writer-wins there.
type fileLock struct{}

func lockPath(dbPath string) string {
	return dbPath + ".lock"
}

func acquireLock(string, time.Duration) (*fileLock, error) {
	return &fileLock{}, nil
}

func (*fileLock) release() error {
	return nil
}
