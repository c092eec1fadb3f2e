package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileLock is an advisory exclusive lock held on an open lock file.
type fileLock struct {
	f *os.File
}

// acquireLock blocks until the lock at path is held by this process.
func acquireLock(path string) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) release() {
	unlockFile(l.f)
	l.f.Close()
}
