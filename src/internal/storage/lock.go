package storage

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// fileLock is an advisory flock(2) lock on a side file next to the data file.
type fileLock struct {
	file *os.File
}

func acquireLock(path string, exclusive bool) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}
	for {
		err = unix.Flock(int(file.Fd()), how)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	return &fileLock{file: file}, nil
}

func (l *fileLock) release() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("failed to unlock: %w", err)
	}
	return l.file.Close()
}
