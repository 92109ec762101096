// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// lockMode selects a shared or exclusive record lock.
type lockMode int16

const (
	shared    lockMode = unix.F_RDLCK
	exclusive lockMode = unix.F_WRLCK
)

func (m lockMode) String() string {
	if m == exclusive {
		return "exclusive"
	}
	return "shared"
}

// lockFile blocks until it holds an OFD record lock of the given mode
// over the whole of file. The returned function releases the lock; the
// caller must invoke it before closing file.
func lockFile(file *os.File, mode lockMode) (func(), error) {
	request := unix.Flock_t{
		Type:   int16(mode),
		Whence: io.SeekStart,
		Start:  0,
		Len:    0, // to end of file, including future growth
	}

	for {
		err := unix.FcntlFlock(file.Fd(), unix.F_OFD_SETLKW, &request)
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return nil, fmt.Errorf("acquiring %s lock on %s: %w", mode, file.Name(), err)
	}

	return func() {
		release := unix.Flock_t{
			Type:   unix.F_UNLCK,
			Whence: io.SeekStart,
		}
		// Closing the file would release the lock anyway; an error
		// here leaves nothing for the caller to do.
		_ = unix.FcntlFlock(file.Fd(), unix.F_OFD_SETLK, &release)
	}, nil
}
