// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatalErrnos are the inotify failure modes that end a session: once the
// kernel refuses new watches, live reload cannot work and restarting the
// loop would refuse them again.
//   - ENOSPC: fs.inotify.max_user_watches exhausted
//   - EMFILE: per-process file descriptor limit
//   - ENFILE: system-wide file descriptor limit
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}

func isFatalWatchError(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
