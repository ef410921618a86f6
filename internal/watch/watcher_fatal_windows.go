// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// fatalErrnos are the Win32 codes from ReadDirectoryChangesW that end a
// session. There is no inotify-style watch limit on Windows, but handle
// exhaustion, a deleted watch root, or buffer allocation failure all leave
// the watcher unable to see further changes.
//   - 4 ERROR_TOO_MANY_OPEN_FILES: handle limit exhausted
//   - 6 ERROR_INVALID_HANDLE: the watched directory went away
//   - 8 ERROR_NOT_ENOUGH_MEMORY: no room for the notification buffer
var fatalErrnos = []syscall.Errno{
	syscall.Errno(4),
	syscall.Errno(6),
	syscall.Errno(8),
}

func isFatalWatchError(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
