// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"fmt"
	"syscall"
	"testing"
)

func TestFatalWatchErrors(t *testing.T) {
	t.Parallel()

	// ERROR_TOO_MANY_OPEN_FILES, ERROR_INVALID_HANDLE, ERROR_NOT_ENOUGH_MEMORY.
	for _, errno := range []syscall.Errno{4, 6, 8} {
		if !isFatalWatchError(errno) {
			t.Errorf("isFatalWatchError(%v) = false, want true", errno)
		}
		wrapped := fmt.Errorf("fsnotify: %w", errno)
		if !isFatalWatchError(wrapped) {
			t.Errorf("isFatalWatchError(%v) should see through wrapping", wrapped)
		}
	}
}

func TestRecoverableWatchErrors(t *testing.T) {
	t.Parallel()

	// ERROR_ACCESS_DENIED and ERROR_FILE_NOT_FOUND recover on their own.
	for _, err := range []error{syscall.Errno(5), syscall.Errno(2), fmt.Errorf("transient hiccup")} {
		if isFatalWatchError(err) {
			t.Errorf("isFatalWatchError(%v) = true, want false", err)
		}
	}
}
