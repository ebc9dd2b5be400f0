//go:build !tinygo && !(linux || darwin || freebsd || netbsd || openbsd)

package hal

import "os"

// Platforms without mmap/mprotect fall back to unguarded heap stacks.
func newHostMemory() Memory {
	return NewHeapMemory(os.Getpagesize())
}
