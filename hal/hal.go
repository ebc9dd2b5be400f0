package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// ErrReleased is returned when a region is released more than once.
var ErrReleased = errors.New("hal: region already released")

// Region is an owned, page-aligned block of memory backing one context stack.
//
// The lowest GuardBytes of the mapping are inaccessible where the platform
// supports it; touching them faults the process.
type Region interface {
	// Bytes returns the usable part of the region (everything above the guard).
	Bytes() []byte
	// GuardBytes is the size of the inaccessible bottom page, or 0.
	GuardBytes() int
	// Len is the total mapped size including the guard.
	Len() int
	// Release returns the region to the platform. It may only succeed once.
	Release() error
}

// Memory hands out stack regions.
type Memory interface {
	PageSize() int
	// MapStack reserves at least size bytes, rounded up to whole pages, with a
	// guard page at the bottom. The result is never smaller than two pages.
	MapStack(size int) (Region, error)
}

// HAL provides the only contact point between the runtime and the outside world.
type HAL interface {
	Logger() Logger
	Memory() Memory
}

// StackLen returns the mapping length MapStack uses for a request of size bytes.
func StackLen(size, page int) int {
	if page <= 0 {
		page = 4096
	}
	if size < 2*page {
		return 2 * page
	}
	return (size + page - 1) / page * page
}
