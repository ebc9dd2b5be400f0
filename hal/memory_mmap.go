//go:build !tinygo && (linux || darwin || freebsd || netbsd || openbsd)

package hal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func newHostMemory() Memory {
	return mmapMemory{page: unix.Getpagesize()}
}

// mmapMemory maps anonymous private regions and protects the bottom page.
type mmapMemory struct {
	page int
}

func (m mmapMemory) PageSize() int { return m.page }

func (m mmapMemory) MapStack(size int) (Region, error) {
	n := StackLen(size, m.page)
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap stack of %d bytes: %w", n, err)
	}
	if err := unix.Mprotect(b[:m.page], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(b)
		return nil, fmt.Errorf("protect guard page: %w", err)
	}
	return &mmapRegion{b: b, guard: m.page}, nil
}

type mmapRegion struct {
	b     []byte
	guard int
}

func (r *mmapRegion) Bytes() []byte {
	if r.b == nil {
		return nil
	}
	return r.b[r.guard:]
}

func (r *mmapRegion) GuardBytes() int { return r.guard }
func (r *mmapRegion) Len() int        { return len(r.b) }

func (r *mmapRegion) Release() error {
	if r.b == nil {
		return ErrReleased
	}
	b := r.b
	r.b = nil
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("munmap stack: %w", err)
	}
	return nil
}
