//go:build linux

package gc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// newSemispaceBuffer backs a semi-space with an anonymous mmap region,
// real page-granular OS memory rather than a Go-GC-managed slice. The
// Linux/other build-tag split keeps this platform-specific path
// isolated from the portable make([]byte) fallback.
func newSemispaceBuffer(size int) ([]byte, func(), error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap semispace of %d bytes: %w", size, err)
	}
	release := func() {
		_ = unix.Munmap(buf)
	}
	return buf, release, nil
}
