//go:build !linux

package gc

// newSemispaceBuffer backs a semi-space with plain Go-heap memory on
// platforms where anonymous mmap isn't wired up. The buffer is kept
// alive for the life of the semispace that references it, same
// guarantee the mmap path gives on Linux.
func newSemispaceBuffer(size int) ([]byte, func(), error) {
	return make([]byte, size), func() {}, nil
}
