package gc

import "unsafe"

// semispace is one of the collector's two fixed-size buffers. Exactly
// one of the Heap's two semispaces is "to" (the active allocation
// target) at any moment; flip swaps the roles by swapping which
// semispace the to/from pointers reference, never by moving memory —
// the same trick a static to_space/from_space pointer swap plays in a
// C-style implementation of the same collector.
type semispace struct {
	base    uintptr
	size    int
	buf     []byte // keeps the backing memory reachable and alive
	release func()
}

func newSemispace(sizeBytes int) (*semispace, error) {
	buf, release, err := newSemispaceBuffer(sizeBytes)
	if err != nil {
		return nil, err
	}
	return &semispace{
		base:    uintptr(unsafe.Pointer(&buf[0])),
		size:    sizeBytes,
		buf:     buf,
		release: release,
	}, nil
}

func (s *semispace) Close() {
	if s.release != nil {
		s.release()
	}
}
