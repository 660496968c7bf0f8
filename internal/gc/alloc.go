package gc

import "github.com/sirupsen/logrus"

// Alloc returns the address of a zeroed, word-aligned object of the
// given size in words (header word included — see runtime.WordCount),
// carved from the top of to-space. It performs one incremental work
// quantum first, then, if the free region can't satisfy the request,
// drains all grey work and flips before trying again. Fails with an
// *OOMError if the request still can't be satisfied after a flip — this
// collector never grows the heap.
//
// Sizes are expressed in machine words rather than raw bytes: an
// allocation request of n bytes is always words*W for the fixed word
// size W, so every size/OOM relationship still holds — this module
// just never needs to address a sub-word byte offset, and
// word-granular slices are the idiomatic Go way to avoid raw
// byte-pointer arithmetic over a shared buffer.
func (h *Heap) Alloc(words int) (Ref, error) {
	if err := h.quantum(); err != nil {
		return NullRef, err
	}

	size := uintptr(words) * wordSize
	if h.limit-h.next < size {
		if h.scan != h.next {
			if _, err := h.ForceCopyAll(); err != nil {
				return NullRef, err
			}
		}
		if err := h.flip(); err != nil {
			return NullRef, err
		}
		if h.limit-h.next < size {
			return NullRef, h.oom(int(size))
		}
	}

	h.limit -= size
	for w := uintptr(0); w < uintptr(words); w++ {
		storeWord(h.limit+w*wordSize, 0)
	}

	h.stats.TotalAllocatedBytes += int(size)
	h.stats.TotalAllocatedObjects++
	h.bumpResidency(int(size))

	h.logTrace("alloc", logrus.Fields{"words": words, "addr": uintptr(h.limit)})
	return Ref(h.limit), nil
}

func (h *Heap) oom(requested int) error {
	dump := h.dumpState()
	h.logError("out_of_memory", logrus.Fields{"requested_bytes": requested})
	return &OOMError{Requested: requested, Dump: dump}
}
