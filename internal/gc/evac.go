package gc

import (
	"github.com/kestrel-lang/bakergc/internal/runtime"
	"github.com/sirupsen/logrus"
)

// shallowCopy places a byte-for-byte copy of o at next, advances next by
// size(o), and installs the forwarding pointer in o's first field. It
// does not touch any of o's other fields, so the copy is still "grey":
// its own fields may still reference from-space. Returns the copy's
// address and the number of words moved.
func (h *Heap) shallowCopy(o Ref) (Ref, int, error) {
	hdr := h.Header(o)
	words := runtime.WordCount(hdr)
	size := uintptr(words) * wordSize

	if h.next+size > h.limit {
		return NullRef, 0, h.oom(int(size))
	}

	dst := h.next
	for w := uintptr(0); w < uintptr(words); w++ {
		storeWord(dst+w*wordSize, loadWord(uintptr(o)+w*wordSize))
	}
	h.next += size
	h.bumpResidency(int(size))

	// Forwarding marker: o's first field, not dst's, now points at dst.
	h.setField(o, 0, Ref(dst))

	h.logTrace("shallow_copy", logrus.Fields{"from": uintptr(o), "to": uintptr(dst), "words": words})
	return Ref(dst), words, nil
}

// isForwarded reports whether the from-space object o has already been
// evacuated, i.e. whether its first field now points into to-space.
func (h *Heap) isForwarded(o Ref) bool {
	return h.belongsToTo(h.GetField(o, 0))
}

// chase implements the semi-DFS evacuation strategy: shallow-copy the
// current object, then follow the *last* of its from-space fields that
// is not yet forwarded. The child-selection policy is arbitrary but
// must be deterministic, so this follows a fixed last-unforwarded-child
// rule for reproducible allocation layouts. Every other unforwarded
// child stays grey and is picked up later by deepForward during the
// incremental scan phase.
func (h *Heap) chase(o Ref) (int, error) {
	total := 0
	cur := o
	for cur != NullRef {
		copy, words, err := h.shallowCopy(cur)
		if err != nil {
			return total, err
		}
		total += words

		fieldCount := runtime.FieldCount(h.Header(copy))
		var next Ref
		for i := fieldCount - 1; i >= 0; i-- {
			field := h.GetField(copy, i)
			if h.belongsToFrom(field) && !h.isForwarded(field) {
				next = field
				break
			}
		}
		h.logTrace("chase", logrus.Fields{"object": uintptr(cur), "copy": uintptr(copy), "next": uintptr(next)})
		cur = next
	}
	return total, nil
}

// Forward returns the to-space (or singleton) address that p should be
// seen as. Pointers already in to-space, singleton pointers, and opaque
// non-pointer bit patterns pass through unchanged. Forward is
// idempotent: calling it twice on the same from-space pointer returns
// the same to-space address without copying twice, because the first
// call installs a forwarding pointer that the second call's
// already-forwarded check finds.
func (h *Heap) Forward(p Ref) (Ref, int, error) {
	if !h.belongsToFrom(p) {
		return p, 0, nil
	}
	if fwd := h.GetField(p, 0); h.belongsToTo(fwd) {
		return fwd, 0, nil
	}
	words, err := h.chase(p)
	if err != nil {
		return NullRef, words, err
	}
	return h.GetField(p, 0), words, nil
}

// deepForward replaces every field of the grey object o with its
// forwarded value. After this call o's fields no longer reference
// from-space, so o is black.
func (h *Heap) deepForward(o Ref) (int, error) {
	hdr := h.Header(o)
	fieldCount := runtime.FieldCount(hdr)
	total := 0
	for i := 0; i < fieldCount; i++ {
		v := h.GetField(o, i)
		fv, words, err := h.Forward(v)
		if err != nil {
			return total, err
		}
		h.setField(o, i, fv)
		total += words
	}
	return total, nil
}

// ForceCopyAll deep-forwards every object from scan to next until scan
// catches up, draining all grey work in one shot. After it returns,
// to-space holds only black objects below scan and white ones above
// limit.
func (h *Heap) ForceCopyAll() (int, error) {
	total := 0
	for h.scan != h.next {
		o := Ref(h.scan)
		words, err := h.deepForward(o)
		if err != nil {
			return total, err
		}
		total += words
		h.scan += uintptr(runtime.WordCount(h.Header(o))) * wordSize
	}
	return total, nil
}

// quantum performs one unit of incremental work: deep-forward the
// object at scan and advance scan past it. It keeps doing this across
// zero-real-field objects — which cost nothing to blacken — until it has
// copied a nonzero number of words or drained the grey region, so a run
// of zero-field objects can never stall forward progress.
func (h *Heap) quantum() error {
	copied := 0
	for copied == 0 && h.scan != h.next {
		o := Ref(h.scan)
		words, err := h.deepForward(o)
		if err != nil {
			return err
		}
		copied = words
		h.scan += uintptr(runtime.WordCount(h.Header(o))) * wordSize
	}
	return nil
}
