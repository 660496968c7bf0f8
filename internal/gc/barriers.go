package gc

// ReadBarrier must be invoked by the mutator before it reads field i of
// object o. If that field currently points into from-space, it is
// forwarded in place so the value the mutator is about to see already
// lives in to-space (or is a singleton) — this is what lets the mutator
// run without ever observing an old-space pointer.
func (h *Heap) ReadBarrier(o Ref, i int) (Ref, error) {
	v := h.GetField(o, i)
	if h.belongsToFrom(v) {
		fv, _, err := h.Forward(v)
		if err != nil {
			return NullRef, err
		}
		h.setField(o, i, fv)
		v = fv
	}
	h.stats.TotalReads++
	return v, nil
}

// WriteBarrier stores v into field i of o and accounts for the write.
// This collector's write barrier is semantically a no-op beyond
// counting: the mutator can never hold a from-space
// pointer (ReadBarrier converts any it would read, and flip re-forwards
// every root), so no cross-space write can introduce a stale pointer.
// It exists as an extension point for a future generational design and
// to keep a running write counter.
func (h *Heap) WriteBarrier(o Ref, i int, v Ref) {
	h.setField(o, i, v)
	h.stats.TotalWrites++
}
