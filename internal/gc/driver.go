package gc

import "github.com/sirupsen/logrus"

// flip swaps the to/from role assignment and forwards every registered
// root. Precondition: scan == next (ForceCopyAll has drained all grey
// work). Postcondition: every reachable object is in the new to-space,
// some grey and some black; the old from-space may be overwritten by
// the next cycle.
func (h *Heap) flip() error {
	h.stats.CurrentAllocatedBytes = 0
	h.stats.CurrentAllocatedObjects = 0

	h.to, h.from = h.from, h.to
	h.next = h.to.base
	h.scan = h.to.base
	h.limit = h.to.base + uintptr(h.to.size)

	total := 0
	for _, root := range h.roots {
		fv, words, err := h.Forward(*root)
		if err != nil {
			return err
		}
		*root = fv
		total += words
	}

	h.logInfo("flip", logrus.Fields{"words_copied": total, "roots": len(h.roots)})
	return nil
}

// ForceFlip drains all pending grey work and performs a collection
// cycle immediately, regardless of how much free space remains. Used
// by the CLI and REPL to let an operator trigger a cycle on demand
// rather than waiting for an allocation to need one.
func (h *Heap) ForceFlip() error {
	if h.scan != h.next {
		if _, err := h.ForceCopyAll(); err != nil {
			return err
		}
	}
	return h.flip()
}
