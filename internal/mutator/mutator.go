// Package mutator is a stand-in for the language runtime that would sit
// above the collector: small, deterministic builders that allocate
// known heap shapes, plus a randomized fuzzer for exercising the
// allocator and barriers the way a real program's allocation traffic
// would. Nothing here is part of the collector itself.
package mutator

import (
	"fmt"
	"math/rand"

	"github.com/kestrel-lang/bakergc/internal/gc"
	"github.com/kestrel-lang/bakergc/internal/runtime"
)

// NewCons allocates a single two-field cons cell with the given head and
// tail, writing its header before returning.
func NewCons(h *gc.Heap, head, tail gc.Ref) (gc.Ref, error) {
	hdr := runtime.NewHeader(runtime.TagCons, 2)
	ref, err := h.Alloc(runtime.WordCount(hdr))
	if err != nil {
		return gc.NullRef, err
	}
	gc.PokeHeader(ref, hdr)
	h.WriteBarrier(ref, 0, head)
	h.WriteBarrier(ref, 1, tail)
	return ref, nil
}

// BuildList allocates a linear chain of n cons cells, each holding the
// ZERO singleton as its head, terminated by EMPTY. Returns the head of
// the list.
func BuildList(h *gc.Heap, n int) (gc.Ref, error) {
	tail := gc.RefOf(runtime.Empty)
	for i := 0; i < n; i++ {
		cell, err := NewCons(h, gc.RefOf(runtime.Zero), tail)
		if err != nil {
			return gc.NullRef, fmt.Errorf("building list element %d: %w", i, err)
		}
		tail = cell
	}
	return tail, nil
}

// BuildShared allocates one child cons cell and two parent cons cells
// that both reference it, exercising the evacuator's handling of
// shared substructure: both parents must still resolve to the same
// to-space address after a collection.
func BuildShared(h *gc.Heap) (parentA, parentB gc.Ref, err error) {
	child, err := NewCons(h, gc.RefOf(runtime.Zero), gc.RefOf(runtime.Empty))
	if err != nil {
		return gc.NullRef, gc.NullRef, err
	}
	parentA, err = NewCons(h, child, gc.RefOf(runtime.Empty))
	if err != nil {
		return gc.NullRef, gc.NullRef, err
	}
	parentB, err = NewCons(h, child, gc.RefOf(runtime.Empty))
	if err != nil {
		return gc.NullRef, gc.NullRef, err
	}
	return parentA, parentB, nil
}

// BuildCycle allocates two cons cells that reference each other through
// field 0, exercising the evacuator against a circular structure with
// no acyclic traversal order.
func BuildCycle(h *gc.Heap) (gc.Ref, error) {
	a, err := NewCons(h, gc.NullRef, gc.RefOf(runtime.Empty))
	if err != nil {
		return gc.NullRef, err
	}
	b, err := NewCons(h, a, gc.RefOf(runtime.Empty))
	if err != nil {
		return gc.NullRef, err
	}
	h.WriteBarrier(a, 0, b)
	return a, nil
}

// FuzzStats summarizes the operations a Fuzz run performed, for the
// stress CLI command to report.
type FuzzStats struct {
	Allocs int
	Reads  int
	Writes int
	Drops  int
}

// Fuzz drives ops random allocation/read/write/drop operations against
// h. Every live cell it creates is rooted for as long as Fuzz holds a
// reference to it — a mutator may only safely touch memory it reached
// through a root, since an unrooted address can be reused by the
// collector at any flip — and "drop" pops the most recently pushed
// root (PushRoot/PopRoot is a strict stack), letting the collector
// reclaim it on a later cycle. It stops early and returns the
// error if an allocation fails (OOM is expected once live cells outgrow
// the configured heap and is not itself a bug in the fuzzer).
func Fuzz(h *gc.Heap, rng *rand.Rand, ops int) (FuzzStats, error) {
	var stats FuzzStats
	var cells []*gc.Ref

	defer func() {
		for i := len(cells) - 1; i >= 0; i-- {
			h.PopRoot(cells[i])
		}
	}()

	randCell := func() gc.Ref {
		if len(cells) == 0 {
			return gc.RefOf(runtime.Zero)
		}
		return *cells[rng.Intn(len(cells))]
	}

	for i := 0; i < ops; i++ {
		op := rng.Intn(4)
		if len(cells) == 0 {
			op = 0
		}
		switch op {
		case 0: // allocate and root a new cell
			// Draw the field values first (same PRNG order as before),
			// but read them from their root cells only after Alloc, which
			// may flip and move them.
			headIdx, tailIdx := -1, -1
			if len(cells) > 0 {
				headIdx = rng.Intn(len(cells))
				tailIdx = rng.Intn(len(cells))
			}
			cell, err := NewCons(h, gc.NullRef, gc.NullRef)
			if err != nil {
				return stats, fmt.Errorf("fuzz alloc at op %d: %w", i, err)
			}
			for f, idx := range []int{headIdx, tailIdx} {
				v := gc.RefOf(runtime.Zero)
				if idx >= 0 {
					v = *cells[idx]
				}
				h.WriteBarrier(cell, f, v)
			}
			stats.Allocs++
			ptr := new(gc.Ref)
			*ptr = cell
			if err := h.PushRoot(ptr); err != nil {
				// Root stack is full: the cell stays unreachable and
				// becomes garbage on the next flip. Not an error.
				continue
			}
			cells = append(cells, ptr)
		case 1: // read a field through the barrier
			idx := rng.Intn(len(cells))
			field := rng.Intn(2)
			if _, err := h.ReadBarrier(*cells[idx], field); err != nil {
				return stats, fmt.Errorf("fuzz read at op %d: %w", i, err)
			}
			stats.Reads++
		case 2: // overwrite a field
			idx := rng.Intn(len(cells))
			field := rng.Intn(2)
			h.WriteBarrier(*cells[idx], field, randCell())
			stats.Writes++
		case 3: // drop the most recently rooted cell; PushRoot/PopRoot is
			// a strict stack, so only the top can be released early
			last := len(cells) - 1
			h.PopRoot(cells[last])
			cells = cells[:last]
			stats.Drops++
		}
	}
	return stats, nil
}
