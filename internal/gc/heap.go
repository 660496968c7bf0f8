// Package gc implements Baker's incremental copying collector over a
// fixed two-semi-space heap: the allocator, the evacuation engine
// (shallow copy / chase / forward / deep-forward), the flip driver, the
// read and write barriers, and the root-set stack. It is the core this
// whole module exists to demonstrate; everything else (cmd, tui,
// mutator, config) is a front end over the Heap type defined here.
package gc

import "github.com/sirupsen/logrus"

// Default configuration: a 4 MiB semi-space and a 1024-entry root
// stack. Both are overridable per Heap via NewHeap,
// which is what lets the config package (internal/config) turn them
// into runtime-configurable settings without touching this package.
const (
	DefaultSpaceSize = 4 * 1024 * 1024
	DefaultRootDepth = 1024
)

// Stats tracks cumulative allocation counters: total and
// residency-high-water-mark allocation figures, plus read/write barrier
// counts. Exposed so cmd/inspect and the TUI sidebar can render them.
type Stats struct {
	TotalAllocatedBytes     int
	TotalAllocatedObjects   int
	MaxAllocatedBytes       int
	MaxAllocatedObjects     int
	CurrentAllocatedBytes   int
	CurrentAllocatedObjects int
	TotalReads              int
	TotalWrites             int
	MaxRootDepth            int
}

// Heap groups every piece of mutable state a top-level-globals
// collector would otherwise keep as package-level variables into one
// value whose methods are the API. A Heap is not safe for concurrent
// use: the collector and its one mutator share a single thread.
type Heap struct {
	spaceA, spaceB *semispace
	to, from       *semispace

	// Baker pointers, all addresses within `to`.
	scan, next, limit uintptr

	roots        []*Ref
	maxRootDepth int

	stats  Stats
	logger *logrus.Logger
}

// NewHeap allocates the two semi-spaces and returns a Heap as if a
// collection cycle had just completed with from-space holding only
// garbage, so the first allocation proceeds without invoking the
// evacuator.
func NewHeap(spaceSizeBytes, maxRootDepth int) (*Heap, error) {
	if spaceSizeBytes <= 0 {
		spaceSizeBytes = DefaultSpaceSize
	}
	if maxRootDepth <= 0 {
		maxRootDepth = DefaultRootDepth
	}

	spaceA, err := newSemispace(spaceSizeBytes)
	if err != nil {
		return nil, err
	}
	spaceB, err := newSemispace(spaceSizeBytes)
	if err != nil {
		spaceA.Close()
		return nil, err
	}

	h := &Heap{
		spaceA:       spaceA,
		spaceB:       spaceB,
		to:           spaceB,
		from:         spaceA,
		maxRootDepth: maxRootDepth,
		roots:        make([]*Ref, 0, maxRootDepth),
	}
	h.next = h.to.base
	h.scan = h.to.base
	h.limit = h.to.base + uintptr(h.to.size)
	return h, nil
}

// Close releases the semi-space buffers. Safe to call once a Heap is no
// longer needed; not required for correctness (process exit reclaims
// the memory regardless) but good hygiene for long-lived processes that
// create many heaps (e.g. the stress CLI command run in a loop).
func (h *Heap) Close() {
	h.spaceA.Close()
	h.spaceB.Close()
}

// Stats returns a snapshot of the allocation counters.
func (h *Heap) Stats() Stats { return h.stats }

// SpaceSize returns the configured size of each semi-space, in bytes.
func (h *Heap) SpaceSize() int { return h.to.size }

// PointerState returns the five Baker pointers the diagnostics and TUI
// sidebar display: the base address of to-space and from-space, and
// the current scan/next/limit positions within to-space.
func (h *Heap) PointerState() (toBase, fromBase, scan, next, limit uintptr) {
	return h.to.base, h.from.base, h.scan, h.next, h.limit
}

func (h *Heap) belongsToFrom(p Ref) bool { return belongsTo(p, h.from) }
func (h *Heap) belongsToTo(p Ref) bool   { return belongsTo(p, h.to) }

func (h *Heap) bumpResidency(sizeBytes int) {
	h.stats.CurrentAllocatedBytes += sizeBytes
	h.stats.CurrentAllocatedObjects++
	if h.stats.CurrentAllocatedBytes > h.stats.MaxAllocatedBytes {
		h.stats.MaxAllocatedBytes = h.stats.CurrentAllocatedBytes
	}
	if h.stats.CurrentAllocatedObjects > h.stats.MaxAllocatedObjects {
		h.stats.MaxAllocatedObjects = h.stats.CurrentAllocatedObjects
	}
}
