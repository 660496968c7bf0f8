package gc

import (
	"testing"

	"github.com/kestrel-lang/bakergc/internal/runtime"
)

const wordsConsHeader = 1 // cons has 2 fields: head, tail

func newConsHeap(t *testing.T, spaceSize int) *Heap {
	t.Helper()
	h, err := NewHeap(spaceSize, DefaultRootDepth)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

// allocCons allocates a 2-field cons cell and returns its address.
func allocCons(t *testing.T, h *Heap, head, tail Ref) Ref {
	t.Helper()
	hdr := runtime.NewHeader(runtime.TagCons, 2)
	ref, err := h.Alloc(runtime.WordCount(hdr))
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	storeWord(uintptr(ref), uint64(hdr))
	h.WriteBarrier(ref, 0, head)
	h.WriteBarrier(ref, 1, tail)
	return ref
}

func TestAllocZeroedAndWordAligned(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	ref := allocCons(t, h, NullRef, NullRef)
	if uintptr(ref)%wordSize != 0 {
		t.Fatalf("ref %x not word-aligned", ref)
	}
	if h.GetField(ref, 0) != NullRef || h.GetField(ref, 1) != NullRef {
		t.Fatalf("freshly allocated cons not zeroed")
	}
}

func TestAllocExactlyFullSpaceSucceedsThenFlips(t *testing.T) {
	// One space word-count's worth of single-word-body objects.
	const spaceSize = 64 * int(wordSize)
	h := newConsHeap(t, spaceSize)

	hdr := runtime.NewHeader(runtime.TagUnit, 0) // WordCount == 2
	words := runtime.WordCount(hdr)
	count := spaceSize / int(wordSize) / words

	for i := 0; i < count; i++ {
		ref, err := h.Alloc(words)
		if err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
		storeWord(uintptr(ref), uint64(hdr))
	}

	// Heap is now exactly full; nothing is rooted, so the next alloc
	// should trigger a flip that finds zero live bytes and succeed.
	ref, err := h.Alloc(words)
	if err != nil {
		t.Fatalf("alloc after filling exactly: %v", err)
	}
	if ref == NullRef {
		t.Fatal("expected a valid ref")
	}
}

func TestOOMWhenNoRootsButSpaceTooSmallForOneObject(t *testing.T) {
	h := newConsHeap(t, int(wordSize)) // smaller than any 2-word object
	hdr := runtime.NewHeader(runtime.TagUnit, 0)
	_, err := h.Alloc(runtime.WordCount(hdr))
	if err == nil {
		t.Fatal("expected OOM")
	}
	if _, ok := err.(*OOMError); !ok {
		t.Fatalf("expected *OOMError, got %T", err)
	}
}

func TestForwardIdempotent(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	a := allocCons(t, h, RefOf(runtime.Zero), NullRef)

	root := a
	if err := h.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}

	// Force a flip so `a` is now a from-space pointer; the flip has
	// already evacuated its object through the root and left a
	// forwarding pointer behind.
	if err := forceFlip(h); err != nil {
		t.Fatalf("forceFlip: %v", err)
	}

	first, _, err := h.Forward(a)
	if err != nil {
		t.Fatalf("Forward #1: %v", err)
	}
	second, words, err := h.Forward(a)
	if err != nil {
		t.Fatalf("Forward #2: %v", err)
	}
	if first != second {
		t.Fatalf("Forward not idempotent: %x != %x", first, second)
	}
	if words != 0 {
		t.Fatalf("second Forward should copy nothing, copied %d words", words)
	}
}

func TestSharedSubstructureStaysShared(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	child := allocCons(t, h, RefOf(runtime.Zero), NullRef)
	parentA := allocCons(t, h, child, NullRef)
	parentB := allocCons(t, h, child, NullRef)

	rootA, rootB := parentA, parentB
	mustPush(t, h, &rootA)
	mustPush(t, h, &rootB)

	if err := forceFlip(h); err != nil {
		t.Fatalf("forceFlip: %v", err)
	}

	childFromA := h.GetField(rootA, 0)
	childFromB := h.GetField(rootB, 0)
	if childFromA != childFromB {
		t.Fatalf("shared child diverged: %x != %x", childFromA, childFromB)
	}
}

func TestCycleSurvivesMultipleFlips(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	a := allocCons(t, h, NullRef, NullRef)
	b := allocCons(t, h, NullRef, NullRef)
	h.WriteBarrier(a, 0, b)
	h.WriteBarrier(b, 0, a)

	root := a
	mustPush(t, h, &root)

	for i := 0; i < 5; i++ {
		if err := forceFlip(h); err != nil {
			t.Fatalf("forceFlip #%d: %v", i, err)
		}
		aNow := root
		bNow, err := h.ReadBarrier(aNow, 0)
		if err != nil {
			t.Fatalf("ReadBarrier: %v", err)
		}
		aAgain, err := h.ReadBarrier(bNow, 0)
		if err != nil {
			t.Fatalf("ReadBarrier: %v", err)
		}
		if aAgain != aNow {
			t.Fatalf("cycle broken at iteration %d: %x != %x", i, aAgain, aNow)
		}
		if aNow == bNow {
			t.Fatalf("a and b collapsed to the same address")
		}
	}
}

func TestReadBarrierForwardsFromSpaceField(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	child := allocCons(t, h, NullRef, NullRef)
	parent := allocCons(t, h, child, NullRef)

	root := parent
	mustPush(t, h, &root)
	if err := forceFlip(h); err != nil {
		t.Fatalf("forceFlip: %v", err)
	}

	// parent itself got forwarded by the flip via the root; its field 0
	// still references the from-space child until something forwards it.
	field := h.GetField(root, 0)
	if !h.belongsToFrom(field) {
		t.Skip("field already forwarded by incidental incremental work; nothing to observe")
	}

	got, err := h.ReadBarrier(root, 0)
	if err != nil {
		t.Fatalf("ReadBarrier: %v", err)
	}
	if !h.belongsToTo(got) {
		t.Fatalf("read barrier did not forward into to-space: %s", h.regionOf(got))
	}
}

func TestLinearChainIntactAfterFlip(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	var head Ref = NullRef
	for i := 0; i < 100; i++ {
		head = allocCons(t, h, RefOf(runtime.Zero), head)
	}
	root := head
	mustPush(t, h, &root)

	if err := forceFlip(h); err != nil {
		t.Fatalf("forceFlip: %v", err)
	}

	cur := root
	count := 0
	for cur != NullRef {
		if !h.belongsToTo(cur) {
			t.Fatalf("chain element %d not in to-space: %s", count, h.regionOf(cur))
		}
		headVal, err := h.ReadBarrier(cur, 0)
		if err != nil {
			t.Fatalf("ReadBarrier: %v", err)
		}
		if !h.IsSingleton(headVal) {
			t.Fatalf("chain element %d head is not the ZERO singleton", count)
		}
		tail, err := h.ReadBarrier(cur, 1)
		if err != nil {
			t.Fatalf("ReadBarrier: %v", err)
		}
		cur = tail
		count++
	}
	if count != 100 {
		t.Fatalf("expected 100 chain elements, walked %d", count)
	}
}

func TestInvariantsHoldAfterScenario(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	a := allocCons(t, h, RefOf(runtime.Zero), NullRef)
	b := allocCons(t, h, a, NullRef)
	root := b
	mustPush(t, h, &root)

	if err := forceFlip(h); err != nil {
		t.Fatalf("forceFlip: %v", err)
	}
	if _, err := h.ForceCopyAll(); err != nil {
		t.Fatalf("ForceCopyAll: %v", err)
	}

	rep := h.CheckInvariants()
	if !rep.OK() {
		t.Fatalf("invariants violated: %+v", rep.Details)
	}
}

func TestRootStackOverflow(t *testing.T) {
	h := newConsHeap(t, DefaultSpaceSize)
	h2, err := NewHeap(DefaultSpaceSize, 2)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	defer h2.Close()
	_ = h // unused beyond setup symmetry

	var c1, c2, c3 Ref
	if err := h2.PushRoot(&c1); err != nil {
		t.Fatalf("push 1: %v", err)
	}
	if err := h2.PushRoot(&c2); err != nil {
		t.Fatalf("push 2: %v", err)
	}
	err = h2.PushRoot(&c3)
	if err == nil {
		t.Fatal("expected root overflow")
	}
	if _, ok := err.(*RootOverflowError); !ok {
		t.Fatalf("expected *RootOverflowError, got %T", err)
	}
}

// forceFlip allocates enough single-word-body objects to exhaust
// to-space, forcing Alloc's internal flip without caring about the
// result.
func forceFlip(h *Heap) error {
	hdr := runtime.NewHeader(runtime.TagUnit, 0)
	words := runtime.WordCount(hdr)
	free := int(h.limit-h.next) / int(wordSize)
	for free >= words {
		ref, err := h.Alloc(words)
		if err != nil {
			return err
		}
		storeWord(uintptr(ref), uint64(hdr))
		free = int(h.limit-h.next) / int(wordSize)
	}
	_, err := h.Alloc(words)
	return err
}

func mustPush(t *testing.T, h *Heap, cell *Ref) {
	t.Helper()
	if err := h.PushRoot(cell); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
}
