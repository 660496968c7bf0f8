package mutator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/kestrel-lang/bakergc/internal/gc"
	"github.com/kestrel-lang/bakergc/internal/runtime"
)

func newHeap(t *testing.T) *gc.Heap {
	t.Helper()
	h, err := gc.NewHeap(gc.DefaultSpaceSize, gc.DefaultRootDepth)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

func TestBuildListLength(t *testing.T) {
	h := newHeap(t)
	head, err := BuildList(h, 50)
	if err != nil {
		t.Fatalf("BuildList: %v", err)
	}
	root := head
	if err := h.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
	defer h.PopRoot(&root)

	cur := root
	count := 0
	for !h.IsSingleton(cur) {
		var err error
		cur, err = h.ReadBarrier(cur, 1)
		if err != nil {
			t.Fatalf("ReadBarrier: %v", err)
		}
		count++
	}
	if count != 50 {
		t.Fatalf("expected 50 elements, got %d", count)
	}
}

func TestBuildSharedParentsShareChild(t *testing.T) {
	h := newHeap(t)
	a, b, err := BuildShared(h)
	if err != nil {
		t.Fatalf("BuildShared: %v", err)
	}
	rootA, rootB := a, b
	if err := h.PushRoot(&rootA); err != nil {
		t.Fatalf("PushRoot a: %v", err)
	}
	if err := h.PushRoot(&rootB); err != nil {
		t.Fatalf("PushRoot b: %v", err)
	}
	defer h.PopRoot(&rootB)
	defer h.PopRoot(&rootA)

	childA, err := h.ReadBarrier(rootA, 0)
	if err != nil {
		t.Fatalf("ReadBarrier a: %v", err)
	}
	childB, err := h.ReadBarrier(rootB, 0)
	if err != nil {
		t.Fatalf("ReadBarrier b: %v", err)
	}
	if childA != childB {
		t.Fatalf("shared child diverged: %x != %x", childA, childB)
	}
}

func TestBuildCycleIsCyclic(t *testing.T) {
	h := newHeap(t)
	a, err := BuildCycle(h)
	if err != nil {
		t.Fatalf("BuildCycle: %v", err)
	}
	root := a
	if err := h.PushRoot(&root); err != nil {
		t.Fatalf("PushRoot: %v", err)
	}
	defer h.PopRoot(&root)

	b, err := h.ReadBarrier(root, 0)
	if err != nil {
		t.Fatalf("ReadBarrier: %v", err)
	}
	back, err := h.ReadBarrier(b, 0)
	if err != nil {
		t.Fatalf("ReadBarrier: %v", err)
	}
	if back != root {
		t.Fatalf("cycle does not close: %x != %x", back, root)
	}
}

func TestFuzzRunsWithoutError(t *testing.T) {
	h := newHeap(t)
	rng := rand.New(rand.NewSource(1))
	stats, err := Fuzz(h, rng, 2000)
	if err != nil {
		t.Fatalf("Fuzz: %v", err)
	}
	if stats.Allocs == 0 {
		t.Fatal("expected at least one allocation")
	}
	rep := h.CheckInvariants()
	if !rep.OK() {
		t.Fatalf("invariants violated after fuzzing: %+v", rep.Details)
	}
}

func TestFuzzSurvivesTightHeap(t *testing.T) {
	// A small heap forces many flips during the same run.
	h, err := gc.NewHeap(2048, 64)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	defer h.Close()

	rng := rand.New(rand.NewSource(7))
	_, err = Fuzz(h, rng, 500)
	if err != nil {
		var oom *gc.OOMError
		if !errors.As(err, &oom) {
			t.Fatalf("expected *gc.OOMError or nil, got %T: %v", err, err)
		}
		return
	}
	rep := h.CheckInvariants()
	if !rep.OK() {
		t.Fatalf("invariants violated: %+v", rep.Details)
	}
}

func TestNewConsWritesHeader(t *testing.T) {
	h := newHeap(t)
	ref, err := NewCons(h, gc.RefOf(runtime.Zero), gc.RefOf(runtime.Empty))
	if err != nil {
		t.Fatalf("NewCons: %v", err)
	}
	if h.Header(ref).Tag() != runtime.TagCons {
		t.Fatalf("expected TagCons, got %s", h.Header(ref).Tag())
	}
	if h.Header(ref).FieldCount() != 2 {
		t.Fatalf("expected 2 fields, got %d", h.Header(ref).FieldCount())
	}
}
