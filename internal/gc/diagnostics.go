package gc

import (
	"fmt"
	"io"
	"strings"

	"github.com/kestrel-lang/bakergc/internal/runtime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// regionOf labels an address for diagnostic output.
func (h *Heap) regionOf(p Ref) string {
	if p == NullRef {
		return "nil"
	}
	if s, ok := runtime.SingletonAt(uintptr(p)); ok {
		return "singleton:" + s.String()
	}
	if belongsTo(p, h.to) {
		return "to-space"
	}
	if belongsTo(p, h.from) {
		return "from-space"
	}
	return "invalid"
}

// PrintGCStateVariables writes the five Baker pointers.
func (h *Heap) PrintGCStateVariables(w io.Writer) {
	fmt.Fprintf(w, "TO-SPACE:    0x%x\n", h.to.base)
	fmt.Fprintf(w, "FROM-SPACE:  0x%x\n", h.from.base)
	fmt.Fprintf(w, "SCAN:        0x%x (TO-SPACE + %d)\n", h.scan, h.scan-h.to.base)
	fmt.Fprintf(w, "NEXT:        0x%x (TO-SPACE + %d)\n", h.next, h.next-h.to.base)
	fmt.Fprintf(w, "LIMIT:       0x%x (NEXT + %d)\n", h.limit, h.limit-h.next)
}

// PrintGCRoots writes the current value every root cell points at.
func (h *Heap) PrintGCRoots(w io.Writer) {
	fmt.Fprint(w, "ROOTS: ")
	for _, r := range h.roots {
		fmt.Fprintf(w, "0x%x(%s) ", uintptr(*r), h.regionOf(*r))
	}
	fmt.Fprintln(w)
}

// walkObject prints one object's header, then each field's value and
// the region (to-space, from-space, singleton, ...) that value lies in.
func (h *Heap) walkObject(w io.Writer, o Ref, prefix string) {
	hdr := h.Header(o)
	fc := runtime.FieldCount(hdr)
	fmt.Fprintf(w, "%s0x%x: %d field(s), tag %s\n", prefix, uintptr(o), fc, hdr.Tag())
	for i := 0; i < fc; i++ {
		field := h.GetField(o, i)
		fmt.Fprintf(w, "%s  field #%d = 0x%x (%s)\n", prefix, i, uintptr(field), h.regionOf(field))
	}
}

// PrintToSpace prints the singletons, then walks to-space in address
// order: the black and grey objects together, the free words, and the
// white objects. It is the Go analogue of print_to_space.
func (h *Heap) PrintToSpace(w io.Writer) {
	fmt.Fprintln(w, "singletons:")
	for _, s := range []*runtime.Object{runtime.Zero, runtime.Unit, runtime.Empty, runtime.EmptyTuple, runtime.False, runtime.True} {
		fmt.Fprintf(w, "  0x%x: %s\n", runtime.Addr(s), s)
	}

	fmt.Fprintln(w, "to-space (black + grey):")
	cur := h.to.base
	for cur < h.next {
		o := Ref(cur)
		h.walkObject(w, o, "  ")
		cur += uintptr(runtime.WordCount(h.Header(o))) * wordSize
	}

	fmt.Fprintln(w, "free:")
	for cur := h.next; cur < h.limit; cur += wordSize {
		fmt.Fprintf(w, "  0x%x: nothing\n", cur)
	}

	fmt.Fprintln(w, "to-space (white):")
	cur = h.limit
	end := h.to.base + uintptr(h.to.size)
	for cur < end {
		o := Ref(cur)
		h.walkObject(w, o, "  ")
		cur += uintptr(runtime.WordCount(h.Header(o))) * wordSize
	}
}

// PrintGCState writes the full state dump: pointers, roots, heap walk.
func (h *Heap) PrintGCState(w io.Writer) {
	h.PrintGCStateVariables(w)
	h.PrintGCRoots(w)
	h.PrintToSpace(w)
}

// PrintGCAllocStats writes the cumulative allocation counters, with
// locale-formatted thousands separators, which Go's fmt has no builtin
// verb for.
func (h *Heap) PrintGCAllocStats(w io.Writer) {
	s := h.stats
	printer.Fprintf(w, "Total memory allocation: %d bytes (%d objects)\n", s.TotalAllocatedBytes, s.TotalAllocatedObjects)
	printer.Fprintf(w, "Maximum residency:       %d bytes (%d objects)\n", s.MaxAllocatedBytes, s.MaxAllocatedObjects)
	printer.Fprintf(w, "Total memory use:        %d reads and %d writes\n", s.TotalReads, s.TotalWrites)
	printer.Fprintf(w, "Max GC roots stack size: %d roots\n", s.MaxRootDepth)
}

// dumpState renders PrintGCState to a string, for embedding in an
// OOMError.
func (h *Heap) dumpState() string {
	var b strings.Builder
	fmt.Fprintln(&b, "======  Failure: Out of memory  =======")
	h.PrintGCState(&b)
	fmt.Fprintln(&b, "========================================")
	h.PrintGCAllocStats(&b)
	return b.String()
}

// InvariantReport records whether each of the collector's core
// invariants currently holds, for the doctor screen and for tests.
type InvariantReport struct {
	BakerPointerOrder    bool // bottom(to) <= scan <= next <= limit <= bottom(to)+S
	BlackRegionClean     bool // no field in [bottom(to), scan) points into from-space
	GreyWhiteForwardable bool // from-space fields in grey/white regions are forwardable
	RootsResolved        bool // every root points to a singleton or into to-space
	Details              []string
}

// CheckInvariants walks the live heap and reports which invariants hold.
// It never panics on a malformed heap; violations are recorded in
// Details instead.
func (h *Heap) CheckInvariants() InvariantReport {
	var rep InvariantReport
	var details []string

	bottom := h.to.base
	end := bottom + uintptr(h.to.size)
	rep.BakerPointerOrder = bottom <= h.scan && h.scan <= h.next && h.next <= h.limit && h.limit <= end
	if !rep.BakerPointerOrder {
		details = append(details, fmt.Sprintf("pointer order violated: bottom=0x%x scan=0x%x next=0x%x limit=0x%x end=0x%x", bottom, h.scan, h.next, h.limit, end))
	}

	rep.BlackRegionClean = true
	for cur := bottom; cur < h.scan; {
		o := Ref(cur)
		fc := runtime.FieldCount(h.Header(o))
		for i := 0; i < fc; i++ {
			if h.belongsToFrom(h.GetField(o, i)) {
				rep.BlackRegionClean = false
				details = append(details, fmt.Sprintf("black object 0x%x field #%d still points into from-space", cur, i))
			}
		}
		cur += uintptr(runtime.WordCount(h.Header(o))) * wordSize
	}

	rep.GreyWhiteForwardable = true
	checkRegion := func(lo, hi uintptr) {
		for cur := lo; cur < hi; {
			o := Ref(cur)
			fc := runtime.FieldCount(h.Header(o))
			for i := 0; i < fc; i++ {
				field := h.GetField(o, i)
				if h.belongsToFrom(field) && h.isForwarded(field) {
					fwd := h.GetField(field, 0)
					if !(belongsTo(fwd, h.to) && uintptr(fwd) < h.next) {
						rep.GreyWhiteForwardable = false
						details = append(details, fmt.Sprintf("object 0x%x field #%d forwards outside [bottom,next)", cur, i))
					}
				}
			}
			cur += uintptr(runtime.WordCount(h.Header(o))) * wordSize
		}
	}
	checkRegion(h.scan, h.next)
	checkRegion(h.limit, end)

	rep.RootsResolved = true
	for _, r := range h.roots {
		if *r == NullRef {
			continue
		}
		if !h.IsSingleton(*r) && !belongsTo(*r, h.to) {
			rep.RootsResolved = false
			details = append(details, fmt.Sprintf("root at 0x%x does not resolve into to-space or a singleton", uintptr(*r)))
		}
	}

	rep.Details = details
	return rep
}

// OK reports whether every invariant in the report holds.
func (r InvariantReport) OK() bool {
	return r.BakerPointerOrder && r.BlackRegionClean && r.GreyWhiteForwardable && r.RootsResolved
}
