package gc

import (
	"unsafe"

	"github.com/kestrel-lang/bakergc/internal/runtime"
)

// Ref is a heap address: a pointer into one of the two semi-spaces, the
// address of a static singleton, or an opaque bit pattern the mutator
// stored in a field that the collector will never dereference. The zero
// Ref represents a field that has never been written (the state every
// field is in immediately after Alloc zeroes it).
//
// Representing addresses as uintptr instead of a tagged Go struct keeps
// object layout byte-for-byte faithful to the collector it models: a
// semi-space is really just a flat span of memory and an address is
// really just an offset into it, exactly as in the collector this
// package is modeled
// on. The backing memory for each semi-space is kept alive for the
// lifetime of the Heap that owns it (see space.go), so these addresses
// never dangle.
type Ref uintptr

// NullRef is the zero value of Ref: no object, no singleton, nothing.
const NullRef Ref = 0

const wordSize = uintptr(unsafe.Sizeof(uint64(0)))

func loadWord(addr uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(addr)) //nolint:govet
}

func storeWord(addr uintptr, v uint64) {
	*(*uint64)(unsafe.Pointer(addr)) = v //nolint:govet
}

// RefOf returns the Ref addressing a static singleton.
func RefOf(o *runtime.Object) Ref {
	return Ref(runtime.Addr(o))
}

// belongsTo reports whether p lies within the given semi-space.
func belongsTo(p Ref, sp *semispace) bool {
	if p == NullRef || sp == nil {
		return false
	}
	addr := uintptr(p)
	return addr >= sp.base && addr < sp.base+uintptr(sp.size)
}

// Header reads the header word addressed by o. Singletons carry their
// header in the Go struct itself rather than in heap memory.
func (h *Heap) Header(o Ref) runtime.Header {
	if s, ok := runtime.SingletonAt(uintptr(o)); ok {
		return s.Header
	}
	return runtime.Header(loadWord(uintptr(o)))
}

func (h *Heap) fieldAddr(o Ref, i int) uintptr {
	return uintptr(o) + (1+uintptr(i))*wordSize
}

// GetField reads field i of o without invoking the read barrier. Used
// internally by the evacuator and by code that has already established
// o lies in to-space (e.g. right after ReadBarrier/Forward).
func (h *Heap) GetField(o Ref, i int) Ref {
	return Ref(loadWord(h.fieldAddr(o, i)))
}

func (h *Heap) setField(o Ref, i int, v Ref) {
	storeWord(h.fieldAddr(o, i), uint64(v))
}

// PokeHeader writes o's header word directly. Builders call this right
// after Alloc to establish an object's shape; the collector itself
// never calls it; it exists because Alloc only knows a word count, not
// a tag, and header bytes are collector bookkeeping rather than
// mutator-visible field data, so they bypass the read/write barrier
// API entirely.
func PokeHeader(o Ref, hdr runtime.Header) {
	storeWord(uintptr(o), uint64(hdr))
}

// IsSingleton reports whether p addresses one of the six global
// singletons rather than heap memory.
func (h *Heap) IsSingleton(p Ref) bool {
	_, ok := runtime.SingletonAt(uintptr(p))
	return ok
}
