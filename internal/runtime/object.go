// Package runtime is the collector's external collaborator: the object
// header layout, the tag enumeration, and the table of global singleton
// objects. The gc package never inspects a tag for correctness, only for
// diagnostics; it decodes field counts through the helpers here.
package runtime

import "unsafe"

// Tag identifies the shape of a heap object. The collector itself never
// branches on Tag — it is carried purely for diagnostics and for the
// mutator/builder code above the collector.
type Tag uint8

const (
	TagZero Tag = iota
	TagSucc
	TagTrue
	TagFalse
	TagFn
	TagRef
	TagUnit
	TagTuple
	TagInl
	TagInr
	TagEmpty
	TagCons
)

func (t Tag) String() string {
	switch t {
	case TagZero:
		return "Zero"
	case TagSucc:
		return "Succ"
	case TagTrue:
		return "True"
	case TagFalse:
		return "False"
	case TagFn:
		return "Fn"
	case TagRef:
		return "Ref"
	case TagUnit:
		return "Unit"
	case TagTuple:
		return "Tuple"
	case TagInl:
		return "Inl"
	case TagInr:
		return "Inr"
	case TagEmpty:
		return "Empty"
	case TagCons:
		return "Cons"
	default:
		return "Invalid"
	}
}

// Header is the single machine word that begins every heap object. The
// low byte carries the tag; the rest of the word carries the field
// count, mirroring STELLA_OBJECT_HEADER_FIELD_COUNT from the source
// this collector is modeled on.
type Header uint64

// NewHeader packs a tag and a field count into a header word.
func NewHeader(tag Tag, fieldCount int) Header {
	return Header(uint64(fieldCount)<<8 | uint64(tag))
}

// Tag decodes the object's tag from its header.
func (h Header) Tag() Tag { return Tag(h & 0xFF) }

// FieldCount decodes the number of runtime-visible fields from the
// header. This is the count the language runtime declared, not
// necessarily the number of words physically reserved for the object —
// see WordCount.
func (h Header) FieldCount() int { return int(h >> 8) }

// FieldCount decodes the number of runtime-visible fields straight from
// a header word, for callers that don't want to round-trip through the
// Header type's method set.
func FieldCount(h Header) int { return h.FieldCount() }

// WordCount returns the number of machine words an object with this
// header occupies, including the header word itself. Every object
// reserves at least one field slot so
// it always has somewhere to carry a forwarding pointer once evacuated,
// even when the runtime declared zero fields.
func WordCount(h Header) int {
	f := h.FieldCount()
	if f < 1 {
		f = 1
	}
	return f + 1
}

// Object is a statically allocated singleton: a value outside both
// semi-spaces, recognized by address and never copied or moved.
type Object struct {
	Header Header
	name   string
}

func (o *Object) String() string { return o.name }

// Addr returns the stable address of a singleton, used by the collector
// to recognize it by identity.
func Addr(o *Object) uintptr { return uintptr(unsafe.Pointer(o)) }

// The six global singletons: zero, unit, nil/empty-list, the empty
// tuple, and the two booleans.
var (
	Zero       = &Object{Header: NewHeader(TagZero, 0), name: "ZERO"}
	Unit       = &Object{Header: NewHeader(TagUnit, 0), name: "UNIT"}
	Empty      = &Object{Header: NewHeader(TagEmpty, 0), name: "EMPTY"}
	EmptyTuple = &Object{Header: NewHeader(TagTuple, 0), name: "EMPTY_TUPLE"}
	False      = &Object{Header: NewHeader(TagFalse, 0), name: "FALSE"}
	True       = &Object{Header: NewHeader(TagTrue, 0), name: "TRUE"}
)

var singletons = []*Object{Zero, Unit, Empty, EmptyTuple, False, True}

// SingletonAt returns the singleton living at addr, if any.
func SingletonAt(addr uintptr) (*Object, bool) {
	if addr == 0 {
		return nil, false
	}
	for _, s := range singletons {
		if Addr(s) == addr {
			return s, true
		}
	}
	return nil, false
}
