package replui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kestrel-lang/bakergc/internal/gc"
	"github.com/kestrel-lang/bakergc/internal/mutator"
	"github.com/kestrel-lang/bakergc/internal/runtime"
)

// Console interprets REPL command lines against a live heap. Allocated
// objects are numbered slots ($0, $1, ...) so a terminal session can
// refer to them without typing raw addresses; each slot is its own
// *gc.Ref allocation so PushRoot's address stays valid no matter how
// the slots slice itself grows.
type Console struct {
	Heap  *gc.Heap
	slots []*gc.Ref
	roots []int // indices into slots, in PushRoot order (a stack)
}

// NewConsole wraps a heap for interactive use.
func NewConsole(h *gc.Heap) *Console {
	return &Console{Heap: h}
}

// Run parses and executes one command line, returning the lines to
// display and whether the session should exit.
func (c *Console) Run(line string) (output []string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}

	switch fields[0] {
	case "help":
		return helpText(), false
	case "quit", "exit":
		return []string{"bye"}, true
	case "alloc":
		return c.cmdAlloc(fields[1:])
	case "push":
		return c.cmdPush(fields[1:])
	case "pop":
		return c.cmdPop()
	case "read":
		return c.cmdRead(fields[1:])
	case "write":
		return c.cmdWrite(fields[1:])
	case "flip":
		return c.cmdFlip()
	case "stats":
		return c.cmdStats(), false
	case "doctor":
		return c.cmdDoctor(), false
	case "list":
		return c.cmdList(), false
	default:
		return []string{fmt.Sprintf("unknown command: %s (try \"help\")", fields[0])}, false
	}
}

func helpText() []string {
	return []string{
		"alloc <k>:<tag> [f0 f1 ...] — allocate a k-field object of the given tag",
		"                    (tag one of zero, succ, true, false, fn, ref, unit,",
		"                    tuple, inl, inr, empty, cons), optionally writing",
		"                    field values ($slot, zero, empty, or nil)",
		"push <slot>        — register a slot as a GC root",
		"pop                — release the most recently pushed root",
		"read <slot> <i>    — read field i of a slot through the read barrier",
		"write <slot> <i> <slot>|zero|empty — write field i through the write barrier",
		"flip               — force an immediate collection cycle",
		"stats              — print allocation counters",
		"doctor             — check heap invariants",
		"list               — list live slots and their addresses",
		"quit               — exit the console",
	}
}

// tagByName maps the lowercase names accepted by the alloc command's
// shape argument to the runtime tag they select.
var tagByName = map[string]runtime.Tag{
	"zero":  runtime.TagZero,
	"succ":  runtime.TagSucc,
	"true":  runtime.TagTrue,
	"false": runtime.TagFalse,
	"fn":    runtime.TagFn,
	"ref":   runtime.TagRef,
	"unit":  runtime.TagUnit,
	"tuple": runtime.TagTuple,
	"inl":   runtime.TagInl,
	"inr":   runtime.TagInr,
	"empty": runtime.TagEmpty,
	"cons":  runtime.TagCons,
}

// parseShape parses the "k:TAG" shape argument of the alloc command
// into a field count and a tag.
func parseShape(arg string) (int, runtime.Tag, error) {
	k, tagName, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, 0, fmt.Errorf("expected <fieldcount>:<tag>, got %q", arg)
	}
	fieldCount, err := strconv.Atoi(k)
	if err != nil || fieldCount < 0 {
		return 0, 0, fmt.Errorf("field count must be a non-negative integer, got %q", k)
	}
	tag, ok := tagByName[strings.ToLower(tagName)]
	if !ok {
		return 0, 0, fmt.Errorf("unknown tag %q (want zero, succ, true, false, fn, ref, unit, tuple, inl, inr, empty, or cons)", tagName)
	}
	return fieldCount, tag, nil
}

// cmdAlloc implements "alloc k:TAG f0 f1 …": allocate an object with
// the declared field count and tag, writing as many of the trailing
// field arguments as were given ($slot, zero, empty, or nil) through
// the write barrier; any fields left unspecified stay at the zero
// value Alloc already gave them.
func (c *Console) cmdAlloc(args []string) ([]string, bool) {
	if len(args) < 1 {
		return []string{"usage: alloc <fieldcount>:<tag> [field0 field1 ...]"}, false
	}
	fieldCount, tag, err := parseShape(args[0])
	if err != nil {
		return []string{err.Error()}, false
	}
	fieldArgs := args[1:]
	if len(fieldArgs) > fieldCount {
		return []string{fmt.Sprintf("too many field values: shape declares %d field(s)", fieldCount)}, false
	}

	hdr := runtime.NewHeader(tag, fieldCount)
	ref, err := c.Heap.Alloc(runtime.WordCount(hdr))
	if err != nil {
		return []string{err.Error()}, false
	}
	gc.PokeHeader(ref, hdr)

	descs := make([]string, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		if i >= len(fieldArgs) {
			descs = append(descs, fmt.Sprintf("f%d=nil", i))
			continue
		}
		val, err := c.resolveValue(fieldArgs[i])
		if err != nil {
			return []string{err.Error()}, false
		}
		c.Heap.WriteBarrier(ref, i, val)
		descs = append(descs, fmt.Sprintf("f%d=%s", i, fieldArgs[i]))
	}

	cell := new(gc.Ref)
	*cell = ref
	c.slots = append(c.slots, cell)
	slot := len(c.slots) - 1
	shape := fmt.Sprintf("%s, %d field(s)", tag, fieldCount)
	if len(descs) > 0 {
		shape += ", " + strings.Join(descs, " ")
	}
	return []string{fmt.Sprintf("$%d = 0x%x (%s)", slot, uintptr(ref), shape)}, false
}

func (c *Console) resolveSlot(arg string) (*gc.Ref, int, error) {
	if !strings.HasPrefix(arg, "$") {
		return nil, 0, fmt.Errorf("expected a slot like $0, got %q", arg)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "$"))
	if err != nil || n < 0 || n >= len(c.slots) {
		return nil, 0, fmt.Errorf("no such slot: %s", arg)
	}
	return c.slots[n], n, nil
}

func (c *Console) resolveValue(arg string) (gc.Ref, error) {
	switch arg {
	case "zero":
		return gc.RefOf(runtime.Zero), nil
	case "empty":
		return gc.RefOf(runtime.Empty), nil
	case "nil", "null":
		return gc.NullRef, nil
	default:
		cell, _, err := c.resolveSlot(arg)
		if err != nil {
			return gc.NullRef, err
		}
		return *cell, nil
	}
}

func (c *Console) cmdPush(args []string) ([]string, bool) {
	if len(args) != 1 {
		return []string{"usage: push <slot>"}, false
	}
	cell, idx, err := c.resolveSlot(args[0])
	if err != nil {
		return []string{err.Error()}, false
	}
	if err := c.Heap.PushRoot(cell); err != nil {
		return []string{err.Error()}, false
	}
	c.roots = append(c.roots, idx)
	return []string{fmt.Sprintf("pushed $%d as root (depth %d)", idx, c.Heap.RootDepth())}, false
}

func (c *Console) cmdPop() ([]string, bool) {
	if len(c.roots) == 0 {
		return []string{"root stack is empty"}, false
	}
	last := len(c.roots) - 1
	idx := c.roots[last]
	c.roots = c.roots[:last]
	c.Heap.PopRoot(c.slots[idx])
	return []string{fmt.Sprintf("popped $%d (depth %d)", idx, c.Heap.RootDepth())}, false
}

func (c *Console) cmdRead(args []string) ([]string, bool) {
	if len(args) != 2 {
		return []string{"usage: read <slot> <field>"}, false
	}
	cell, _, err := c.resolveSlot(args[0])
	if err != nil {
		return []string{err.Error()}, false
	}
	field, err := strconv.Atoi(args[1])
	if err != nil {
		return []string{"field index must be an integer"}, false
	}
	v, err := c.Heap.ReadBarrier(*cell, field)
	if err != nil {
		return []string{err.Error()}, false
	}
	return []string{fmt.Sprintf("field %d = 0x%x", field, uintptr(v))}, false
}

func (c *Console) cmdWrite(args []string) ([]string, bool) {
	if len(args) != 3 {
		return []string{"usage: write <slot> <field> <slot>|zero|empty|nil"}, false
	}
	cell, _, err := c.resolveSlot(args[0])
	if err != nil {
		return []string{err.Error()}, false
	}
	field, err := strconv.Atoi(args[1])
	if err != nil {
		return []string{"field index must be an integer"}, false
	}
	val, err := c.resolveValue(args[2])
	if err != nil {
		return []string{err.Error()}, false
	}
	c.Heap.WriteBarrier(*cell, field, val)
	return []string{fmt.Sprintf("wrote field %d = 0x%x", field, uintptr(val))}, false
}

func (c *Console) cmdFlip() ([]string, bool) {
	if err := c.Heap.ForceFlip(); err != nil {
		return []string{err.Error()}, false
	}
	return []string{"collection cycle complete"}, false
}

func (c *Console) cmdStats() []string {
	var b strings.Builder
	c.Heap.PrintGCAllocStats(&b)
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

func (c *Console) cmdDoctor() []string {
	rep := c.Heap.CheckInvariants()
	if rep.OK() {
		return []string{"all invariants hold"}
	}
	lines := []string{"invariant violations found:"}
	return append(lines, rep.Details...)
}

func (c *Console) cmdList() []string {
	if len(c.slots) == 0 {
		return []string{"no slots allocated"}
	}
	lines := make([]string, 0, len(c.slots))
	for i, cell := range c.slots {
		lines = append(lines, fmt.Sprintf("$%d = 0x%x", i, uintptr(*cell)))
	}
	return lines
}

// BuildSeed allocates a deterministic starter structure — a ten-element
// list rooted at $0 — so a fresh console has something to inspect
// immediately.
func (c *Console) BuildSeed() ([]string, error) {
	head, err := mutator.BuildList(c.Heap, 10)
	if err != nil {
		return nil, err
	}
	cell := new(gc.Ref)
	*cell = head
	c.slots = append(c.slots, cell)
	idx := len(c.slots) - 1
	if err := c.Heap.PushRoot(cell); err != nil {
		return nil, err
	}
	c.roots = append(c.roots, idx)
	return []string{fmt.Sprintf("seeded $%d = 0x%x (a 10-element list, rooted)", idx, uintptr(head))}, nil
}
