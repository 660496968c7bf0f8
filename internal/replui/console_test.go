package replui

import (
	"strings"
	"testing"

	"github.com/kestrel-lang/bakergc/internal/gc"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	h, err := gc.NewHeap(gc.DefaultSpaceSize, gc.DefaultRootDepth)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(h.Close)
	return NewConsole(h)
}

func TestCmdAllocHonorsShapeAndFields(t *testing.T) {
	c := newTestConsole(t)

	out, quit := c.Run("alloc 2:cons zero empty")
	if quit {
		t.Fatal("alloc should not quit the console")
	}
	if len(out) != 1 {
		t.Fatalf("expected one line of output, got %v", out)
	}
	if !strings.Contains(out[0], "$0") || !strings.Contains(out[0], "Cons") {
		t.Fatalf("unexpected alloc output: %q", out[0])
	}

	headOut, _ := c.Run("read $0 0")
	if len(headOut) != 1 || !strings.Contains(headOut[0], "field 0") {
		t.Fatalf("unexpected read output: %v", headOut)
	}
}

func TestCmdAllocZeroFieldShape(t *testing.T) {
	c := newTestConsole(t)

	out, _ := c.Run("alloc 0:unit")
	if len(out) != 1 || !strings.Contains(out[0], "Unit") {
		t.Fatalf("unexpected alloc output: %v", out)
	}

	// No field values were given, so nothing should be writable beyond
	// the declared shape.
	rejected, _ := c.Run("alloc 0:unit extra-field")
	if len(rejected) != 1 || !strings.Contains(rejected[0], "too many field values") {
		t.Fatalf("expected a too-many-fields error, got %v", rejected)
	}
}

func TestCmdAllocUnknownTag(t *testing.T) {
	c := newTestConsole(t)

	out, _ := c.Run("alloc 1:bogus $0")
	if len(out) != 1 || !strings.Contains(out[0], "unknown tag") {
		t.Fatalf("expected an unknown-tag error, got %v", out)
	}
}

func TestCmdAllocLeavesUnspecifiedFieldsNil(t *testing.T) {
	c := newTestConsole(t)

	c.Run("alloc 2:cons")
	out, _ := c.Run("read $0 0")
	if len(out) != 1 || !strings.Contains(out[0], "0x0") {
		t.Fatalf("expected field 0 to default to nil, got %v", out)
	}
}
