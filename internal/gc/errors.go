package gc

import "fmt"

// OOMError is raised when a primitive would advance next past limit, or
// when Alloc still doesn't have room after draining and flipping. This
// is not recoverable: there is no heap growth path. The collector
// itself never calls os.Exit — it returns this error so a caller (the
// CLI, a test) decides how to report and terminate.
type OOMError struct {
	Requested int
	Dump      string
}

func (e *OOMError) Error() string {
	return fmt.Sprintf("out of memory: could not satisfy a %d-byte request\n%s", e.Requested, e.Dump)
}

// RootOverflowError is raised by PushRoot beyond the configured maximum
// depth, a programming error distinct from OOM.
type RootOverflowError struct {
	MaxDepth int
}

func (e *RootOverflowError) Error() string {
	return fmt.Sprintf("gc root stack overflow: depth exceeds %d", e.MaxDepth)
}
