package trace

import "github.com/wudi/tracevm/module"

// FrameInfo is a recorder-side companion to vm.CallFrame, captured into
// guards: enough to rebuild one interpreter call frame during recovery.
type FrameInfo struct {
	Function  *module.Function
	ReturnPtr module.InstructionPointer
	Offset    int // base index of this frame's locals in the flat buffer
}

// FrameChain is a persistent (immutable, structurally shared) linked list
// of FrameInfo, innermost frame first. Push returns a new head; existing
// guards holding an older head keep seeing exactly the chain they captured,
// even after the recorder pushes further Calls — this is what lets many
// guards share prefixes of the call tree in O(1) per snapshot (grounded on
// the reference implementation's use of the `kaktus` persistent stack
// crate; see DESIGN.md for why this is a small hand-rolled equivalent
// instead of a borrowed package).
type FrameChain struct {
	info   FrameInfo
	parent *FrameChain
}

// NewFrameChain starts a chain with a single (outermost/root) entry.
func NewFrameChain(info FrameInfo) *FrameChain {
	return &FrameChain{info: info}
}

// Push returns a new chain head with info as the innermost frame, sharing
// the receiver as its parent. The receiver is left untouched.
func (c *FrameChain) Push(info FrameInfo) *FrameChain {
	return &FrameChain{info: info, parent: c}
}

// Pop returns the parent chain, discarding the innermost entry. Popping the
// root (parent == nil) is a programmer error: the recorder never pops below
// the entry it seeded the chain with.
func (c *FrameChain) Pop() *FrameChain {
	return c.parent
}

// Innermost is the chain head's own FrameInfo.
func (c *FrameChain) Innermost() FrameInfo {
	return c.info
}

// ToSlice flattens the chain innermost-first (index 0 is the chain head,
// the last element is the root).
func (c *FrameChain) ToSlice() []FrameInfo {
	var out []FrameInfo
	for node := c; node != nil; node = node.parent {
		out = append(out, node.info)
	}
	return out
}
