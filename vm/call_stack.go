// Package vm holds the low-level execution machinery shared by the plain
// bytecode dispatcher and the trace recorder/runner: call frames, the call
// stack, the sentinel error set, and small per-opcode helpers. The dispatch
// loop itself lives in package interpreter, which composes this package
// with package trace.
package vm

import (
	"github.com/wudi/tracevm/module"
	"github.com/wudi/tracevm/values"
)

// CallFrame is per-invocation storage: the saved return pointer, the
// argument count, and a flat locals slice of length
// Function.FrameSize(), initialized with Null and mutated only by
// Load/Store and call-argument binding.
type CallFrame struct {
	ReturnPtr module.InstructionPointer
	ArgsCount int
	Locals    []*values.Value
}

// NewCallFrame allocates a frame for fn, all locals set to Null.
func NewCallFrame(fn *module.Function, returnPtr module.InstructionPointer) *CallFrame {
	locals := make([]*values.Value, fn.FrameSize())
	for i := range locals {
		locals[i] = values.Null()
	}
	return &CallFrame{
		ReturnPtr: returnPtr,
		ArgsCount: fn.ArgsCount,
		Locals:    locals,
	}
}

// CallStack is the dispatcher's stack of call frames, exclusively owned by
// whichever engine currently holds the interpreter (the plain dispatcher or
// a recorder/runner borrowing it for recovery).
type CallStack struct {
	frames []*CallFrame
}

// NewCallStack returns an empty call stack.
func NewCallStack() *CallStack {
	return &CallStack{frames: make([]*CallFrame, 0, 8)}
}

// Push adds a frame to the top of the stack.
func (cs *CallStack) Push(frame *CallFrame) {
	cs.frames = append(cs.frames, frame)
}

// Pop removes and returns the top frame, or nil if the stack is empty.
func (cs *CallStack) Pop() *CallFrame {
	n := len(cs.frames)
	if n == 0 {
		return nil
	}
	frame := cs.frames[n-1]
	cs.frames = cs.frames[:n-1]
	return frame
}

// Top returns the innermost frame, or nil if the stack is empty.
func (cs *CallStack) Top() *CallFrame {
	if len(cs.frames) == 0 {
		return nil
	}
	return cs.frames[len(cs.frames)-1]
}

// Depth reports how many frames are currently on the stack.
func (cs *CallStack) Depth() int {
	return len(cs.frames)
}

// Empty reports whether the call stack has no frames.
func (cs *CallStack) Empty() bool {
	return len(cs.frames) == 0
}
