package vm

import (
	"fmt"
	"io"
	"sync"

	"github.com/wudi/tracevm/values"
)

// Const implements Const(n): push Uint(n).
func Const(stack *values.Stack, n uint64) {
	stack.PushUint(n)
}

// NewArray implements Array(cap): push an empty array hinting at capacity
// cap. Named NewArray, not Array, to avoid colliding with the opcodes.Array
// constructor when both packages are dot-imported in tests.
func NewArray(stack *values.Stack, capacity int) {
	stack.Push(values.NewArrayWithCapacity(capacity))
}

// PushElem implements Push: pop v, append it to the array currently on top
// of the stack, mutating that array in place (the stack top is not
// replaced).
func PushElem(stack *values.Stack) error {
	if stack.Len() < 2 {
		return NewInterpreterError(ErrStackUnderflow, "Push requires a value and an array")
	}
	v := stack.PopUint()
	top := stack.Top()
	if top.Type != values.TypeArray {
		return NewInterpreterError(ErrTypeMismatch, "Push onto non-array top of stack")
	}
	top.AppendArray(v)
	return nil
}

// ArrayGet implements ArrayGet: pop index, then array; push array[index].
func ArrayGet(stack *values.Stack) error {
	if stack.Len() < 2 {
		return NewInterpreterError(ErrStackUnderflow, "ArrayGet requires an index and an array")
	}
	index := stack.PopUint()
	xs := stack.PopArray()
	if index >= uint64(len(xs)) {
		return NewInterpreterError(ErrArrayIndexOutOfRange, "index %d, len %d", index, len(xs))
	}
	stack.PushUint(xs[index])
	return nil
}

// Len implements Len: pop an array, push its length.
func Len(stack *values.Stack) error {
	if stack.Len() < 1 {
		return NewInterpreterError(ErrStackUnderflow, "Len requires an array")
	}
	xs := stack.PopArray()
	stack.PushUint(uint64(len(xs)))
	return nil
}

// Sink is the host's standard-output target for Print, wrapped behind a
// mutex guarding the base writer: exactly one unbuffered level, nothing
// fancier than writing a single integer followed by a newline.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink wraps an io.Writer as a Print sink.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write implements Print's host-I/O side effect.
func (s *Sink) Write(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "%d\n", n)
	return err
}

// Print implements the Print instruction: pop a value; if it's a Uint,
// write it to sink followed by a newline, otherwise discard silently.
func Print(stack *values.Stack, sink *Sink) error {
	if stack.Len() < 1 {
		return NewInterpreterError(ErrStackUnderflow, "Print requires a value")
	}
	v := stack.Pop()
	if v.Type != values.TypeUint {
		return nil
	}
	return sink.Write(v.Uint())
}
