package vm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wudi/tracevm/values"
)

func TestConst(t *testing.T) {
	stack := values.NewStack()
	Const(stack, 42)
	if got := stack.PopUint(); got != 42 {
		t.Errorf("Const(42) pushed %d, want 42", got)
	}
}

func TestNewArray(t *testing.T) {
	stack := values.NewStack()
	NewArray(stack, 4)
	v := stack.Pop()
	if v.Type != values.TypeArray {
		t.Fatalf("NewArray() pushed a %s, want array", v.Type)
	}
	if len(v.Array()) != 0 {
		t.Errorf("NewArray(4) length = %d, want 0 (capacity hint only)", len(v.Array()))
	}
}

func TestPushElem(t *testing.T) {
	stack := values.NewStack()
	NewArray(stack, 2)
	stack.PushUint(5)
	if err := PushElem(stack); err != nil {
		t.Fatalf("PushElem() error = %v", err)
	}
	if stack.Len() != 1 {
		t.Fatalf("PushElem() left %d values, want 1 (array stays on top, not replaced)", stack.Len())
	}
	if got := stack.Top().Array(); len(got) != 1 || got[0] != 5 {
		t.Errorf("array after PushElem = %v, want [5]", got)
	}
}

func TestPushElem_NonArrayTop(t *testing.T) {
	stack := values.NewStack()
	stack.PushUint(1) // not an array
	stack.PushUint(5)
	if err := PushElem(stack); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("PushElem() onto non-array: err = %v, want ErrTypeMismatch", err)
	}
}

func TestArrayGet(t *testing.T) {
	stack := values.NewStack()
	stack.Push(values.NewArray([]uint64{10, 20, 30}))
	stack.PushUint(1)
	if err := ArrayGet(stack); err != nil {
		t.Fatalf("ArrayGet() error = %v", err)
	}
	if got := stack.PopUint(); got != 20 {
		t.Errorf("ArrayGet([10,20,30], 1) = %d, want 20", got)
	}
}

func TestArrayGet_OutOfRange(t *testing.T) {
	stack := values.NewStack()
	stack.Push(values.NewArray([]uint64{1, 2}))
	stack.PushUint(5)
	if err := ArrayGet(stack); !errors.Is(err, ErrArrayIndexOutOfRange) {
		t.Fatalf("ArrayGet() out of range: err = %v, want ErrArrayIndexOutOfRange", err)
	}
}

func TestLen(t *testing.T) {
	stack := values.NewStack()
	stack.Push(values.NewArray([]uint64{1, 2, 3}))
	if err := Len(stack); err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if got := stack.PopUint(); got != 3 {
		t.Errorf("Len([1,2,3]) = %d, want 3", got)
	}
}

func TestPrint_WritesUintsWithNewline(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)
	stack := values.NewStack()
	stack.PushUint(7)

	if err := Print(stack, sink); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.String() != "7\n" {
		t.Errorf("Print(7) wrote %q, want \"7\\n\"", buf.String())
	}
}

func TestPrint_DiscardsNonUintSilently(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)
	stack := values.NewStack()
	stack.PushBool(true)

	if err := Print(stack, sink); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Print(bool) wrote %q, want nothing", buf.String())
	}
}

func TestPrint_Underflow(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)
	if err := Print(values.NewStack(), sink); !errors.Is(err, ErrStackUnderflow) {
		t.Fatalf("Print() on empty stack: err = %v, want ErrStackUnderflow", err)
	}
}
