package vm

import (
	"testing"

	"github.com/wudi/tracevm/module"
	"github.com/wudi/tracevm/values"
)

func testFunction() *module.Function {
	return &module.Function{Name: "f", ArgsCount: 2, LocalsCount: 1}
}

func TestNewCallFrame_LocalsAllNull(t *testing.T) {
	fn := testFunction()
	frame := NewCallFrame(fn, module.NewInstructionPointer(fn, 0))

	if frame.ArgsCount != 2 {
		t.Errorf("ArgsCount = %d, want 2", frame.ArgsCount)
	}
	if len(frame.Locals) != fn.FrameSize() {
		t.Fatalf("len(Locals) = %d, want %d", len(frame.Locals), fn.FrameSize())
	}
	for i, v := range frame.Locals {
		if v.Type != values.TypeNull {
			t.Errorf("Locals[%d].Type = %s, want null", i, v.Type)
		}
	}
}

func TestCallStack_PushPopTopDepth(t *testing.T) {
	cs := NewCallStack()
	if !cs.Empty() {
		t.Fatalf("new CallStack must be Empty()")
	}

	fn := testFunction()
	f1 := NewCallFrame(fn, module.Entry(fn))
	f2 := NewCallFrame(fn, module.Entry(fn))

	cs.Push(f1)
	cs.Push(f2)

	if cs.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", cs.Depth())
	}
	if cs.Top() != f2 {
		t.Fatalf("Top() did not return the most recently pushed frame")
	}

	popped := cs.Pop()
	if popped != f2 {
		t.Fatalf("Pop() returned the wrong frame")
	}
	if cs.Depth() != 1 {
		t.Fatalf("Depth() after one Pop() = %d, want 1", cs.Depth())
	}
	if cs.Top() != f1 {
		t.Fatalf("Top() after popping f2 must be f1")
	}

	cs.Pop()
	if !cs.Empty() {
		t.Fatalf("CallStack must be Empty() after popping every frame")
	}
}

func TestCallStack_PopEmptyReturnsNil(t *testing.T) {
	cs := NewCallStack()
	if cs.Pop() != nil {
		t.Fatalf("Pop() on an empty CallStack must return nil")
	}
	if cs.Top() != nil {
		t.Fatalf("Top() on an empty CallStack must return nil")
	}
}
