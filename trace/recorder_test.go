package trace

import (
	"bytes"
	"testing"

	"github.com/wudi/tracevm/module"
	"github.com/wudi/tracevm/opcodes"
	"github.com/wudi/tracevm/values"
	"github.com/wudi/tracevm/vm"
)

// countTo builds a single-function module: count_to(n) loops i from 0 to n,
// printing i just before returning. Grounded in the shape of
// original_source/src/main.rs's min_list loop (arg in slot 0, loop counter in
// slot 1, body guarded by a Cmp/JumpIfFalse pair).
func countTo() *module.Function {
	return &module.Function{
		Name:        "count_to",
		ArgsCount:   1,
		LocalsCount: 1,
		Instrs: []opcodes.Instruction{
			opcodes.Const(0),               // 0
			opcodes.Store(1),                // 1: i = 0
			opcodes.Loop(),                  // 2
			opcodes.Load(0),                 // 3: push n
			opcodes.Load(1),                 // 4: push i
			opcodes.Cmp(opcodes.CmpLt),       // 5: i < n
			opcodes.JumpIfFalse(12),         // 6: exit when not(i<n)
			opcodes.Load(1),                 // 7
			opcodes.Const(1),                // 8
			opcodes.Add(),                   // 9: i+1
			opcodes.Store(1),                // 10
			opcodes.Jump(2),                 // 11: back to Loop
			opcodes.Load(1),                 // 12
			opcodes.Print(),                 // 13
			opcodes.Return(),                // 14
		},
	}
}

func TestRecorder_RecordsOneIterationWithOneGuard(t *testing.T) {
	fn := countTo()
	mod := module.New(fn)

	frame := vm.NewCallFrame(fn, module.Entry(fn))
	frame.Locals[0] = values.NewUint(3) // n = 3
	frame.Locals[1] = values.NewUint(0) // i = 0, as if pc 0-1 already ran

	frames := vm.NewCallStack()
	frames.Push(frame)
	stack := values.NewStack()
	sink := vm.NewSink(&bytes.Buffer{})

	rec := NewRecorder(mod, stack, frames, sink)
	result, err := rec.Record(module.NewInstructionPointer(fn, 3))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if result.Halted {
		t.Fatalf("Record reported Halted, want a Loop-terminated recording")
	}
	if result.Trace == nil {
		t.Fatalf("Record returned a nil Trace")
	}
	if got := result.Trace.GuardCount(); got != 1 {
		t.Fatalf("GuardCount() = %d, want 1", got)
	}
	if got := result.Trace.LocalsCount; got != fn.FrameSize() {
		t.Fatalf("LocalsCount = %d, want %d (no nested calls)", got, fn.FrameSize())
	}
	if result.Resume.PC != 3 {
		t.Fatalf("Resume.PC = %d, want 3 (pc right after the Loop instruction)", result.Resume.PC)
	}

	if stack.Len() != 0 {
		t.Fatalf("operand stack not empty after Record: Len() = %d", stack.Len())
	}
	if got := frame.Locals[1].Uint(); got != 1 {
		t.Fatalf("real execution side effect missing: locals[1] = %d, want 1", got)
	}

	guardInstr := result.Trace.Body[3]
	if guardInstr.Op != OpGuard {
		t.Fatalf("Body[3].Op = %v, want OpGuard", guardInstr.Op)
	}
	if !guardInstr.Guard.Condition {
		t.Fatalf("recorded guard condition = false, want true (i<n held on the recorded iteration)")
	}
	if guardInstr.Guard.PC != 6 {
		t.Fatalf("recorded guard PC = %d, want 6 (the JumpIfFalse instruction itself)", guardInstr.Guard.PC)
	}
}

func TestRecorder_UnknownCallTargetErrors(t *testing.T) {
	fn := &module.Function{
		Name: "caller",
		Instrs: []opcodes.Instruction{
			opcodes.Loop(),
			opcodes.Call("does_not_exist"),
		},
	}
	mod := module.New(fn)
	frame := vm.NewCallFrame(fn, module.Entry(fn))
	frames := vm.NewCallStack()
	frames.Push(frame)
	rec := NewRecorder(mod, values.NewStack(), frames, vm.NewSink(&bytes.Buffer{}))

	_, err := rec.Record(module.NewInstructionPointer(fn, 1))
	if err == nil {
		t.Fatalf("Record with an unresolvable Call target must error")
	}
}
