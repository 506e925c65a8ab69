package trace

import (
	"log"

	"github.com/wudi/tracevm/module"
	"github.com/wudi/tracevm/opcodes"
	"github.com/wudi/tracevm/values"
	"github.com/wudi/tracevm/vm"
)

// Recorder shares the dispatcher's operand stack and call-frame stack: it
// executes instructions for real against them (so the dispatcher's state
// after recording is exactly what plain interpretation would have produced)
// while simultaneously appending a linearized, flattened form into a trace
// buffer. Grounded on original_source/src/main.rs's Interpreter::trace.
type Recorder struct {
	Module *module.Module
	Stack  *values.Stack
	Frames *vm.CallStack
	Sink   *vm.Sink
	Debug  bool
}

// NewRecorder builds a recorder sharing the dispatcher's live state.
func NewRecorder(mod *module.Module, stack *values.Stack, frames *vm.CallStack, sink *vm.Sink) *Recorder {
	return &Recorder{Module: mod, Stack: stack, Frames: frames, Sink: sink}
}

// Result is what a recording pass produces: the trace (if the recorder
// reached a Loop marker) and the instruction pointer where dispatch should
// resume. Halted is true if recording instead ran off the end of the whole
// program (the outermost Return emptied the frame stack) — in that case
// Trace is still meaningful as a record of what executed, but there is no
// loop header left to cache it under and the dispatcher should treat this
// as ordinary program termination.
type Result struct {
	Resume module.InstructionPointer
	Trace  *Trace
	Halted bool
}

// Record executes and linearizes one hot-loop iteration starting just after
// a Loop instruction.
func (r *Recorder) Record(start module.InstructionPointer) (Result, error) {
	fn := start.Func
	pc := start.PC

	alloc := NewAllocator()
	alloc.Alloc(fn.FrameSize()) // seed: this function's own frame, offset 0

	outer := r.Frames.Top()
	chain := NewFrameChain(FrameInfo{Function: fn, ReturnPtr: outer.ReturnPtr, Offset: 0})

	var body []Instruction

	for {
		instr := fn.Instrs[pc]
		pc++

		if r.Debug {
			log.Printf("trace: record %s[%d]: %s", fn.Name, pc-1, instr)
		}

		switch instr.Op {
		case opcodes.OpLoop:
			return Result{
				Resume: module.NewInstructionPointer(fn, pc),
				Trace:  &Trace{Body: body, LocalsCount: alloc.TotalSize()},
			}, nil

		case opcodes.OpBreak:
			// Unreachable in well-formed programs: Break only ever appears
			// after the Loop that closes a body, never inside one.
			continue

		case opcodes.OpClone:
			body = append(body, Instruction{Op: OpClone})

		case opcodes.OpConst:
			vm.Const(r.Stack, instr.N)
			body = append(body, Instruction{Op: OpConst, N: instr.N})

		case opcodes.OpAdd:
			if err := vm.Add(r.Stack); err != nil {
				return Result{}, err
			}
			body = append(body, Instruction{Op: OpAdd})

		case opcodes.OpCmp:
			if err := vm.Cmp(r.Stack, instr.Cmp); err != nil {
				return Result{}, err
			}
			body = append(body, Instruction{Op: OpCmp, Cmp: instr.Cmp})

		case opcodes.OpLoad:
			frame := r.Frames.Top()
			r.Stack.Push(frame.Locals[instr.Idx].Clone())
			body = append(body, Instruction{Op: OpLoad, Idx: alloc.At(instr.Idx)})

		case opcodes.OpStore:
			frame := r.Frames.Top()
			frame.Locals[instr.Idx] = r.Stack.Pop()
			body = append(body, Instruction{Op: OpStore, Idx: alloc.At(instr.Idx)})

		case opcodes.OpArray:
			vm.NewArray(r.Stack, instr.Cap)
			body = append(body, Instruction{Op: OpArray, Cap: instr.Cap})

		case opcodes.OpArrayGet:
			if err := vm.ArrayGet(r.Stack); err != nil {
				return Result{}, err
			}
			body = append(body, Instruction{Op: OpArrayGet})

		case opcodes.OpPush:
			if err := vm.PushElem(r.Stack); err != nil {
				return Result{}, err
			}
			body = append(body, Instruction{Op: OpPush})

		case opcodes.OpLen:
			if err := vm.Len(r.Stack); err != nil {
				return Result{}, err
			}
			body = append(body, Instruction{Op: OpLen})

		case opcodes.OpPrint:
			if err := vm.Print(r.Stack, r.Sink); err != nil {
				return Result{}, err
			}
			body = append(body, Instruction{Op: OpPrint})

		case opcodes.OpCall:
			target, ok := r.Module.Lookup(instr.Name)
			if !ok {
				return Result{}, vm.NewInterpreterError(vm.ErrUnknownFunction, "%q", instr.Name).WithPosition(fn.Name, pc-1)
			}
			frame := vm.NewCallFrame(target, module.NewInstructionPointer(fn, pc))

			offset := alloc.Alloc(target.FrameSize())
			for idx := 0; idx < frame.ArgsCount; idx++ {
				frame.Locals[idx] = r.Stack.Pop()
				body = append(body, Instruction{Op: OpStore, Idx: alloc.At(idx)})
			}

			chain = chain.Push(FrameInfo{Function: target, ReturnPtr: frame.ReturnPtr, Offset: offset})
			r.Frames.Push(frame)

			fn = target
			pc = 0

		case opcodes.OpReturn:
			alloc.Pop()
			popped := r.Frames.Pop()
			if r.Frames.Empty() {
				return Result{Trace: &Trace{Body: body, LocalsCount: alloc.TotalSize()}, Halted: true}, nil
			}
			chain = chain.Pop()
			fn = popped.ReturnPtr.Func
			pc = popped.ReturnPtr.PC

		case opcodes.OpJump:
			pc = instr.Target

		case opcodes.OpJumpIfFalse:
			b := r.Stack.PopBool()
			guardPC := pc - 1
			if !b {
				pc = instr.Target
			}
			body = append(body, Instruction{Op: OpGuard, Guard: &Guard{Condition: b, FrameChain: chain, PC: guardPC}})

		case opcodes.OpJumpIfTrue:
			b := r.Stack.PopBool()
			guardPC := pc - 1
			if b {
				pc = instr.Target
			}
			body = append(body, Instruction{Op: OpGuard, Guard: &Guard{Condition: b, FrameChain: chain, PC: guardPC}})

		default:
			return Result{}, vm.NewInterpreterError(vm.ErrUnimplementedOpcode, "%s", instr.Op).WithPosition(fn.Name, pc-1)
		}
	}
}
