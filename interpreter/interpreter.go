// Package interpreter composes vm (low-level machinery) and trace (the
// recorder/runner/cache) into the actual dispatch loop. It is a separate
// package from both so that trace can depend on vm (call frames, the stack,
// sentinel errors) without a cycle back through the dispatcher that drives
// it.
package interpreter

import (
	"log"

	"github.com/wudi/tracevm/module"
	"github.com/wudi/tracevm/opcodes"
	"github.com/wudi/tracevm/telemetry"
	"github.com/wudi/tracevm/trace"
	"github.com/wudi/tracevm/values"
	"github.com/wudi/tracevm/vm"
)

// DebugLevel controls how much the dispatcher narrates over the standard
// library log package.
type DebugLevel int

const (
	DebugLevelNone DebugLevel = iota
	DebugLevelBasic
	DebugLevelTrace
)

// Interpreter is the primary execution engine: it owns the value stack and
// the call-frame stack, detects loop headers, and switches between the
// trace runner (cache hit) and the trace recorder (cache miss).
type Interpreter struct {
	Module *module.Module

	Stack  *values.Stack
	Frames *vm.CallStack
	Sink   *vm.Sink

	Cache   *trace.Cache
	Counter *trace.CallCounter
	Profile *vm.ProfileState

	Telemetry telemetry.Sink
	RunID     string

	DebugLevel DebugLevel

	// Tracing selects which of two execution modes a Loop instruction gets:
	// true switches between the trace runner and recorder at the loop
	// header, false treats Loop as a no-op, matching plain dispatch (the
	// guest program's own Jump back to the loop header still repeats the
	// body). Defaults to true; set false to run the plain bytecode
	// dispatcher for comparison against the traced execution mode.
	Tracing bool
}

// New builds an Interpreter over mod, writing Print output to sink.
// Telemetry defaults to telemetry.Noop{}; set the Telemetry field directly
// to wire a real sink.
func New(mod *module.Module, sink *vm.Sink) *Interpreter {
	return &Interpreter{
		Module:    mod,
		Stack:     values.NewStack(),
		Frames:    vm.NewCallStack(),
		Sink:      sink,
		Cache:     trace.NewCache(),
		Counter:   trace.NewCallCounter(),
		Profile:   vm.NewProfileState(),
		Telemetry: telemetry.Noop{},
		Tracing:   true,
	}
}

func (ip *Interpreter) logf(level DebugLevel, format string, args ...interface{}) {
	if ip.DebugLevel >= level {
		log.Printf(format, args...)
	}
}

// Run begins execution at "main": pc=0, a single sentinel call frame whose
// return pointer loops back to main's own start (Return popping that final
// frame empties the stack and halts). It returns when the program halts or
// a malformed-program or unimplemented-operation error occurs.
func (ip *Interpreter) Run() error {
	main, ok := ip.Module.Lookup("main")
	if !ok {
		return vm.NewInterpreterError(vm.ErrMissingMain, "")
	}

	sentinel := vm.NewCallFrame(main, module.Entry(main))
	ip.Frames.Push(sentinel)

	return ip.dispatch(module.Entry(main))
}

// dispatch is the main instruction loop, starting at ip0. It is a plain loop
// rather than recursion so that deep guest call chains don't grow the host
// stack.
func (ip *Interpreter) dispatch(ip0 module.InstructionPointer) error {
	ipc := ip0

	for {
		fn := ipc.Func
		pc := ipc.PC
		instr := fn.Instrs[pc]
		ip.Profile.Observe(fn.Name, pc, instr.Op)
		ip.logf(DebugLevelTrace, "dispatch %s[%d]: %s", fn.Name, pc, instr)

		next := pc + 1

		switch instr.Op {
		case opcodes.OpConst:
			vm.Const(ip.Stack, instr.N)

		case opcodes.OpAdd:
			if err := vm.Add(ip.Stack); err != nil {
				return err
			}

		case opcodes.OpCmp:
			if err := vm.Cmp(ip.Stack, instr.Cmp); err != nil {
				return err
			}

		case opcodes.OpLoad:
			frame := ip.Frames.Top()
			ip.Stack.Push(frame.Locals[instr.Idx].Clone())

		case opcodes.OpStore:
			frame := ip.Frames.Top()
			frame.Locals[instr.Idx] = ip.Stack.Pop()

		case opcodes.OpArray:
			vm.NewArray(ip.Stack, instr.Cap)

		case opcodes.OpArrayGet:
			if err := vm.ArrayGet(ip.Stack); err != nil {
				return err
			}

		case opcodes.OpPush:
			if err := vm.PushElem(ip.Stack); err != nil {
				return err
			}

		case opcodes.OpLen:
			if err := vm.Len(ip.Stack); err != nil {
				return err
			}

		case opcodes.OpPrint:
			if err := vm.Print(ip.Stack, ip.Sink); err != nil {
				return err
			}

		case opcodes.OpClone:
			// no-op

		case opcodes.OpCall:
			target, ok := ip.Module.Lookup(instr.Name)
			if !ok {
				return vm.NewInterpreterError(vm.ErrUnknownFunction, "%q", instr.Name).WithPosition(fn.Name, pc)
			}
			frame := vm.NewCallFrame(target, module.NewInstructionPointer(fn, next))
			for idx := 0; idx < frame.ArgsCount; idx++ {
				frame.Locals[idx] = ip.Stack.Pop()
			}
			ip.Frames.Push(frame)
			ipc = module.Entry(target)
			continue

		case opcodes.OpReturn:
			popped := ip.Frames.Pop()
			if ip.Frames.Empty() {
				return nil
			}
			ipc = popped.ReturnPtr
			continue

		case opcodes.OpJump:
			ipc = module.NewInstructionPointer(fn, instr.Target)
			continue

		case opcodes.OpJumpIfFalse:
			b := ip.Stack.PopBool()
			if !b {
				ipc = module.NewInstructionPointer(fn, instr.Target)
			} else {
				ipc = module.NewInstructionPointer(fn, next)
			}
			continue

		case opcodes.OpJumpIfTrue:
			b := ip.Stack.PopBool()
			if b {
				ipc = module.NewInstructionPointer(fn, instr.Target)
			} else {
				ipc = module.NewInstructionPointer(fn, next)
			}
			continue

		case opcodes.OpLoop:
			if !ip.Tracing {
				break
			}
			resume, halted, err := ip.enterLoop(fn, next)
			if err != nil {
				return err
			}
			if halted {
				return nil
			}
			ipc = resume
			continue

		case opcodes.OpBreak:
			// no-op in the dispatcher: Break only delimits regions for the
			// recorder, guest control flow after a loop uses ordinary Jumps.

		default:
			return vm.NewInterpreterError(vm.ErrUnimplementedOpcode, "%s", instr.Op).WithPosition(fn.Name, pc)
		}

		ipc = module.NewInstructionPointer(fn, next)
	}
}

// enterLoop implements the loop-header mode switch: the cache key is the pc
// immediately after the Loop instruction. The bool result reports whether
// recording ran off the end of the whole program (an outermost Return
// emptied the frame stack before the next Loop), in which case there is no
// resumption pointer to dispatch to and the caller must halt.
func (ip *Interpreter) enterLoop(fn *module.Function, headerPC int) (module.InstructionPointer, bool, error) {
	if tr, ok := ip.Cache.Lookup(fn.Name, headerPC); ok {
		ip.Counter.RecordHit(fn.Name, headerPC)
		runner := trace.NewRunner(tr, ip.Frames.Top(), ip.Frames, ip.Stack, ip.Sink)
		resumption, err := runner.Run()
		if err != nil {
			return module.InstructionPointer{}, false, err
		}
		_ = ip.Telemetry.RecordGuardFailure(telemetry.Event{RunID: ip.RunID, Function: resumption.Func.Name, PC: resumption.PC})
		return module.NewInstructionPointer(resumption.Func, resumption.PC), false, nil
	}

	ip.Counter.RecordMiss(fn.Name, headerPC)
	rec := trace.NewRecorder(ip.Module, ip.Stack, ip.Frames, ip.Sink)
	rec.Debug = ip.DebugLevel >= DebugLevelTrace
	result, err := rec.Record(module.NewInstructionPointer(fn, headerPC))
	if err != nil {
		return module.InstructionPointer{}, false, err
	}

	if result.Halted {
		return module.InstructionPointer{}, true, nil
	}

	if err := ip.Cache.Insert(fn.Name, headerPC, result.Trace); err != nil {
		ip.logf(DebugLevelBasic, "trace for %s[%d] rejected: %v", fn.Name, headerPC, err)
	} else {
		_ = ip.Telemetry.RecordTraceCompiled(telemetry.Event{RunID: ip.RunID, Function: fn.Name, PC: headerPC})
	}

	return result.Resume, false, nil
}
