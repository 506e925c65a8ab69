package trace

import (
	"github.com/wudi/tracevm/module"
	"github.com/wudi/tracevm/values"
	"github.com/wudi/tracevm/vm"
)

// Runner replays a recorded Trace against its own operand stack and flat
// locals buffer, looping until a Guard fails. It holds the dispatcher's
// call-frame stack and operand stack only to mutate them during recovery —
// ordinary replay never touches either.
type Runner struct {
	Trace  *Trace
	Stack  *values.Stack
	Locals []*values.Value
	Sink   *vm.Sink

	dispatcherFrames *vm.CallStack
	dispatcherStack  *values.Stack
}

// NewRunner seeds the runner's flat locals from the dispatcher's current
// innermost frame (positions beyond that frame's length stay Null).
func NewRunner(t *Trace, outerFrame *vm.CallFrame, dispatcherFrames *vm.CallStack, dispatcherStack *values.Stack, sink *vm.Sink) *Runner {
	locals := make([]*values.Value, t.LocalsCount)
	for i := range locals {
		locals[i] = values.Null()
	}
	for i, v := range outerFrame.Locals {
		locals[i] = v.Clone()
	}
	return &Runner{
		Trace:            t,
		Stack:            values.NewStack(),
		Locals:           locals,
		Sink:             sink,
		dispatcherFrames: dispatcherFrames,
		dispatcherStack:  dispatcherStack,
	}
}

// Resumption is the (function, pc) pair the dispatcher resumes at after a
// guard failure ends replay.
type Resumption struct {
	Func *module.Function
	PC   int
}

// Run replays the trace body, wrapping around to pc 0 after the last
// instruction, until a Guard fails — at which point it recovers interpreter
// state and returns the resumption pointer. A non-nil error means the trace
// itself is malformed (an opcode neither engine implements), not a guard
// failure: guard failure is the expected, successful way for Run to return.
func (r *Runner) Run() (Resumption, error) {
	body := r.Trace.Body
	pc := 0
	for {
		instr := body[pc]
		pc = (pc + 1) % len(body)

		switch instr.Op {
		case OpAdd:
			if err := vm.Add(r.Stack); err != nil {
				return Resumption{}, err
			}
		case OpCmp:
			if err := vm.Cmp(r.Stack, instr.Cmp); err != nil {
				return Resumption{}, err
			}
		case OpConst:
			vm.Const(r.Stack, instr.N)
		case OpLoad:
			r.Stack.Push(r.Locals[instr.Idx].Clone())
		case OpStore:
			r.Locals[instr.Idx] = r.Stack.Pop()
		case OpArray:
			vm.NewArray(r.Stack, instr.Cap)
		case OpArrayGet:
			if err := vm.ArrayGet(r.Stack); err != nil {
				return Resumption{}, err
			}
		case OpPush:
			if err := vm.PushElem(r.Stack); err != nil {
				return Resumption{}, err
			}
		case OpLen:
			if err := vm.Len(r.Stack); err != nil {
				return Resumption{}, err
			}
		case OpPrint:
			if err := vm.Print(r.Stack, r.Sink); err != nil {
				return Resumption{}, err
			}
		case OpClone:
			// no-op
		case OpGuard:
			got := r.Stack.PopBool()
			if got == instr.Guard.Condition {
				continue
			}
			return r.recover(instr.Guard), nil
		default:
			return Resumption{}, vm.NewInterpreterError(vm.ErrUnimplementedOpcode, "trace opcode %s", instr.Op)
		}
	}
}

// recover rebuilds the dispatcher's call-frame chain from the guard's
// captured frame-info chain and leaves the dispatcher in a state
// indistinguishable from never having entered the trace — except that
// output already produced during the failed iteration stays produced, and
// the negated condition is left on the operand stack so the branch the
// dispatcher re-executes at guard.PC takes the other arm.
func (r *Runner) recover(guard *Guard) Resumption {
	chain := guard.FrameChain.ToSlice() // innermost first

	// The frame the loop header "entered" the trace with is stale; drop it.
	r.dispatcherFrames.Pop()

	for i := len(chain) - 1; i >= 0; i-- {
		info := chain[i]
		frame := vm.NewCallFrame(info.Function, info.ReturnPtr)
		for k := range frame.Locals {
			frame.Locals[k] = r.Locals[info.Offset+k].Clone()
		}
		r.dispatcherFrames.Push(frame)
	}

	r.dispatcherStack.PushBool(!guard.Condition)

	innermost := chain[0]
	return Resumption{Func: innermost.Function, PC: guard.PC}
}
