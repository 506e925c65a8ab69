package vm

import (
	"github.com/wudi/tracevm/opcodes"
	"github.com/wudi/tracevm/values"
)

// Cmp implements the guest Cmp(kind) instruction: first pop is "left",
// second pop is "right", matching Add's convention
// (original_source/src/main.rs and tracerunner.rs do_cmp/cmp both do
// `let (left, right) = pop_2()`). This only becomes observable for Cmp,
// never for commutative Add. Shared between the dispatcher and the trace
// engines, same rationale as Add.
func Cmp(stack *values.Stack, kind opcodes.CmpKind) error {
	if stack.Len() < 2 {
		return NewInterpreterError(ErrStackUnderflow, "Cmp requires two operands")
	}
	left := stack.PopUint()
	right := stack.PopUint()
	stack.PushBool(kind.Eval(left, right))
	return nil
}
