package vm

import "github.com/wudi/tracevm/values"

// Add implements the guest Add instruction: first pop is "left", second pop
// is "right" (original_source/src/main.rs do_add's pop_2_into order; sum is
// commutative so the order is unobservable here, but Cmp shares the same
// convention where it does matter). It is a free function rather than a
// method on an interpreter type so that the plain dispatcher and the trace
// recorder/runner execute the exact same code path and can never silently
// disagree on arithmetic semantics.
func Add(stack *values.Stack) error {
	if stack.Len() < 2 {
		return NewInterpreterError(ErrStackUnderflow, "Add requires two operands")
	}
	left := stack.PopUint()
	right := stack.PopUint()
	stack.PushUint(left + right)
	return nil
}
