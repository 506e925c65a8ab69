// Package demo builds a sample module: a `main` that fills an array and
// calls `min_list`, which folds over it with `min`. The instruction vectors
// are transcribed from original_source/src/main.rs's literal `main()`;
// bytecode parsing/loading has no place here, this package plays the
// external loader's role for the demo instead.
package demo

import (
	"github.com/wudi/tracevm/module"
	"github.com/wudi/tracevm/opcodes"
)

// DefaultElements reproduces the literal array the reference program runs
// min_list over.
var DefaultElements = []uint64{9, 3, 4, 5, 6, 1, 3, 2, 4}

// Min builds min(a, b): returns a if a<=b, else b. args=2 (a at slot 0, b at
// slot 1), locals=0.
func Min() *module.Function {
	return &module.Function{
		Name:      "min",
		ArgsCount: 2,
		Instrs: []opcodes.Instruction{
			opcodes.Load(1),             // 0
			opcodes.Load(0),             // 1
			opcodes.Cmp(opcodes.CmpLe),  // 2: a<=b
			opcodes.JumpIfFalse(6),      // 3
			opcodes.Load(0),             // 4
			opcodes.Jump(8),             // 5
			opcodes.Load(1),             // 6
			opcodes.Jump(8),             // 7
			opcodes.Clone(),             // 8
			opcodes.Return(),            // 9
		},
	}
}

// MinList builds min_list(xs): result = xs[0]; for i in 0..len(xs):
// result = min(result, xs[i]); print(result). args=1 (the array), locals=3
// (result, len, i).
func MinList() *module.Function {
	return &module.Function{
		Name:        "min_list",
		ArgsCount:   1,
		LocalsCount: 3,
		Instrs: []opcodes.Instruction{
			opcodes.Load(0),            // 0: xs
			opcodes.Const(0),           // 1
			opcodes.ArrayGet(),         // 2: xs[0]
			opcodes.Store(1),           // 3: result = xs[0]
			opcodes.Load(0),            // 4
			opcodes.Len(),              // 5
			opcodes.Store(2),           // 6: len = length(xs)
			opcodes.Const(0),           // 7
			opcodes.Store(3),           // 8: i = 0
			opcodes.Loop(),             // 9
			opcodes.Load(2),            // 10: len
			opcodes.Load(3),            // 11: i
			opcodes.Cmp(opcodes.CmpLt), // 12: i<len
			opcodes.JumpIfFalse(25),    // 13
			opcodes.Load(0),            // 14: xs
			opcodes.Load(3),            // 15: i
			opcodes.ArrayGet(),         // 16: xs[i]
			opcodes.Load(1),            // 17: result
			opcodes.Call("min"),        // 18: min(result, xs[i])
			opcodes.Store(1),           // 19: result = min(...)
			opcodes.Load(3),            // 20: i
			opcodes.Const(1),           // 21
			opcodes.Add(),              // 22: i+1
			opcodes.Store(3),           // 23: i = i+1
			opcodes.Jump(9),            // 24: back to Loop
			opcodes.Break(),            // 25
			opcodes.Load(1),            // 26: result
			opcodes.Print(),            // 27
			opcodes.Return(),           // 28
		},
	}
}

// Main builds main(): allocate an array of len(elements) capacity, push
// each element, call min_list. Grounded on original_source/src/main.rs's
// literal instruction vector, generalized from a fixed 9-element array to
// an arbitrary one so the same builder serves any test scenario, from a
// single element to a longer list.
func Main(elements []uint64) *module.Function {
	instrs := make([]opcodes.Instruction, 0, 2*len(elements)+3)
	instrs = append(instrs, opcodes.Array(len(elements)))
	for _, n := range elements {
		instrs = append(instrs, opcodes.Const(n), opcodes.Push())
	}
	instrs = append(instrs, opcodes.Call("min_list"), opcodes.Return())
	return &module.Function{Name: "main", Instrs: instrs}
}

// Program builds the full demo module over elements, wired with min and
// min_list.
func Program(elements []uint64) *module.Module {
	return module.New(Main(elements), Min(), MinList())
}
