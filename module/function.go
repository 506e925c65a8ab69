// Package module holds the guest program's function table, the immutable
// Function definition, and the InstructionPointer navigation primitive.
package module

import "github.com/wudi/tracevm/opcodes"

// Function is an immutable guest function definition: a name, an argument
// and local-slot count, and its instruction vector. It is shared across
// every CallFrame, InstructionPointer, and FrameInfo that refers to it —
// in Go this is just a shared *Function; the reference implementation
// used an explicit Rc<Func> because Rust has no GC, but Go's garbage
// collector already gives the same "live as long as anything points to
// it, no cycles" guarantee for free (see DESIGN.md).
type Function struct {
	Name        string
	ArgsCount   int
	LocalsCount int
	Instrs      []opcodes.Instruction
}

// FrameSize is the number of local slots (args + locals) a CallFrame for
// this function must allocate.
func (f *Function) FrameSize() int {
	return f.ArgsCount + f.LocalsCount
}

// Module is an immutable mapping from function name to Function. Key
// invariant: every Call(name) target in any Function's instruction vector
// must exist as a key here.
type Module struct {
	funcs map[string]*Function
}

// New builds a Module from a set of functions, keyed by their own Name
// field.
func New(funcs ...*Function) *Module {
	m := &Module{funcs: make(map[string]*Function, len(funcs))}
	for _, f := range funcs {
		m.funcs[f.Name] = f
	}
	return m
}

// Lookup resolves a function by name. The second return value is false if
// no such function exists, which callers surface as a malformed-program
// error rather than panicking — unlike the Load/Store/ArrayGet family, an
// unknown Call target is a property of the module, not of a single
// instruction's operand.
func (m *Module) Lookup(name string) (*Function, bool) {
	f, ok := m.funcs[name]
	return f, ok
}
