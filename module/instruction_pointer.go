package module

import "github.com/wudi/tracevm/opcodes"

// InstructionPointer is a (function, program-counter) pair with navigation
// primitives. It is the unit both the dispatcher and recovery deal in when
// describing "where execution resumes."
type InstructionPointer struct {
	Func *Function
	PC   int
}

// NewInstructionPointer builds a pointer at an explicit pc.
func NewInstructionPointer(fn *Function, pc int) InstructionPointer {
	return InstructionPointer{Func: fn, PC: pc}
}

// Entry builds a pointer at a function's first instruction.
func Entry(fn *Function) InstructionPointer {
	return InstructionPointer{Func: fn, PC: 0}
}

// Next advances to the following instruction.
func (ip InstructionPointer) Next() InstructionPointer {
	return InstructionPointer{Func: ip.Func, PC: ip.PC + 1}
}

// Jump moves to an explicit target within the same function.
func (ip InstructionPointer) Jump(target int) InstructionPointer {
	return InstructionPointer{Func: ip.Func, PC: target}
}

// Done reports whether PC has run past the function's instruction vector.
func (ip InstructionPointer) Done() bool {
	return ip.PC >= len(ip.Func.Instrs)
}

// Instruction dereferences the pointer to the instruction it names.
func (ip InstructionPointer) Instruction() opcodes.Instruction {
	return ip.Func.Instrs[ip.PC]
}
