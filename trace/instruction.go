package trace

import (
	"fmt"

	"github.com/wudi/tracevm/opcodes"
)

// Op identifies a TraceInstruction's variant. Deliberately a strict subset
// of opcodes.Op: a trace has no Call/Return (calls are inlined), no
// Jump/JumpIfFalse/JumpIfTrue/Loop/Break (straight-line, jumps straightened,
// conditionals become Guard).
type Op byte

const (
	OpAdd Op = iota
	OpCmp
	OpLoad
	OpStore
	OpConst
	OpArray
	OpArrayGet
	OpPush
	OpLen
	OpPrint
	OpClone
	OpGuard
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "Add"
	case OpCmp:
		return "Cmp"
	case OpLoad:
		return "Load"
	case OpStore:
		return "Store"
	case OpConst:
		return "Const"
	case OpArray:
		return "Array"
	case OpArrayGet:
		return "ArrayGet"
	case OpPush:
		return "Push"
	case OpLen:
		return "Len"
	case OpPrint:
		return "Print"
	case OpClone:
		return "Clone"
	case OpGuard:
		return "Guard"
	default:
		return fmt.Sprintf("Op(%d)", byte(o))
	}
}

// Instruction is one recorded trace instruction. Load/Store indices are
// global (already projected through the flattening map), not frame-local.
type Instruction struct {
	Op    Op
	Idx   int
	N     uint64
	Cap   int
	Cmp   opcodes.CmpKind
	Guard *Guard
}

func (i Instruction) String() string {
	switch i.Op {
	case OpCmp:
		return fmt.Sprintf("Cmp(%s)", i.Cmp)
	case OpLoad:
		return fmt.Sprintf("Load(%d)", i.Idx)
	case OpStore:
		return fmt.Sprintf("Store(%d)", i.Idx)
	case OpConst:
		return fmt.Sprintf("Const(%d)", i.N)
	case OpArray:
		return fmt.Sprintf("Array(%d)", i.Cap)
	case OpGuard:
		return fmt.Sprintf("Guard(%t @pc=%d)", i.Guard.Condition, i.Guard.PC)
	default:
		return i.Op.String()
	}
}

// Trace is a linearized, call/return-free rendering of one observed loop
// iteration, re-executed until a Guard fails.
type Trace struct {
	Body        []Instruction
	LocalsCount int
}

// GuardCount reports how many Guard instructions the trace contains — used
// to reject guard-less traces, which would replay forever.
func (t *Trace) GuardCount() int {
	n := 0
	for _, instr := range t.Body {
		if instr.Op == OpGuard {
			n++
		}
	}
	return n
}
