package trace

import (
	"strings"
	"testing"

	"github.com/wudi/tracevm/module"
)

func TestTrace_Dump(t *testing.T) {
	tr := &Trace{
		Body: []Instruction{
			{Op: OpConst, N: 1},
			{Op: OpGuard, Guard: &Guard{Condition: true, PC: 6}},
		},
		LocalsCount: 2,
	}
	out := tr.Dump()
	if !strings.Contains(out, "guards=1") {
		t.Fatalf("Dump() missing guard count: %q", out)
	}
	if !strings.Contains(out, "Const(1)") {
		t.Fatalf("Dump() missing Const instruction: %q", out)
	}
}

func TestGuard_Describe(t *testing.T) {
	fn := &module.Function{Name: "min_list"}
	chain := NewFrameChain(FrameInfo{Function: fn})
	g := &Guard{Condition: false, FrameChain: chain, PC: 6}

	out := g.Describe()
	if !strings.Contains(out, "min_list") {
		t.Fatalf("Describe() missing function name: %q", out)
	}
	if !strings.Contains(out, "pc=6") {
		t.Fatalf("Describe() missing pc: %q", out)
	}
}
