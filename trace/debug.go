package trace

import (
	"fmt"
	"strings"
)

// Dump renders a trace as a human-readable listing, one instruction per
// line, prefixed with its index.
func (t *Trace) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "trace (locals=%d, guards=%d):\n", t.LocalsCount, t.GuardCount())
	for i, instr := range t.Body {
		fmt.Fprintf(&b, "  %3d: %s\n", i, instr)
	}
	return b.String()
}

// Describe renders a single guard the way a debug log line would: enough to
// tell which branch outcome was recorded and where recovery would resume.
func (g *Guard) Describe() string {
	frames := g.FrameChain.ToSlice()
	names := make([]string, len(frames))
	for i, f := range frames {
		names[i] = f.Function.Name
	}
	return fmt.Sprintf("guard(condition=%t, pc=%d, frames=[%s])", g.Condition, g.PC, strings.Join(names, " <- "))
}
