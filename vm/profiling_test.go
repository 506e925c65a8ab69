package vm

import (
	"strings"
	"testing"

	"github.com/wudi/tracevm/opcodes"
)

func TestProfileState_HotSpotsOrdering(t *testing.T) {
	ps := NewProfileState()

	for i := 0; i < 3; i++ {
		ps.Observe("min_list", 10, opcodes.OpCmp)
	}
	ps.Observe("min_list", 18, opcodes.OpCall)
	ps.Observe("main", 0, opcodes.OpArray)

	spots := ps.HotSpots(0)
	if len(spots) != 3 {
		t.Fatalf("HotSpots(0) returned %d entries, want 3", len(spots))
	}
	if spots[0].Function != "min_list" || spots[0].PC != 10 || spots[0].Count != 3 {
		t.Errorf("most-executed slot = %+v, want min_list[10] with count 3", spots[0])
	}

	top1 := ps.HotSpots(1)
	if len(top1) != 1 {
		t.Fatalf("HotSpots(1) returned %d entries, want 1", len(top1))
	}
	if top1[0] != spots[0] {
		t.Errorf("HotSpots(1) = %+v, want the single most-executed slot", top1[0])
	}
}

func TestProfileState_RenderEmptyAndNonEmpty(t *testing.T) {
	ps := NewProfileState()
	if got := ps.Render(); !strings.Contains(got, "no profiling data") {
		t.Errorf("Render() on empty state = %q, want it to mention no data", got)
	}

	ps.Observe("main", 0, opcodes.OpConst)
	ps.Observe("main", 1, opcodes.OpConst)
	if got := ps.Render(); strings.Contains(got, "no profiling data") {
		t.Errorf("Render() after Observe() still reports no data: %q", got)
	}
}
