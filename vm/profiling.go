package vm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wudi/tracevm/opcodes"
)

// hotKey identifies one instruction slot across the whole module: a
// function name paired with a pc, since pcs are only unique within a
// function.
type hotKey struct {
	Function string
	PC       int
}

// HotSpot is one entry of a profile's instruction frequency ranking.
type HotSpot struct {
	Function string
	PC       int
	Count    int
}

// ProfileState accumulates per-instruction and per-opcode execution counts,
// adapted from _examples/wudi-hey/vm/profiling.go's profileState of the
// same purpose, generalized from a single (ip int) key to (function, pc).
type ProfileState struct {
	mu sync.Mutex

	instructionCounts map[hotKey]int
	opcodeCounts      map[opcodes.Op]int
}

// NewProfileState returns an empty profile accumulator.
func NewProfileState() *ProfileState {
	return &ProfileState{
		instructionCounts: make(map[hotKey]int),
		opcodeCounts:      make(map[opcodes.Op]int),
	}
}

// Observe records that one instruction executed.
func (ps *ProfileState) Observe(function string, pc int, op opcodes.Op) {
	ps.mu.Lock()
	ps.instructionCounts[hotKey{function, pc}]++
	ps.opcodeCounts[op]++
	ps.mu.Unlock()
}

// HotSpots returns the n most-executed instruction slots, most frequent
// first. n<=0 returns every slot observed.
func (ps *ProfileState) HotSpots(n int) []HotSpot {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	spots := make([]HotSpot, 0, len(ps.instructionCounts))
	for key, count := range ps.instructionCounts {
		spots = append(spots, HotSpot{Function: key.Function, PC: key.PC, Count: count})
	}
	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Count == spots[j].Count {
			if spots[i].Function == spots[j].Function {
				return spots[i].PC < spots[j].PC
			}
			return spots[i].Function < spots[j].Function
		}
		return spots[i].Count > spots[j].Count
	})
	if n <= 0 || n >= len(spots) {
		return spots
	}
	return spots[:n]
}

// Render produces a one-line human-readable summary of the profile.
func (ps *ProfileState) Render() string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if len(ps.instructionCounts) == 0 {
		return "(no profiling data)"
	}
	total := 0
	for _, count := range ps.instructionCounts {
		total += count
	}
	return fmt.Sprintf("instructions executed: %d, unique slots: %d, unique opcodes: %d",
		total, len(ps.instructionCounts), len(ps.opcodeCounts))
}
