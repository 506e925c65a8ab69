package trace

// Guard is a recorded speculative branch outcome: the boolean the recorder
// observed when it took the fall-through branch, a snapshot of the call-tree
// shape at that point, and the pc within the innermost function where
// interpretation must resume if the live boolean disagrees on replay.
//
// PC is the position of the branch instruction itself (JumpIfFalse/
// JumpIfTrue), not pc+1: recovery's paired push of !Condition depends on
// the dispatcher re-executing that same branch instruction against the
// corrected boolean, so this convention must be preserved exactly.
type Guard struct {
	Condition  bool
	FrameChain *FrameChain
	PC         int
}
