package trace

// Allocator projects nested call frames' locals onto a single flat index
// space. alloc pushes a new region whose base is the
// current high-water mark and grows the mark by the region's size; pop
// discards the most recently pushed region's base (but never shrinks the
// high-water mark — that mark becomes the Trace's LocalsCount); at(i)
// addresses slot i within the currently active region.
type Allocator struct {
	offsets []int
	total   int
}

// NewAllocator returns an allocator with no active region.
func NewAllocator() *Allocator {
	return &Allocator{offsets: make([]int, 0, 4)}
}

// Alloc reserves a fresh region of n slots and makes it the active region,
// returning its base offset.
func (a *Allocator) Alloc(n int) int {
	offset := a.total
	a.offsets = append(a.offsets, offset)
	a.total += n
	return offset
}

// Pop discards the active region, reactivating the one beneath it.
func (a *Allocator) Pop() {
	a.offsets = a.offsets[:len(a.offsets)-1]
}

// At addresses slot i within the active region.
func (a *Allocator) At(i int) int {
	return a.offsets[len(a.offsets)-1] + i
}

// TotalSize is the high-water mark across the whole recording: the flat
// local buffer size a replaying Trace needs.
func (a *Allocator) TotalSize() int {
	return a.total
}
