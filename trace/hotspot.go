package trace

import "sync"

// CallCounter tracks how often each loop header was entered and whether
// that entry hit the cache or triggered a fresh recording. It never gates
// whether recording starts — the dispatcher traces unconditionally on the
// first miss — it exists purely for observability, adapted from
// _examples/wudi-hey/compiler/jit/hotspot.go's HotspotDetector with its
// compile-trigger role stripped out.
type CallCounter struct {
	mu     sync.Mutex
	hits   map[cacheKey]int64
	misses map[cacheKey]int64
}

// NewCallCounter returns an empty counter.
func NewCallCounter() *CallCounter {
	return &CallCounter{
		hits:   make(map[cacheKey]int64),
		misses: make(map[cacheKey]int64),
	}
}

// RecordHit records that a loop header's trace was already cached.
func (c *CallCounter) RecordHit(function string, pc int) {
	c.mu.Lock()
	c.hits[cacheKey{function, pc}]++
	c.mu.Unlock()
}

// RecordMiss records that a loop header had to be recorded.
func (c *CallCounter) RecordMiss(function string, pc int) {
	c.mu.Lock()
	c.misses[cacheKey{function, pc}]++
	c.mu.Unlock()
}

// Stats is a snapshot of one loop header's hit/miss counts.
type Stats struct {
	Function string
	PC       int
	Hits     int64
	Misses   int64
}

// Snapshot returns per-loop-header hit/miss counts observed so far.
func (c *CallCounter) Snapshot() []Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[cacheKey]struct{}, len(c.hits)+len(c.misses))
	for k := range c.hits {
		seen[k] = struct{}{}
	}
	for k := range c.misses {
		seen[k] = struct{}{}
	}
	out := make([]Stats, 0, len(seen))
	for k := range seen {
		out = append(out, Stats{
			Function: k.Function,
			PC:       k.PC,
			Hits:     c.hits[k],
			Misses:   c.misses[k],
		})
	}
	return out
}
