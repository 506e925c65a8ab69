package trace

import (
	"sync"

	"github.com/wudi/tracevm/vm"
)

// cacheKey identifies a loop-header entry point: the function the Loop
// instruction lives in, paired with the pc immediately after it, so the
// key ties a trace to one specific loop-body entry.
type cacheKey struct {
	Function string
	PC       int
}

// Cache maps a loop-header program-counter to its recorded Trace.
type Cache struct {
	mu     sync.Mutex
	traces map[cacheKey]*Trace
}

// NewCache returns an empty trace cache.
func NewCache() *Cache {
	return &Cache{traces: make(map[cacheKey]*Trace)}
}

// Lookup returns the trace cached for (function, pc), if any.
func (c *Cache) Lookup(function string, pc int) (*Trace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.traces[cacheKey{function, pc}]
	return t, ok
}

// Insert installs a trace for (function, pc). A trace with zero Guards is
// rejected: replaying it would loop forever, so it is never cached and that
// loop header keeps falling back to the generic interpreter.
func (c *Cache) Insert(function string, pc int, t *Trace) error {
	if t.GuardCount() == 0 {
		return vm.ErrGuardlessTrace
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traces[cacheKey{function, pc}] = t
	return nil
}

// Len reports how many traces are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.traces)
}
