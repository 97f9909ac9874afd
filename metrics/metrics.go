package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Counters is a set of named monotonic counters safe for concurrent use.
type Counters struct {
	mu     sync.RWMutex
	values map[string]*atomic.Int64
}

// Default is the process-wide set served on /metrics.
var Default = New()

func New() *Counters {
	return &Counters{values: make(map[string]*atomic.Int64)}
}

func (c *Counters) Incr(name string) {
	c.counter(name).Add(1)
}

func (c *Counters) Get(name string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.values[name]; ok {
		return v.Load()
	}
	return 0
}

func (c *Counters) counter(name string) *atomic.Int64 {
	c.mu.RLock()
	v, ok := c.values[name]
	c.mu.RUnlock()
	if ok {
		return v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok = c.values[name]; !ok {
		v = new(atomic.Int64)
		c.values[name] = v
	}
	return v
}

// Snapshot returns the current value of every counter.
func (c *Counters) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int64, len(c.values))
	for k, v := range c.values {
		out[k] = v.Load()
	}
	return out
}

// Format renders the counters one per line, sorted by name.
func (c *Counters) Format() string {
	snap := c.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, snap[k])
	}
	return sb.String()
}
