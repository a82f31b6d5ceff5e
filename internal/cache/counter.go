package cache

import "sync"

// SafeCounter is a thread-safe counter. The worker keeps one for saved and one for failed
// logic nodes.
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

// Value returns the current count
func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// Set overwrites the count
func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// Inc adds one
func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
