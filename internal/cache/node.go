// Package cache holds small lookup tables shared between storage and telemetry.
package cache

import "sync"

// NodeCache maps logic node ids to their database row ids for the current session
type NodeCache struct {
	mu    sync.RWMutex
	nodes map[string]uint
}

// NewNodeCache creates a new NodeCache
func NewNodeCache() *NodeCache {
	return &NodeCache{
		nodes: make(map[string]uint),
	}
}

// Get retrieves a row id by node id
func (c *NodeCache) Get(nodeID string) (uint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.nodes[nodeID]
	return id, ok
}

// Set stores a row id by node id
func (c *NodeCache) Set(nodeID string, id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes[nodeID] = id
}

// Delete removes a node
func (c *NodeCache) Delete(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.nodes, nodeID)
}

// Len returns the number of cached nodes
func (c *NodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Reset clears all nodes from the cache
func (c *NodeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = make(map[string]uint)
}
