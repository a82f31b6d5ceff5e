// Package memory keeps the timeline in memory and exports it as JSON on Close.
package memory

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pitchlogic/tactical-board/internal/config"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Backend stores logic nodes in memory and exports them to JSON
type Backend struct {
	cfg  config.MemoryConfig
	meta core.UploadMetadata
	now  func() time.Time

	nodes map[string]core.LogicNode
	order []string // commit order

	lastExportPath string
	lastExportMeta core.UploadMetadata
	mu             sync.RWMutex
}

// New creates a new memory backend for the session described by meta
func New(cfg config.MemoryConfig, meta core.UploadMetadata) *Backend {
	return &Backend{
		cfg:   cfg,
		meta:  meta,
		now:   time.Now,
		nodes: make(map[string]core.LogicNode),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close exports the timeline. An empty timeline writes nothing.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.order) == 0 || b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON()
}

// SaveNode stores a copy of n. Re-saving an id replaces the node in place.
func (b *Backend) SaveNode(n *core.LogicNode) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("node without id")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.nodes[n.ID]; !ok {
		b.order = append(b.order, n.ID)
	}
	b.nodes[n.ID] = n.Clone()
	return nil
}

// GetNode looks up a node by id
func (b *Backend) GetNode(id string) (core.LogicNode, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n, ok := b.nodes[id]
	if !ok {
		return core.LogicNode{}, fmt.Errorf("%w: %s", core.ErrNodeNotFound, id)
	}
	return n.Clone(), nil
}

// ListNodes returns all nodes in commit order
func (b *Backend) ListNodes() ([]core.LogicNode, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.list(), nil
}

func (b *Backend) list() []core.LogicNode {
	out := make([]core.LogicNode, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.nodes[id].Clone())
	}
	return out
}

// DeleteNode removes a node
func (b *Backend) DeleteNode(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrNodeNotFound, id)
	}
	delete(b.nodes, id)
	b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == id })
	return nil
}

// GetExportedFilePath returns the path of the last export
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// GetExportMetadata describes the last export
func (b *Backend) GetExportMetadata() core.UploadMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportMeta
}
