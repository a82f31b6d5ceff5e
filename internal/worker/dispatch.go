package worker

import (
	"fmt"

	"github.com/pitchlogic/tactical-board/internal/dispatcher"
	"github.com/pitchlogic/tactical-board/internal/parser"
)

// NodeSummary is the listing form of a persisted node
type NodeSummary struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Timestamp float64 `json:"timestamp"`
	Players   int     `json:"players"`
	Lines     int     `json:"lines"`
}

// RegisterHandlers registers the storage commands with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher, p *parser.Parser) {
	d.Register(":STORAGE:STATUS:", m.handleStatus)
	d.Register(":STORAGE:FLUSH:", m.handleFlush, dispatcher.Logged())

	// reads go to the backend, not the live session
	d.Register(":STORAGE:NODES:", m.handleList)
	d.Register(":STORAGE:GET:", m.handleGet(p))
	d.Register(":STORAGE:DELETE:", m.handleDelete(p), dispatcher.Logged())
}

func (m *Manager) handleStatus(dispatcher.Command) (any, error) {
	return m.Stats(), nil
}

func (m *Manager) handleFlush(dispatcher.Command) (any, error) {
	if m.backend == nil {
		return nil, ErrNoBackend
	}
	if err := m.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush: %w", err)
	}
	return m.Stats(), nil
}

func (m *Manager) handleList(dispatcher.Command) (any, error) {
	if m.backend == nil {
		return nil, ErrNoBackend
	}
	nodes, err := m.backend.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	out := make([]NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeSummary{
			ID:        n.ID,
			Label:     n.Label,
			Timestamp: n.Timestamp,
			Players:   len(n.BoardState),
			Lines:     len(n.LineState),
		})
	}
	return out, nil
}

func (m *Manager) handleGet(p *parser.Parser) dispatcher.HandlerFunc {
	return func(c dispatcher.Command) (any, error) {
		if m.backend == nil {
			return nil, ErrNoBackend
		}
		id, err := p.ParseID("node id", c.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to parse node id: %w", err)
		}
		node, err := m.backend.GetNode(id)
		if err != nil {
			return nil, fmt.Errorf("failed to get node: %w", err)
		}
		return node, nil
	}
}

func (m *Manager) handleDelete(p *parser.Parser) dispatcher.HandlerFunc {
	return func(c dispatcher.Command) (any, error) {
		if m.backend == nil {
			return nil, ErrNoBackend
		}
		id, err := p.ParseID("node id", c.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to parse node id: %w", err)
		}
		// a node still in the queue would be resurrected by the next flush
		if err := m.Flush(); err != nil {
			return nil, fmt.Errorf("failed to flush before delete: %w", err)
		}
		if err := m.backend.DeleteNode(id); err != nil {
			return nil, fmt.Errorf("failed to delete node: %w", err)
		}
		return map[string]string{"deleted": id}, nil
	}
}
