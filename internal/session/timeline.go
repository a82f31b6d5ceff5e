package session

import (
	"fmt"
	"slices"

	"github.com/pitchlogic/tactical-board/internal/board"
	"github.com/pitchlogic/tactical-board/internal/util"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Commit captures players, lines and zones at timestamp seconds of the video clock.
// An empty label picks LOGIC_NODE_<n>.
func (s *Session) Commit(timestamp float64, label string) core.LogicNode {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodeSeq++
	if label == "" {
		label = fmt.Sprintf("LOGIC_NODE_%d", s.nodeSeq)
	}

	b := s.board.Clone()
	node := core.LogicNode{
		ID:         s.newID(),
		Timestamp:  timestamp,
		Label:      label,
		CreatedAt:  s.now().UTC(),
		BoardState: b.Players,
		LineState:  b.Lines,
		ZoneState:  b.Zones,
	}
	if node.LineState == nil {
		node.LineState = []core.TacticalLine{}
	}
	if node.ZoneState == nil {
		node.ZoneState = []core.TacticalZone{}
	}
	s.nodes = append(s.nodes, node)

	s.addLog("LOGIC COMMITTED: " + util.ShortID(node.ID, 6))
	if s.sink != nil {
		s.sink.Enqueue(node.Clone())
	}
	s.emit(NotifyNodeCommitted, node.Clone())
	return node.Clone()
}

// Restore replaces the live players, lines and zones with a committed node
func (s *Session) Restore(id string) (core.LogicNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.nodes, func(n core.LogicNode) bool { return n.ID == id })
	if i < 0 {
		return core.LogicNode{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	node := s.nodes[i]

	s.ctrl.Cancel()
	s.apply(board.RestoreNode{Node: node})
	s.selected = ""
	s.addLog("TIMELINE JUMP: " + node.Label)
	s.emit(NotifyNodeRestored, node.ID)
	return node.Clone(), nil
}

// Nodes returns the committed timeline in commit order
func (s *Session) Nodes() []core.LogicNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LogicNode, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

// LoadNodes appends previously persisted nodes to the timeline, skipping known ids.
// The label counter continues after the loaded nodes.
func (s *Session) LoadNodes(nodes []core.LogicNode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded := 0
	for _, n := range nodes {
		if slices.ContainsFunc(s.nodes, func(m core.LogicNode) bool { return m.ID == n.ID }) {
			continue
		}
		s.nodes = append(s.nodes, n.Clone())
		loaded++
	}
	s.nodeSeq = max(s.nodeSeq, len(s.nodes))
	return loaded
}
