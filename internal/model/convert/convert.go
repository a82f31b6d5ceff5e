package convert

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/pitchlogic/tactical-board/internal/model"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// lineStringToPolyline converts a geom.LineString to a core.Polyline
func lineStringToPolyline(ls geom.LineString) core.Polyline {
	seq := ls.Coordinates()
	if seq.Length() == 0 {
		return nil
	}
	polyline := make(core.Polyline, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		pt := seq.GetXY(i)
		polyline[i] = core.Position2D{X: pt.X, Y: pt.Y}
	}
	return polyline
}

// LogicNodeToCore converts a GORM LogicNode to a core.LogicNode.
// Lines come from the Lines JSON column; SnapshotLines are only used when it is empty,
// e.g. for rows written by external tools.
func LogicNodeToCore(n model.LogicNode) (core.LogicNode, error) {
	out := core.LogicNode{
		ID:         n.NodeID,
		Timestamp:  n.Timestamp,
		Label:      n.Label,
		CreatedAt:  n.CreatedAt,
		BoardState: []core.Player{},
	}

	if len(n.Players) > 0 {
		if err := json.Unmarshal(n.Players, &out.BoardState); err != nil {
			return out, fmt.Errorf("failed to unmarshal players of node %s: %w", n.NodeID, err)
		}
	}

	switch {
	case len(n.Lines) > 0 && string(n.Lines) != "null":
		if err := json.Unmarshal(n.Lines, &out.LineState); err != nil {
			return out, fmt.Errorf("failed to unmarshal lines of node %s: %w", n.NodeID, err)
		}
	case len(n.SnapshotLines) > 0:
		out.LineState = SnapshotLinesToCore(n.SnapshotLines)
	}

	if len(n.Zones) > 0 && string(n.Zones) != "null" {
		if err := json.Unmarshal(n.Zones, &out.ZoneState); err != nil {
			return out, fmt.Errorf("failed to unmarshal zones of node %s: %w", n.NodeID, err)
		}
	}
	return out, nil
}

// SnapshotLinesToCore converts geometry rows back to tactical lines ordered by Position
func SnapshotLinesToCore(rows []model.SnapshotLine) []core.TacticalLine {
	out := make([]core.TacticalLine, len(rows))
	for _, r := range rows {
		if r.Position < 0 || r.Position >= len(rows) {
			continue
		}
		out[r.Position] = core.TacticalLine{
			ID:      r.LineID,
			Points:  lineStringToPolyline(r.Path.LineString),
			Color:   r.Color,
			Dashed:  r.Dashed,
			OwnerID: r.OwnerID,
		}
	}
	return out
}
