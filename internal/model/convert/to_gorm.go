// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/internal/model"
	"github.com/pitchlogic/tactical-board/pkg/core"
	"gorm.io/datatypes"
)

// toJSON marshals v for a JSON column. A nil slice stays SQL NULL so that "not captured"
// survives the round trip.
func toJSON[T any](v []T) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// CoreToLogicNode converts a core.LogicNode to a GORM model.LogicNode.
// The session id is left for the caller to set.
func CoreToLogicNode(n core.LogicNode) (model.LogicNode, error) {
	players, err := toJSON(n.BoardState)
	if err != nil {
		return model.LogicNode{}, fmt.Errorf("failed to marshal players: %w", err)
	}
	if players == nil {
		players = datatypes.JSON("[]")
	}
	lines, err := toJSON(n.LineState)
	if err != nil {
		return model.LogicNode{}, fmt.Errorf("failed to marshal lines: %w", err)
	}
	zones, err := toJSON(n.ZoneState)
	if err != nil {
		return model.LogicNode{}, fmt.Errorf("failed to marshal zones: %w", err)
	}

	return model.LogicNode{
		NodeID:        n.ID,
		Label:         n.Label,
		Timestamp:     n.Timestamp,
		CreatedAt:     n.CreatedAt,
		Players:       players,
		Lines:         lines,
		Zones:         zones,
		SnapshotLines: CoreToSnapshotLines(n.LineState),
	}, nil
}

// CoreToSnapshotLines converts lines to geometry rows, keeping their order
func CoreToSnapshotLines(lines []core.TacticalLine) []model.SnapshotLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]model.SnapshotLine, len(lines))
	for i, l := range lines {
		out[i] = model.SnapshotLine{
			LineID:   l.ID,
			Position: i,
			Color:    l.Color,
			Dashed:   l.Dashed,
			OwnerID:  l.OwnerID,
			Path:     model.Path{LineString: geo.LineString(l.Points)},
		}
	}
	return out
}

// CoreToBoardSession converts upload metadata to a GORM session row
func CoreToBoardSession(meta core.UploadMetadata) model.BoardSession {
	return model.BoardSession{
		Name: meta.SessionName,
		Tag:  meta.Tag,
	}
}
