package v1

import (
	"time"

	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// TimelineData contains all the data needed to build an export
type TimelineData struct {
	Meta       core.UploadMetadata
	Nodes      []core.LogicNode // commit order
	ExportedAt time.Time
}

// Build creates an Export from the timeline. Nodes keep commit order; the web frontend
// sorts by timestamp itself.
func Build(data *TimelineData) Export {
	export := Export{
		Version:     FormatVersion,
		SessionName: data.Meta.SessionName,
		Tag:         data.Meta.Tag,
		ExportedAt:  data.ExportedAt.UTC(),
		Nodes:       make([]Node, 0, len(data.Nodes)),
	}

	for _, n := range data.Nodes {
		export.Nodes = append(export.Nodes, buildNode(n))
		if n.Timestamp > export.Duration {
			export.Duration = n.Timestamp
		}
	}
	return export
}

func buildNode(n core.LogicNode) Node {
	node := Node{
		ID:        n.ID,
		Label:     n.Label,
		Timestamp: n.Timestamp,
		CreatedAt: n.CreatedAt.UTC(),
		Players:   core.ClonePlayers(n.BoardState),
		Lines:     make([]Line, 0, len(n.LineState)),
		Zones:     core.CloneZones(n.ZoneState),
	}
	if node.Players == nil {
		node.Players = []core.Player{}
	}
	if node.Zones == nil {
		node.Zones = []core.TacticalZone{}
	}
	for _, l := range n.LineState {
		node.Lines = append(node.Lines, Line{TacticalLine: l.Clone(), Path: geo.PathString(l.Points)})
	}
	return node
}

// Metadata summarises an export for the upload request
func Metadata(e Export) core.UploadMetadata {
	return core.UploadMetadata{
		SessionName: e.SessionName,
		NodeCount:   len(e.Nodes),
		Duration:    e.Duration,
		Tag:         e.Tag,
	}
}
