// pkg/core/node.go
package core

import "time"

// LogicNode is an immutable capture of the board at a point of the match timeline.
// LineState and ZoneState are nil when the capture did not include them.
type LogicNode struct {
	ID         string         `json:"id"`
	Timestamp  float64        `json:"timestamp"` // seconds on the external video clock
	Label      string         `json:"label"`
	CreatedAt  time.Time      `json:"createdAt"`
	BoardState []Player       `json:"boardState"`
	LineState  []TacticalLine `json:"lineState,omitempty"`
	ZoneState  []TacticalZone `json:"zoneState,omitempty"`
}

// Clone returns a deep copy of n
func (n LogicNode) Clone() LogicNode {
	out := n
	out.BoardState = ClonePlayers(n.BoardState)
	out.LineState = CloneLines(n.LineState)
	out.ZoneState = CloneZones(n.ZoneState)
	return out
}

// UploadMetadata describes an exported timeline for the web frontend
type UploadMetadata struct {
	SessionName string
	NodeCount   int
	Duration    float64 // last node timestamp in seconds
	Tag         string
}
