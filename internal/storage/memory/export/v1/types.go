// Package v1 contains the v1 timeline export format read by the web frontend.
package v1

import (
	"time"

	"github.com/pitchlogic/tactical-board/pkg/core"
)

// FormatVersion is written into every export
const FormatVersion = 1

// Export is the root JSON structure for v1 format
type Export struct {
	Version     int       `json:"version"`
	SessionName string    `json:"sessionName"`
	Tag         string    `json:"tag"`
	ExportedAt  time.Time `json:"exportedAt"`
	Duration    float64   `json:"duration"` // last node timestamp, seconds
	Nodes       []Node    `json:"nodes"`
}

// Node is one committed board snapshot
type Node struct {
	ID        string              `json:"id"`
	Label     string              `json:"label"`
	Timestamp float64             `json:"timestamp"`
	CreatedAt time.Time           `json:"createdAt"`
	Players   []core.Player       `json:"players"`
	Lines     []Line              `json:"lines"`
	Zones     []core.TacticalZone `json:"zones"`
}

// Line is a tactical line with its pre-rendered SVG path
type Line struct {
	core.TacticalLine
	Path string `json:"path"`
}
