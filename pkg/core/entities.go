// pkg/core/entities.go
package core

import "slices"

// Player is a single footballer on the board.
// ID, Team and Number never change after creation. Role is the stable formation slot tag
// (e.g. "LB", "LCB"); it may be empty.
type Player struct {
	ID     string   `json:"id"`
	Team   Team     `json:"team"`
	Number int      `json:"number"`
	Role   string   `json:"role,omitempty"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Tags   []string `json:"tags"`
}

// Position returns the player's current board position
func (p Player) Position() Position2D {
	return Position2D{X: p.X, Y: p.Y}
}

// HasTag reports whether tag is already attached to the player
func (p Player) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// IsGoalkeeper reports whether the player is excluded from formation presets.
// Conventionally the keeper wears number 1.
func (p Player) IsGoalkeeper() bool {
	return p.Role == "GK" || p.Number == 1
}

// Clone returns a deep copy of p
func (p Player) Clone() Player {
	out := p
	out.Tags = slices.Clone(p.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// TacticalLine is a drawn stroke. A line with an OwnerID was derived from one of that
// player's tags and lives only as long as the tag does.
type TacticalLine struct {
	ID      string   `json:"id"`
	Points  Polyline `json:"points"`
	Color   string   `json:"color"`
	Dashed  bool     `json:"isDashed"`
	OwnerID string   `json:"ownerId,omitempty"`
}

// Derived reports whether the line was generated from a player tag
func (l TacticalLine) Derived() bool {
	return l.OwnerID != ""
}

// Clone returns a deep copy of l
func (l TacticalLine) Clone() TacticalLine {
	out := l
	out.Points = l.Points.Clone()
	return out
}

// TacticalZone is a highlighted rectangle given by its center and extents
type TacticalZone struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	OwnerID string  `json:"ownerId,omitempty"`
}

// Derived reports whether the zone was generated from a player tag
func (z TacticalZone) Derived() bool {
	return z.OwnerID != ""
}

// ClonePlayers deep-copies a roster
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p.Clone()
	}
	return out
}

// CloneLines deep-copies a line collection
func CloneLines(lines []TacticalLine) []TacticalLine {
	if lines == nil {
		return nil
	}
	out := make([]TacticalLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// CloneZones copies a zone collection
func CloneZones(zones []TacticalZone) []TacticalZone {
	if zones == nil {
		return nil
	}
	return slices.Clone(zones)
}
