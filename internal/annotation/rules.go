package annotation

import (
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Palette used by the templates
const (
	ColorRed    = "#ef4444"
	ColorOrange = "#f97316"
	ColorBlue   = "#3b82f6"
	ColorYellow = "#eab308"
	ColorPurple = "#a855f7"
	ColorGreen  = "#00ff41"
)

type lineTemplate struct {
	dx     float64 // along the attacking direction
	color  string
	dashed bool
}

type zoneTemplate struct {
	anchor        func(p core.Player, dir float64) core.Position2D
	width, height float64
	color         string
}

var lineTemplates = map[TagID]lineTemplate{
	TagForwardRun: {dx: 15, color: ColorRed},
	TagPress:      {dx: 8, color: ColorOrange},
	TagDropBack:   {dx: -12, color: ColorBlue, dashed: true},
	TagSupport:    {dx: -8, color: ColorYellow, dashed: true},
}

var zoneTemplates = map[TagID]zoneTemplate{
	TagHalfSpace: {
		anchor: func(p core.Player, dir float64) core.Position2D { return core.Position2D{X: p.X + 8*dir, Y: p.Y} },
		width:  15,
		height: 20,
		color:  "rgba(168, 85, 247, 0.3)",
	},
	TagOverload: {
		anchor: func(p core.Player, _ float64) core.Position2D { return p.Position() },
		width:  20,
		height: 25,
		color:  "rgba(249, 115, 22, 0.25)",
	},
	TagPocket: {
		anchor: func(p core.Player, dir float64) core.Position2D { return core.Position2D{X: p.X + 5*dir, Y: p.Y} },
		width:  10,
		height: 12,
		color:  "rgba(234, 179, 8, 0.3)",
	},
	TagWingChannel: {
		anchor: wingAnchor,
		width:  25,
		height: 15,
		color:  "rgba(59, 130, 246, 0.25)",
	},
	// landmarks in the attacking half, independent of the player's position
	TagZone14: {
		anchor: func(_ core.Player, dir float64) core.Position2D { return core.Position2D{X: 50 + 20*dir, Y: 50} },
		width:  15,
		height: 25,
		color:  "rgba(168, 85, 247, 0.3)",
	},
	TagBox: {
		anchor: func(_ core.Player, dir float64) core.Position2D { return core.Position2D{X: 50 + 37.5*dir, Y: 50} },
		width:  15,
		height: 50,
		color:  "rgba(239, 68, 68, 0.2)",
	},
}

// wingAnchor picks the touchline nearest to the player
func wingAnchor(p core.Player, dir float64) core.Position2D {
	y := 90.0
	if p.Y < 50 {
		y = 10
	}
	return core.Position2D{X: p.X + 10*dir, Y: y}
}

// Result is the annotation produced by a tag. At most one field is set.
type Result struct {
	Line *core.TacticalLine
	Zone *core.TacticalZone
}

// Empty reports whether the tag produced nothing to draw
func (r Result) Empty() bool {
	return r.Line == nil && r.Zone == nil
}

// EntityID is the deterministic id of the entity derived from tag on the given player
func EntityID(playerID string, id TagID) string {
	return playerID + ":" + string(id)
}

// ApplyTag resolves tag against the taxonomy and builds the owned line or zone for player.
// The output depends only on the player's team and position and on the tag.
func ApplyTag(player core.Player, tag string) Result {
	id, ok := Lookup(tag)
	if !ok {
		return Result{}
	}
	dir := player.Team.Direction()

	if t, ok := lineTemplates[id]; ok {
		from := geo.ClampPoint(player.Position())
		to := geo.ClampPoint(core.Position2D{X: player.X + t.dx*dir, Y: player.Y})
		return Result{Line: &core.TacticalLine{
			ID:      EntityID(player.ID, id),
			Points:  core.Polyline{from, to},
			Color:   t.color,
			Dashed:  t.dashed,
			OwnerID: player.ID,
		}}
	}

	if t, ok := zoneTemplates[id]; ok {
		c := geo.ClampPoint(t.anchor(player, dir))
		return Result{Zone: &core.TacticalZone{
			ID:      EntityID(player.ID, id),
			X:       c.X,
			Y:       c.Y,
			Width:   t.width,
			Height:  t.height,
			Color:   t.color,
			OwnerID: player.ID,
		}}
	}
	return Result{}
}
