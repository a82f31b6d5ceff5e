package board

import (
	"slices"
	"strings"

	"github.com/pitchlogic/tactical-board/internal/annotation"
	"github.com/pitchlogic/tactical-board/internal/formation"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Event is a board transition accepted by Reduce
type Event interface {
	isEvent()
}

// MovePlayer repositions a player. The player's tags are cleared and every line and zone
// it owns is removed.
type MovePlayer struct {
	ID   string
	X, Y float64
}

// MoveBall repositions the ball, creating it if absent
type MoveBall struct {
	X, Y float64
}

// AddTag attaches a tag to a player and draws the annotation it implies
type AddTag struct {
	PlayerID string
	Tag      string
}

// ResetTags clears a player's tags together with its derived lines and zones
type ResetTags struct {
	PlayerID string
}

// CreateLine commits a line. Points are clamped; lines with fewer than two points are ignored.
type CreateLine struct {
	Line core.TacticalLine
}

// RemoveLine deletes a line by id
type RemoveLine struct {
	ID string
}

// UndoLine removes the most recently committed free line
type UndoLine struct{}

// ClearAnnotations removes every line and zone
type ClearAnnotations struct{}

// Reset restores the initial board
type Reset struct{}

// ApplyFormation moves one team onto a named preset
type ApplyFormation struct {
	Team core.Team
	Name string
}

// RestoreNode replaces the roster with a snapshot. Lines and zones are replaced only when
// the snapshot captured them.
type RestoreNode struct {
	Node core.LogicNode
}

func (MovePlayer) isEvent()       {}
func (MoveBall) isEvent()         {}
func (AddTag) isEvent()           {}
func (ResetTags) isEvent()        {}
func (CreateLine) isEvent()       {}
func (RemoveLine) isEvent()       {}
func (UndoLine) isEvent()         {}
func (ClearAnnotations) isEvent() {}
func (Reset) isEvent()            {}
func (ApplyFormation) isEvent()   {}
func (RestoreNode) isEvent()      {}

// Reduce applies e to b and returns the resulting board. Invalid input (unknown ids,
// unknown presets, degenerate lines) leaves the board unchanged.
func Reduce(b Board, e Event) Board {
	switch e := e.(type) {
	case MovePlayer:
		return movePlayer(b, e)
	case MoveBall:
		ball := geo.ClampPoint(core.Position2D{X: e.X, Y: e.Y})
		b.Ball = &ball
		return b
	case AddTag:
		return addTag(b, e)
	case ResetTags:
		return resetTags(b, e.PlayerID)
	case CreateLine:
		return createLine(b, e.Line)
	case RemoveLine:
		i := slices.IndexFunc(b.Lines, func(l core.TacticalLine) bool { return l.ID == e.ID })
		if i < 0 {
			return b
		}
		b.Lines = slices.Delete(slices.Clone(b.Lines), i, i+1)
		return b
	case UndoLine:
		return undoLine(b)
	case ClearAnnotations:
		if len(b.Lines) == 0 && len(b.Zones) == 0 {
			return b
		}
		b.Lines = []core.TacticalLine{}
		b.Zones = []core.TacticalZone{}
		return b
	case Reset:
		return Initial()
	case ApplyFormation:
		if players, ok := formation.Apply(b.Players, e.Team, e.Name); ok {
			b.Players = players
		}
		return b
	case RestoreNode:
		return restore(b, e.Node)
	}
	return b
}

func movePlayer(b Board, e MovePlayer) Board {
	i := b.playerIndex(e.ID)
	if i < 0 {
		return b
	}
	pos := geo.ClampPoint(core.Position2D{X: e.X, Y: e.Y})

	players := slices.Clone(b.Players)
	players[i].X = pos.X
	players[i].Y = pos.Y
	players[i].Tags = []string{}
	b.Players = players

	b.Lines = dropOwnedLines(b.Lines, e.ID)
	b.Zones = dropOwnedZones(b.Zones, e.ID)
	return b
}

func addTag(b Board, e AddTag) Board {
	tag := strings.TrimSpace(e.Tag)
	i := b.playerIndex(e.PlayerID)
	if i < 0 || tag == "" || b.Players[i].HasTag(tag) {
		return b
	}

	players := slices.Clone(b.Players)
	players[i].Tags = append(slices.Clone(players[i].Tags), tag)
	b.Players = players

	res := annotation.ApplyTag(players[i], tag)
	if res.Line != nil {
		b.Lines = upsertLine(b.Lines, *res.Line)
	}
	if res.Zone != nil {
		b.Zones = upsertZone(b.Zones, *res.Zone)
	}
	return b
}

func resetTags(b Board, id string) Board {
	i := b.playerIndex(id)
	if i < 0 {
		return b
	}
	if len(b.Players[i].Tags) > 0 {
		players := slices.Clone(b.Players)
		players[i].Tags = []string{}
		b.Players = players
	}
	b.Lines = dropOwnedLines(b.Lines, id)
	b.Zones = dropOwnedZones(b.Zones, id)
	return b
}

func createLine(b Board, line core.TacticalLine) Board {
	if len(line.Points) < 2 || line.ID == "" {
		return b
	}
	line = line.Clone()
	for i, p := range line.Points {
		line.Points[i] = geo.ClampPoint(p)
	}
	b.Lines = upsertLine(b.Lines, line)
	return b
}

func undoLine(b Board) Board {
	for i := len(b.Lines) - 1; i >= 0; i-- {
		if !b.Lines[i].Derived() {
			b.Lines = slices.Delete(slices.Clone(b.Lines), i, i+1)
			return b
		}
	}
	return b
}

func restore(b Board, n core.LogicNode) Board {
	n = n.Clone()
	b.Players = n.BoardState
	if b.Players == nil {
		b.Players = []core.Player{}
	}
	if n.LineState != nil {
		b.Lines = n.LineState
	}
	if n.ZoneState != nil {
		b.Zones = n.ZoneState
	}
	return b
}

// upsertLine replaces a line with the same id or appends it
func upsertLine(lines []core.TacticalLine, line core.TacticalLine) []core.TacticalLine {
	out := slices.Clone(lines)
	if i := slices.IndexFunc(out, func(l core.TacticalLine) bool { return l.ID == line.ID }); i >= 0 {
		out[i] = line
		return out
	}
	return append(out, line)
}

func upsertZone(zones []core.TacticalZone, zone core.TacticalZone) []core.TacticalZone {
	out := slices.Clone(zones)
	if i := slices.IndexFunc(out, func(z core.TacticalZone) bool { return z.ID == zone.ID }); i >= 0 {
		out[i] = zone
		return out
	}
	return append(out, zone)
}

func dropOwnedLines(lines []core.TacticalLine, owner string) []core.TacticalLine {
	if !slices.ContainsFunc(lines, func(l core.TacticalLine) bool { return l.OwnerID == owner }) {
		return lines
	}
	return slices.DeleteFunc(slices.Clone(lines), func(l core.TacticalLine) bool { return l.OwnerID == owner })
}

func dropOwnedZones(zones []core.TacticalZone, owner string) []core.TacticalZone {
	if !slices.ContainsFunc(zones, func(z core.TacticalZone) bool { return z.OwnerID == owner }) {
		return zones
	}
	return slices.DeleteFunc(slices.Clone(zones), func(z core.TacticalZone) bool { return z.OwnerID == owner })
}
