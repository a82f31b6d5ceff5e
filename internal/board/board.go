// Package board holds the immutable board document and its transition function.
//
// A Board is never modified in place. Reduce returns a new Board; collections an event
// does not touch keep their backing slice, so callers can detect change by comparing
// slice identity.
package board

import (
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Board is the full tactical document
type Board struct {
	Players []core.Player       `json:"players"`
	Lines   []core.TacticalLine `json:"lines"`
	Zones   []core.TacticalZone `json:"zones"`
	Ball    *core.Position2D    `json:"ball,omitempty"`
}

// Player returns the player with the given id
func (b Board) Player(id string) (core.Player, bool) {
	if i := b.playerIndex(id); i >= 0 {
		return b.Players[i], true
	}
	return core.Player{}, false
}

func (b Board) playerIndex(id string) int {
	for i, p := range b.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Line returns the line with the given id
func (b Board) Line(id string) (core.TacticalLine, bool) {
	for _, l := range b.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return core.TacticalLine{}, false
}

// FreeLines counts hand-drawn lines
func (b Board) FreeLines() int {
	n := 0
	for _, l := range b.Lines {
		if !l.Derived() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy sharing no memory with b
func (b Board) Clone() Board {
	out := Board{
		Players: core.ClonePlayers(b.Players),
		Lines:   core.CloneLines(b.Lines),
		Zones:   core.CloneZones(b.Zones),
	}
	if b.Ball != nil {
		ball := *b.Ball
		out.Ball = &ball
	}
	return out
}
