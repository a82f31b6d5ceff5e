// Package offside derives the offside thresholds from the live player positions.
// Results are never cached; callers recompute on every render.
package offside

import (
	"math"
	"slices"

	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Lines holds the threshold x of each side. Left belongs to the team defending the left
// goal (red), Right to the team defending the right goal (blue). nil means undefined.
type Lines struct {
	Left  *float64 `json:"left"`
	Right *float64 `json:"right"`
}

// Calculate computes both thresholds: the second-last defender of each side, pulled back
// to the ball when the ball is nearer to that side's goal. players is not modified.
func Calculate(players []core.Player, ball *core.Position2D) Lines {
	var red, blue []float64
	for _, p := range players {
		switch p.Team {
		case core.TeamRed:
			red = append(red, p.X)
		case core.TeamBlue:
			blue = append(blue, p.X)
		}
	}

	var out Lines
	if len(red) >= 2 {
		slices.Sort(red)
		x := red[1]
		if ball != nil {
			x = math.Min(x, ball.X)
		}
		out.Left = &x
	}
	if len(blue) >= 2 {
		slices.Sort(blue)
		x := blue[len(blue)-2]
		if ball != nil {
			x = math.Max(x, ball.X)
		}
		out.Right = &x
	}
	return out
}

// Visibility toggles each line for display independently
type Visibility struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// All shows or hides both lines
func All(show bool) Visibility {
	return Visibility{Left: show, Right: show}
}

// Segment is a vertical line across the full board height
type Segment struct {
	Team core.Team       `json:"team"`
	From core.Position2D `json:"from"`
	To   core.Position2D `json:"to"`
}

// Segments returns the drawable lines that are both defined and visible
func (l Lines) Segments(v Visibility) []Segment {
	var out []Segment
	if v.Left && l.Left != nil {
		out = append(out, vertical(core.TeamRed, *l.Left))
	}
	if v.Right && l.Right != nil {
		out = append(out, vertical(core.TeamBlue, *l.Right))
	}
	return out
}

func vertical(team core.Team, x float64) Segment {
	return Segment{
		Team: team,
		From: core.Position2D{X: x, Y: core.BoardMin},
		To:   core.Position2D{X: x, Y: core.BoardMax},
	}
}
