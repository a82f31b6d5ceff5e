package board

import (
	"strconv"

	"github.com/pitchlogic/tactical-board/pkg/core"
)

type rosterEntry struct {
	role string
	x, y float64
}

// indexed by shirt number - 1
var (
	redRoster = []rosterEntry{
		{"GK", 5, 50}, {"LB", 20, 15}, {"RB", 20, 85}, {"LCB", 18, 38}, {"RCB", 18, 62},
		{"CDM", 35, 50}, {"LW", 60, 15}, {"LCM", 45, 35}, {"ST", 65, 50}, {"RCM", 45, 65}, {"RW", 60, 85},
	}
	blueRoster = []rosterEntry{
		{"GK", 95, 50}, {"LB", 80, 85}, {"RB", 80, 15}, {"LCB", 82, 62}, {"RCB", 82, 38},
		{"CDM", 65, 50}, {"LW", 40, 85}, {"LCM", 55, 65}, {"ST", 35, 50}, {"RCM", 55, 35}, {"RW", 40, 15},
	}
)

// DefaultRoster returns the fixed 11 + 11 starting line-up. Red defends the left goal.
func DefaultRoster() []core.Player {
	out := make([]core.Player, 0, len(redRoster)+len(blueRoster))
	out = appendTeam(out, core.TeamRed, "r", redRoster)
	out = appendTeam(out, core.TeamBlue, "b", blueRoster)
	return out
}

func appendTeam(out []core.Player, team core.Team, prefix string, entries []rosterEntry) []core.Player {
	for i, e := range entries {
		n := i + 1
		out = append(out, core.Player{
			ID:     prefix + strconv.Itoa(n),
			Team:   team,
			Number: n,
			Role:   e.role,
			X:      e.x,
			Y:      e.y,
			Tags:   []string{},
		})
	}
	return out
}

// Initial is the board right after start-up or reset: default roster, no annotations and
// the ball on the center spot.
func Initial() Board {
	ball := core.Center
	return Board{
		Players: DefaultRoster(),
		Lines:   []core.TacticalLine{},
		Zones:   []core.TacticalZone{},
		Ball:    &ball,
	}
}
