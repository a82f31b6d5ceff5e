// Package formation applies named presets to one side of the board.
package formation

import (
	"slices"

	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Names lists the available presets in display order
func Names() []string {
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the preset called name
func Lookup(name string) (Preset, bool) {
	i := slices.IndexFunc(presets, func(p Preset) bool { return p.Name == name })
	if i < 0 {
		return Preset{}, false
	}
	return presets[i], true
}

// SlotsFor returns the preset slots oriented for team. For the mirrored team x becomes
// 100-x and left/right role prefixes swap, since the team faces the other way.
func SlotsFor(name string, team core.Team) []Slot {
	p, ok := Lookup(name)
	if !ok {
		return nil
	}
	out := slices.Clone(p.Slots)
	if team.Mirrored() {
		for i := range out {
			out[i].X = core.BoardMax - out[i].X
			out[i].Role = MirrorRole(out[i].Role)
		}
	}
	return out
}

// Positions returns the preset coordinates for team, or nil for an unknown preset
func Positions(name string, team core.Team) []core.Position2D {
	slots := SlotsFor(name, team)
	if slots == nil {
		return nil
	}
	out := make([]core.Position2D, len(slots))
	for i, s := range slots {
		out[i] = core.Position2D{X: s.X, Y: s.Y}
	}
	return out
}

// MirrorRole swaps the side prefix of a role: LB <-> RB, LCM <-> RCM. Central roles are unchanged.
func MirrorRole(role string) string {
	switch side(role) {
	case 'L':
		return "R" + role[1:]
	case 'R':
		return "L" + role[1:]
	}
	return role
}

// side reports 'L' or 'R' for sided roles and 0 otherwise
func side(role string) byte {
	if len(role) < 2 {
		return 0
	}
	if role[0] == 'L' || role[0] == 'R' {
		return role[0]
	}
	return 0
}

// line orders roles from the own goal outward: 0 defence, 1 holding midfield, 2 midfield,
// 3 attacking midfield, 4 attack. Unknown roles report -1.
func line(role string) int {
	switch role {
	case "LB", "RB", "CB", "LCB", "RCB", "LWB", "RWB":
		return 0
	case "CDM", "LDM", "RDM":
		return 1
	case "CM", "LCM", "RCM", "LM", "RM":
		return 2
	case "CAM", "LAM", "RAM":
		return 3
	case "ST", "LS", "RS", "CF", "LW", "RW":
		return 4
	}
	return -1
}

// wide reports whether role plays on a flank rather than through the middle
func wide(role string) bool {
	switch role {
	case "LB", "RB", "LWB", "RWB", "LM", "RM", "LAM", "RAM", "LW", "RW":
		return true
	}
	return false
}

func lineGap(a, b string) int {
	la, lb := line(a), line(b)
	if la < 0 || lb < 0 {
		return -1
	}
	if la > lb {
		return la - lb
	}
	return lb - la
}

// fit scores how well a slot suits role when the player has to change line: own side and
// lane first, then a central slot, then the far side
func fit(role string, s Slot) int {
	cost := 2
	switch {
	case side(role) == side(s.Role):
		cost = 0
	case side(s.Role) == 0:
		cost = 1
	}
	if wide(role) != wide(s.Role) {
		cost += 2
	}
	return cost
}

// Apply moves team's outfield players onto the preset. Each pass runs over the unassigned
// players in roster order and hands out the free slots:
//
//  1. the slot with the player's role
//  2. same line and lane (central/wide), same side first
//  3. wide players: the nearest free wide slot on their flank
//  4. same line
//  5. the neighbouring line, best fit by side and lane
//  6. same side
//  7. any free slot
//
// Goalkeepers, the other team, tags, the ball, lines and zones are untouched.
// An unknown preset returns players unchanged and false.
func Apply(players []core.Player, team core.Team, name string) ([]core.Player, bool) {
	slots := SlotsFor(name, team)
	if slots == nil {
		return players, false
	}

	var outfield []int
	for i, p := range players {
		if p.Team == team && !p.IsGoalkeeper() {
			outfield = append(outfield, i)
		}
	}

	assigned := make(map[int]int, len(outfield)) // player index -> slot index
	used := make([]bool, len(slots))
	// claim gives every unassigned player the matching free slot with the lowest cost,
	// ties going to slot order
	claim := func(match func(role string, s Slot) bool, cost func(role string, s Slot) int) {
		for _, pi := range outfield {
			if _, done := assigned[pi]; done {
				continue
			}
			role := players[pi].Role
			best := -1
			for si, s := range slots {
				if used[si] || !match(role, s) {
					continue
				}
				if best < 0 || (cost != nil && cost(role, s) < cost(role, slots[best])) {
					best = si
				}
			}
			if best >= 0 {
				assigned[pi] = best
				used[best] = true
			}
		}
	}
	sameLine := func(role string, s Slot) bool { return line(role) >= 0 && line(role) == line(s.Role) }
	sameLane := func(role string, s Slot) bool { return sameLine(role, s) && wide(role) == wide(s.Role) }
	sameSide := func(role string, s Slot) bool { return side(role) != 0 && side(role) == side(s.Role) }

	claim(func(role string, s Slot) bool { return role != "" && role == s.Role }, nil)
	claim(func(role string, s Slot) bool { return sameLane(role, s) && side(role) == side(s.Role) }, nil)
	claim(sameLane, nil)
	claim(func(role string, s Slot) bool { return wide(role) && wide(s.Role) && sameSide(role, s) },
		func(role string, s Slot) int { return lineGap(role, s.Role) })
	claim(sameLine, nil)
	claim(func(role string, s Slot) bool { return lineGap(role, s.Role) == 1 }, fit)
	claim(sameSide, nil)
	claim(func(string, Slot) bool { return true }, nil)

	out := slices.Clone(players)
	for pi, si := range assigned {
		out[pi].X = slots[si].X
		out[pi].Y = slots[si].Y
	}
	return out, true
}
