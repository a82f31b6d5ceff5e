package offside

import (
	"testing"

	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(team core.Team, xs ...float64) []core.Player {
	out := make([]core.Player, len(xs))
	for i, x := range xs {
		out[i] = core.Player{ID: string(team) + string(rune('a'+i)), Team: team, Number: i + 1, X: x, Y: 50}
	}
	return out
}

func TestCalculate_LeftBallClamp(t *testing.T) {
	players := roster(core.TeamRed, 30, 10, 20)

	tests := []struct {
		name  string
		ball  *core.Position2D
		wantX float64
	}{
		{"no ball", nil, 20},
		{"ball nearer own goal", &core.Position2D{X: 15, Y: 50}, 15},
		{"ball further up", &core.Position2D{X: 25, Y: 50}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Calculate(players, tt.ball)
			require.NotNil(t, lines.Left)
			assert.Equal(t, tt.wantX, *lines.Left)
			assert.Nil(t, lines.Right)
		})
	}
}

func TestCalculate_RightSide(t *testing.T) {
	players := roster(core.TeamBlue, 70, 90, 80)

	lines := Calculate(players, nil)
	require.NotNil(t, lines.Right)
	assert.Equal(t, 80.0, *lines.Right)

	lines = Calculate(players, &core.Position2D{X: 85})
	assert.Equal(t, 85.0, *lines.Right)

	lines = Calculate(players, &core.Position2D{X: 75})
	assert.Equal(t, 80.0, *lines.Right)
}

func TestCalculate_FewerThanTwoPlayers(t *testing.T) {
	players := append(roster(core.TeamRed, 40), roster(core.TeamBlue, 60)...)

	lines := Calculate(players, &core.Position2D{X: 50, Y: 50})
	assert.Nil(t, lines.Left)
	assert.Nil(t, lines.Right)

	lines = Calculate(nil, nil)
	assert.Nil(t, lines.Left)
	assert.Nil(t, lines.Right)
}

func TestCalculate_DoesNotReorderInput(t *testing.T) {
	players := roster(core.TeamRed, 30, 10, 20)
	before := append([]core.Player(nil), players...)

	Calculate(players, nil)
	assert.Equal(t, before, players)
}

func TestCalculate_TiedDefenders(t *testing.T) {
	lines := Calculate(roster(core.TeamRed, 20, 20, 50), nil)
	require.NotNil(t, lines.Left)
	assert.Equal(t, 20.0, *lines.Left)
}

func TestSegments(t *testing.T) {
	players := append(roster(core.TeamRed, 10, 20), roster(core.TeamBlue, 80, 90)...)
	lines := Calculate(players, nil)

	segs := lines.Segments(All(true))
	require.Len(t, segs, 2)
	assert.Equal(t, core.TeamRed, segs[0].Team)
	assert.Equal(t, core.Position2D{X: 20, Y: 0}, segs[0].From)
	assert.Equal(t, core.Position2D{X: 20, Y: 100}, segs[0].To)
	assert.Equal(t, core.TeamBlue, segs[1].Team)
	assert.Equal(t, 80.0, segs[1].From.X)

	segs = lines.Segments(Visibility{Right: true})
	require.Len(t, segs, 1)
	assert.Equal(t, core.TeamBlue, segs[0].Team)

	assert.Empty(t, lines.Segments(All(false)))
}

func TestSegments_UndefinedLineNotDrawn(t *testing.T) {
	lines := Calculate(roster(core.TeamRed, 10, 20), nil)
	segs := lines.Segments(All(true))
	require.Len(t, segs, 1)
	assert.Equal(t, core.TeamRed, segs[0].Team)
}
