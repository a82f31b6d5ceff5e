package board

import (
	"testing"

	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeLine(id string, pts ...core.Position2D) core.TacticalLine {
	return core.TacticalLine{ID: id, Points: pts, Color: "#ffffff"}
}

func sameSlice[T any](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	return &a[0] == &b[0] && len(a) == len(b)
}

func TestInitial(t *testing.T) {
	b := Initial()

	require.Len(t, b.Players, 22)
	assert.Empty(t, b.Lines)
	assert.Empty(t, b.Zones)
	require.NotNil(t, b.Ball)
	assert.Equal(t, core.Center, *b.Ball)

	r1, ok := b.Player("r1")
	require.True(t, ok)
	assert.True(t, r1.IsGoalkeeper())
	assert.Equal(t, core.Position2D{X: 5, Y: 50}, r1.Position())

	b3, ok := b.Player("b3")
	require.True(t, ok)
	assert.Equal(t, "RB", b3.Role)
	assert.Equal(t, core.Position2D{X: 80, Y: 15}, b3.Position())

	for _, p := range b.Players {
		assert.NotNil(t, p.Tags, p.ID)
	}
}

func TestInitial_IndependentCopies(t *testing.T) {
	a := Initial()
	a.Players[0].X = 99
	a.Ball.X = 1

	b := Initial()
	assert.Equal(t, 5.0, b.Players[0].X)
	assert.Equal(t, 50.0, b.Ball.X)
}

func TestMovePlayer_CascadeDelete(t *testing.T) {
	b := Initial()
	b = Reduce(b, AddTag{PlayerID: "r7", Tag: "前插"})
	b = Reduce(b, AddTag{PlayerID: "r7", Tag: "肋部空间"})
	b = Reduce(b, AddTag{PlayerID: "r9", Tag: "压迫"})
	b = Reduce(b, AddTag{PlayerID: "r9", Tag: "局部过载"})
	b = Reduce(b, CreateLine{Line: freeLine("free", core.Position2D{X: 1, Y: 1}, core.Position2D{X: 2, Y: 2})})
	require.Len(t, b.Lines, 3)
	require.Len(t, b.Zones, 2)

	moved := Reduce(b, MovePlayer{ID: "r7", X: 62, Y: 20})

	r7, _ := moved.Player("r7")
	assert.Empty(t, r7.Tags)
	assert.Equal(t, core.Position2D{X: 62, Y: 20}, r7.Position())

	for _, l := range moved.Lines {
		assert.NotEqual(t, "r7", l.OwnerID)
	}
	for _, z := range moved.Zones {
		assert.NotEqual(t, "r7", z.OwnerID)
	}
	assert.Len(t, moved.Lines, 2)
	assert.Len(t, moved.Zones, 1)

	r9, _ := moved.Player("r9")
	assert.Equal(t, []string{"压迫", "局部过载"}, r9.Tags)

	// the previous board is untouched
	old, _ := b.Player("r7")
	assert.Len(t, old.Tags, 2)
	assert.Len(t, b.Lines, 3)
}

func TestMovePlayer_Clamps(t *testing.T) {
	b := Reduce(Initial(), MovePlayer{ID: "b9", X: -20, Y: 130})
	p, _ := b.Player("b9")
	assert.Equal(t, core.Position2D{X: 0, Y: 100}, p.Position())
}

func TestMovePlayer_UnknownID(t *testing.T) {
	b := Initial()
	out := Reduce(b, MovePlayer{ID: "zz", X: 10, Y: 10})
	assert.True(t, sameSlice(b.Players, out.Players))
}

func TestMovePlayer_KeepsUntouchedCollections(t *testing.T) {
	b := Reduce(Initial(), CreateLine{Line: freeLine("l", core.Position2D{}, core.Position2D{X: 5, Y: 5})})
	out := Reduce(b, MovePlayer{ID: "r2", X: 10, Y: 10})

	assert.False(t, sameSlice(b.Players, out.Players))
	assert.True(t, sameSlice(b.Lines, out.Lines))
	assert.True(t, sameSlice(b.Zones, out.Zones))
}

func TestMoveBall(t *testing.T) {
	b := Initial()
	out := Reduce(b, MoveBall{X: 140, Y: 25})

	require.NotNil(t, out.Ball)
	assert.Equal(t, core.Position2D{X: 100, Y: 25}, *out.Ball)
	assert.Equal(t, core.Center, *b.Ball)
	assert.True(t, sameSlice(b.Players, out.Players))
}

func TestAddTag(t *testing.T) {
	b := Reduce(Initial(), AddTag{PlayerID: "b7", Tag: "前插"})

	p, _ := b.Player("b7")
	assert.Equal(t, []string{"前插"}, p.Tags)
	require.Len(t, b.Lines, 1)
	line := b.Lines[0]
	assert.Equal(t, "b7", line.OwnerID)
	assert.Less(t, line.Points[1].X, line.Points[0].X, "blue runs towards the left goal")
}

func TestAddTag_Duplicate(t *testing.T) {
	b := Reduce(Initial(), AddTag{PlayerID: "r9", Tag: "压迫"})
	again := Reduce(b, AddTag{PlayerID: "r9", Tag: "压迫"})

	assert.True(t, sameSlice(b.Players, again.Players))
	assert.True(t, sameSlice(b.Lines, again.Lines))
	assert.Len(t, again.Lines, 1)
}

func TestAddTag_NoAnnotation(t *testing.T) {
	b := Reduce(Initial(), AddTag{PlayerID: "r8", Tag: "组织进攻"})

	p, _ := b.Player("r8")
	assert.Equal(t, []string{"组织进攻"}, p.Tags)
	assert.Empty(t, b.Lines)
	assert.Empty(t, b.Zones)
}

func TestAddTag_Ignored(t *testing.T) {
	b := Initial()
	assert.True(t, sameSlice(b.Players, Reduce(b, AddTag{PlayerID: "nobody", Tag: "压迫"}).Players))
	assert.True(t, sameSlice(b.Players, Reduce(b, AddTag{PlayerID: "r2", Tag: "   "}).Players))
}

func TestAddTag_SameTemplateTwiceKeepsOneEntity(t *testing.T) {
	// two aliases of the same tag id on one player
	b := Reduce(Initial(), AddTag{PlayerID: "r9", Tag: "压迫"})
	b = Reduce(b, AddTag{PlayerID: "r9", Tag: "高位逼抢"})

	p, _ := b.Player("r9")
	assert.Len(t, p.Tags, 2)
	assert.Len(t, b.Lines, 1)
}

func TestResetTags(t *testing.T) {
	b := Reduce(Initial(), AddTag{PlayerID: "r4", Tag: "回撤"})
	b = Reduce(b, AddTag{PlayerID: "r4", Tag: "接球口袋"})
	b = Reduce(b, AddTag{PlayerID: "r5", Tag: "回撤"})

	b = Reduce(b, ResetTags{PlayerID: "r4"})
	p, _ := b.Player("r4")
	assert.Empty(t, p.Tags)
	assert.Empty(t, b.Zones)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, "r5", b.Lines[0].OwnerID)

	// position kept
	assert.Equal(t, core.Position2D{X: 18, Y: 38}, p.Position())
}

func TestCreateLine(t *testing.T) {
	b := Initial()
	pts := []core.Position2D{{X: -5, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 110}}
	out := Reduce(b, CreateLine{Line: freeLine("l1", pts...)})

	require.Len(t, out.Lines, 1)
	assert.Equal(t, core.Polyline{{X: 0, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 100}}, out.Lines[0].Points)
	// caller's points are not aliased
	assert.Equal(t, -5.0, pts[0].X)

	assert.Empty(t, Reduce(b, CreateLine{Line: freeLine("short", core.Position2D{})}).Lines)
	assert.Empty(t, Reduce(b, CreateLine{Line: freeLine("", core.Position2D{}, core.Position2D{})}).Lines)
}

func TestRemoveLine(t *testing.T) {
	b := Reduce(Initial(), CreateLine{Line: freeLine("a", core.Position2D{}, core.Position2D{X: 1})})
	b = Reduce(b, CreateLine{Line: freeLine("b", core.Position2D{}, core.Position2D{X: 2})})

	out := Reduce(b, RemoveLine{ID: "a"})
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "b", out.Lines[0].ID)
	assert.Len(t, b.Lines, 2)

	same := Reduce(b, RemoveLine{ID: "missing"})
	assert.True(t, sameSlice(b.Lines, same.Lines))
}

func TestUndoLine_LIFOOverFreeLines(t *testing.T) {
	b := Reduce(Initial(), CreateLine{Line: freeLine("first", core.Position2D{}, core.Position2D{X: 1})})
	b = Reduce(b, CreateLine{Line: freeLine("second", core.Position2D{}, core.Position2D{X: 2})})
	b = Reduce(b, AddTag{PlayerID: "r9", Tag: "压迫"})
	require.Len(t, b.Lines, 3)
	assert.Equal(t, 2, b.FreeLines())

	b = Reduce(b, UndoLine{})
	_, ok := b.Line("second")
	assert.False(t, ok)
	_, ok = b.Line("r9:press")
	assert.True(t, ok, "derived lines are not undone")

	b = Reduce(b, UndoLine{})
	assert.Equal(t, 0, b.FreeLines())

	again := Reduce(b, UndoLine{})
	assert.True(t, sameSlice(b.Lines, again.Lines))
	assert.Len(t, again.Lines, 1)
}

func TestClearAnnotations(t *testing.T) {
	b := Reduce(Initial(), AddTag{PlayerID: "r9", Tag: "压迫"})
	b = Reduce(b, AddTag{PlayerID: "r9", Tag: "14区"})
	b = Reduce(b, ClearAnnotations{})

	assert.Empty(t, b.Lines)
	assert.Empty(t, b.Zones)
	assert.NotNil(t, b.Lines)
}

func TestReset(t *testing.T) {
	b := Reduce(Initial(), MovePlayer{ID: "r9", X: 90, Y: 90})
	b = Reduce(b, MoveBall{X: 10, Y: 10})
	b = Reduce(b, AddTag{PlayerID: "b9", Tag: "肋部空间"})
	b = Reduce(b, CreateLine{Line: freeLine("x", core.Position2D{}, core.Position2D{X: 1})})

	assert.Equal(t, Initial(), Reduce(b, Reset{}))
}

func TestApplyFormation(t *testing.T) {
	b := Reduce(Initial(), AddTag{PlayerID: "r9", Tag: "压迫"})
	out := Reduce(b, ApplyFormation{Team: core.TeamRed, Name: "4-2-3-1"})

	st, _ := out.Player("r9")
	assert.Equal(t, core.Position2D{X: 48, Y: 50}, st.Position())
	assert.Equal(t, []string{"压迫"}, st.Tags, "formations keep tags")
	assert.True(t, sameSlice(b.Lines, out.Lines))

	gk, _ := out.Player("r1")
	assert.Equal(t, core.Position2D{X: 5, Y: 50}, gk.Position())

	unchanged := Reduce(b, ApplyFormation{Team: core.TeamRed, Name: "missing"})
	assert.True(t, sameSlice(b.Players, unchanged.Players))
}

func TestApplyFormation_DefaultRosterRoles(t *testing.T) {
	tests := []struct {
		preset string
		want   map[string]core.Position2D
	}{
		{"4-4-2 (Flat)", map[string]core.Position2D{
			"r2": {X: 15, Y: 15}, "r3": {X: 15, Y: 85}, "r4": {X: 12, Y: 38}, "r5": {X: 12, Y: 62},
			"r7": {X: 32, Y: 15}, "r8": {X: 32, Y: 38}, "r10": {X: 32, Y: 62}, "r11": {X: 32, Y: 85},
			"r9": {X: 45, Y: 38}, "r6": {X: 45, Y: 62},
		}},
		{"4-2-3-1", map[string]core.Position2D{
			"r2": {X: 15, Y: 15}, "r3": {X: 15, Y: 85}, "r4": {X: 12, Y: 38}, "r5": {X: 12, Y: 62},
			"r6": {X: 25, Y: 35}, "r10": {X: 25, Y: 65},
			"r7": {X: 40, Y: 15}, "r8": {X: 40, Y: 50}, "r11": {X: 40, Y: 85},
			"r9": {X: 48, Y: 50},
		}},
		{"4-4-2 (Diamond)", map[string]core.Position2D{
			"r6": {X: 25, Y: 50}, "r7": {X: 35, Y: 20}, "r11": {X: 35, Y: 80},
			"r8": {X: 42, Y: 50}, "r9": {X: 48, Y: 40}, "r10": {X: 48, Y: 60},
		}},
		{"3-4-3", map[string]core.Position2D{
			"r6": {X: 12, Y: 50}, "r2": {X: 30, Y: 10}, "r3": {X: 30, Y: 90},
			"r8": {X: 30, Y: 40}, "r10": {X: 30, Y: 60}, "r9": {X: 48, Y: 50},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			out := Reduce(Initial(), ApplyFormation{Team: core.TeamRed, Name: tt.preset})
			for id, want := range tt.want {
				p, ok := out.Player(id)
				require.True(t, ok, id)
				assert.Equal(t, want, p.Position(), "%s (%s)", id, p.Role)
			}
		})
	}
}

func TestApplyFormation_DefaultRosterMirrored(t *testing.T) {
	out := Reduce(Initial(), ApplyFormation{Team: core.TeamBlue, Name: "4-2-3-1"})

	want := map[string]core.Position2D{
		"b2": {X: 85, Y: 85}, // LB keeps the blue left flank
		"b6": {X: 75, Y: 35},
		"b7": {X: 60, Y: 85},
		"b9": {X: 52, Y: 50},
	}
	for id, pos := range want {
		p, _ := out.Player(id)
		assert.Equal(t, pos, p.Position(), id)
	}
	r9, _ := out.Player("r9")
	assert.Equal(t, core.Position2D{X: 65, Y: 50}, r9.Position())
}

func TestRestoreNode(t *testing.T) {
	live := Reduce(Initial(), AddTag{PlayerID: "r9", Tag: "压迫"})
	live = Reduce(live, AddTag{PlayerID: "r9", Tag: "14区"})
	snapshot := core.LogicNode{
		ID:         "n1",
		BoardState: core.ClonePlayers(live.Players),
		LineState:  core.CloneLines(live.Lines),
		ZoneState:  core.CloneZones(live.Zones),
	}

	changed := Reduce(live, MovePlayer{ID: "r9", X: 1, Y: 1})
	changed = Reduce(changed, CreateLine{Line: freeLine("late", core.Position2D{}, core.Position2D{X: 3})})

	restored := Reduce(changed, RestoreNode{Node: snapshot})
	assert.Equal(t, live.Players, restored.Players)
	assert.Equal(t, live.Lines, restored.Lines)
	assert.Equal(t, live.Zones, restored.Zones)

	// restored board does not alias the snapshot
	restored.Players[0].X = 77
	assert.NotEqual(t, 77.0, snapshot.BoardState[0].X)
}

func TestRestoreNode_PlayersOnly(t *testing.T) {
	live := Reduce(Initial(), CreateLine{Line: freeLine("keep", core.Position2D{}, core.Position2D{X: 1})})
	node := core.LogicNode{BoardState: DefaultRoster()}

	restored := Reduce(live, RestoreNode{Node: node})
	assert.Len(t, restored.Lines, 1)
	assert.True(t, sameSlice(live.Zones, restored.Zones))
}

func TestBoardClone(t *testing.T) {
	b := Reduce(Initial(), AddTag{PlayerID: "r9", Tag: "压迫"})
	c := b.Clone()
	c.Players[8].Tags[0] = "changed"
	c.Lines[0].Points[0].X = 0
	c.Ball.X = 0

	p, _ := b.Player("r9")
	assert.Equal(t, "压迫", p.Tags[0])
	assert.NotEqual(t, 0.0, b.Lines[0].Points[0].X)
	assert.Equal(t, 50.0, b.Ball.X)
}
