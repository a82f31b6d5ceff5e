package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pitchlogic/tactical-board/internal/annotation"
	"github.com/pitchlogic/tactical-board/internal/channel"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/internal/interaction"
	"github.com/pitchlogic/tactical-board/internal/offside"
	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRect = core.Rect{Width: 1000, Height: 500}

type recordingSink struct {
	mu    sync.Mutex
	nodes []core.LogicNode
}

func (r *recordingSink) Enqueue(n core.LogicNode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = append(r.nodes, n)
}

type fixture struct {
	s      *Session
	sink   *recordingSink
	notify *channel.Buffered[Notification]
}

func newFixture(t *testing.T, opts Options) fixture {
	t.Helper()
	seq := 0
	clock := time.Date(2026, 5, 1, 20, 45, 9, 0, time.UTC)

	f := fixture{sink: &recordingSink{}, notify: channel.NewBuffered[Notification](256)}
	opts.Sink = f.sink
	opts.Notify = f.notify
	opts.Now = func() time.Time { return clock }
	opts.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	}
	f.s = New(opts)
	f.s.SetRect(testRect)
	return f
}

// drain returns the notification types received so far
func (f fixture) drain() []NotificationType {
	var out []NotificationType
	for f.notify.Len() > 0 {
		out = append(out, (<-f.notify.Receive()).Type)
	}
	return out
}

func pointer(x, y float64) interaction.PointerEvent {
	return interaction.PointerEvent{PointerID: 1, X: x, Y: y}
}

func messages(feed []FeedEntry) []string {
	out := make([]string, len(feed))
	for i, e := range feed {
		out[i] = e.Message
	}
	return out
}

func TestNew(t *testing.T) {
	f := newFixture(t, Options{})

	assert.Equal(t, core.ModeMove, f.s.Mode())
	assert.Equal(t, "#facc15", f.s.Style().Color)
	assert.Len(t, f.s.Board().Players, 22)
	assert.Equal(t, []string{"SYSTEM INITIALIZED"}, messages(f.s.Feed()))
	assert.Equal(t, testRect, f.s.Rect())
}

func TestSession_DragPlayerByRawCoordinates(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.s.Select("r7"))
	_, err := f.s.SelectTag("press", annotation.CategoryAction)
	require.NoError(t, err)
	require.Len(t, f.s.Board().Lines, 1)
	f.drain()

	// r7 sits at (60,15) which is (600,75) on a 1000x500 board
	require.True(t, f.s.PointerDown(pointer(600, 75)))
	require.True(t, f.s.PointerMove(pointer(700, 75)))
	phase, _ := f.s.Gesture()
	assert.Equal(t, interaction.PhaseDragging, phase)
	require.True(t, f.s.PointerUp(pointer(700, 100)))

	p, _ := f.s.Board().Player("r7")
	assert.Equal(t, 70.0, p.X)
	assert.Equal(t, 20.0, p.Y)
	assert.Empty(t, p.Tags)
	assert.Empty(t, f.s.Board().Lines, "owned line is dropped with the move")
	assert.NotContains(t, f.drain(), NotifyPlayerSelected)
}

func TestSession_ClickSelectsThenTagCloses(t *testing.T) {
	f := newFixture(t, Options{})

	require.True(t, f.s.PointerDown(pointer(600, 75)))
	require.True(t, f.s.PointerUp(pointer(602, 76)))

	sel, ok := f.s.Selected()
	require.True(t, ok)
	assert.Equal(t, "r7", sel.ID)
	assert.Equal(t, "ENTITY SELECTED: RED #7", f.s.Feed()[0].Message)

	res, err := f.s.SelectTag("前插", annotation.CategoryAction)
	require.NoError(t, err)
	require.NotNil(t, res.Line)
	assert.Equal(t, annotation.ColorRed, res.Line.Color)
	assert.False(t, res.Line.Dashed)

	_, ok = f.s.Selected()
	assert.False(t, ok, "applying a tag clears the selection")
	assert.Equal(t, "TAG ATTACHED: 前插 -> r7", f.s.Feed()[0].Message)

	b := f.s.Board()
	p, _ := b.Player("r7")
	assert.Equal(t, []string{"前插"}, p.Tags)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, "r7", b.Lines[0].OwnerID)
	assert.Equal(t, core.Position2D{X: 75, Y: 15}, b.Lines[0].Points[1])

	_, err = f.s.SelectTag("press", "")
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSession_SelectTagDuplicateIsNoop(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.s.Select("r7"))
	first, err := f.s.SelectTag("前插", annotation.CategoryAction)
	require.NoError(t, err)
	require.NotNil(t, first.Line)
	before := f.s.Board()

	require.NoError(t, f.s.Select("r7"))
	again, err := f.s.SelectTag(" 前插 ", annotation.CategoryAction)
	require.NoError(t, err)
	assert.True(t, again.Empty())
	assert.Equal(t, before, f.s.Board())
	assert.Equal(t, "TAG ALREADY ATTACHED: 前插 -> r7", f.s.Feed()[0].Message)

	_, ok := f.s.Selected()
	assert.False(t, ok)
}

func TestSession_SelectUnknown(t *testing.T) {
	f := newFixture(t, Options{})
	assert.ErrorIs(t, f.s.Select("r99"), ErrUnknownPlayer)
	require.NoError(t, f.s.Select("b3"))
	require.NoError(t, f.s.Select(""))
	_, ok := f.s.Selected()
	assert.False(t, ok)
}

func TestSession_DrawAndUndo(t *testing.T) {
	f := newFixture(t, Options{Style: core.DrawingStyle{Color: "#3b82f6", Dashed: true}})
	require.NoError(t, f.s.SetMode(core.ModeDraw))

	// the stroke starts on top of r7: tokens are inert while drawing
	require.True(t, f.s.PointerDown(pointer(600, 75)))
	f.s.PointerMove(pointer(650, 100))
	_, preview := f.s.Gesture()
	assert.Len(t, preview, 2)
	assert.NotEmpty(t, f.s.State().Preview)
	f.s.PointerMove(pointer(700, 125))
	require.True(t, f.s.PointerUp(pointer(700, 125)))

	b := f.s.Board()
	require.Len(t, b.Lines, 1)
	line := b.Lines[0]
	assert.Equal(t, "id-0001", line.ID)
	assert.Equal(t, core.Polyline{{X: 60, Y: 15}, {X: 65, Y: 20}, {X: 70, Y: 25}}, line.Points)
	assert.Equal(t, "#3b82f6", line.Color)
	assert.True(t, line.Dashed)
	assert.Equal(t, "FREEHAND PATH COMMITTED", f.s.Feed()[0].Message)
	assert.Contains(t, f.drain(), NotifyLineCreated)

	assert.True(t, f.s.Key(interaction.KeyEvent{Key: "z", Meta: true}))
	assert.Empty(t, f.s.Board().Lines)
	assert.Contains(t, f.drain(), NotifyUndo)
	assert.False(t, f.s.Undo(), "nothing left to undo")
}

func TestSession_ShortStrokeDiscarded(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.s.SetMode(core.ModeDraw))

	f.s.PointerDown(pointer(100, 100))
	f.s.PointerMove(pointer(120, 100))
	f.s.PointerUp(pointer(120, 100))

	assert.Empty(t, f.s.Board().Lines)
}

func TestSession_EraseByHitTest(t *testing.T) {
	f := newFixture(t, Options{})
	line, err := f.s.CreateLine(core.TacticalLine{
		Points: core.Polyline{{X: 10, Y: 90}, {X: 40, Y: 90}},
		Color:  "#ef4444",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-0001", line.ID)

	// in move mode line hit paths do not take input
	assert.False(t, f.s.PointerDown(pointer(250, 450)))

	require.NoError(t, f.s.SetMode(core.ModeErase))
	assert.Equal(t, core.Target{Kind: core.TargetLine, ID: line.ID}, f.s.HitTest(250, 451))
	require.True(t, f.s.PointerDown(pointer(250, 451)))
	require.True(t, f.s.PointerUp(pointer(250, 451)))

	assert.Empty(t, f.s.Board().Lines)
	assert.Equal(t, "TACTICAL LINE ERASED", f.s.Feed()[0].Message)
}

func TestSession_CreateAndRemoveLine(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.s.CreateLine(core.TacticalLine{Points: core.Polyline{{X: 1, Y: 1}}})
	assert.Error(t, err)

	line, err := f.s.CreateLine(core.TacticalLine{
		ID:      "imported",
		Points:  core.Polyline{{X: -5, Y: 10}, {X: 20, Y: 130}},
		OwnerID: "r2",
	})
	require.NoError(t, err)
	assert.Equal(t, "imported", line.ID)
	assert.Empty(t, line.OwnerID, "host lines are always free lines")
	assert.Equal(t, core.Polyline{{X: 0, Y: 10}, {X: 20, Y: 100}}, line.Points)

	assert.True(t, f.s.RemoveLine("imported"))
	assert.False(t, f.s.RemoveLine("imported"))
}

func TestSession_SetModeCancelsGesture(t *testing.T) {
	f := newFixture(t, Options{})
	require.True(t, f.s.PointerDown(pointer(600, 75)))

	require.NoError(t, f.s.SetMode(core.ModeErase))
	phase, _ := f.s.Gesture()
	assert.Equal(t, interaction.PhaseIdle, phase)
	assert.Equal(t, "TOOL MODE: ERASE", f.s.Feed()[0].Message)

	assert.Error(t, f.s.SetMode("lasso"))
	assert.NoError(t, f.s.SetMode(core.ModeErase), "same mode is a no-op")
	assert.Equal(t, "TOOL MODE: ERASE", f.s.Feed()[0].Message)
}

func TestSession_FormationAndReset(t *testing.T) {
	f := newFixture(t, Options{})
	before := f.s.Board()

	assert.False(t, f.s.ApplyFormation(core.TeamRed, "9-0-1"))
	assert.Equal(t, before, f.s.Board())

	require.True(t, f.s.ApplyFormation(core.TeamRed, "4-4-2 (Flat)"))
	b := f.s.Board()
	gk, _ := b.Player("r1")
	lb, _ := b.Player("r2")
	assert.Equal(t, core.Position2D{X: 5, Y: 50}, gk.Position())
	assert.Equal(t, core.Position2D{X: 15, Y: 15}, lb.Position())
	assert.Equal(t, "FORMATION APPLIED: RED 4-4-2 (Flat)", f.s.Feed()[0].Message)

	f.s.MoveBall(10, 10)
	f.s.Reset()
	assert.Equal(t, before.Players, f.s.Board().Players)
	assert.Equal(t, core.Center, *f.s.Board().Ball)
	assert.Equal(t, "BOARD RESET", f.s.Feed()[0].Message)
}

func TestSession_ResetTagsAndClear(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.s.Select("b4"))
	_, err := f.s.SelectTag("肋部", annotation.CategorySpatial)
	require.NoError(t, err)
	require.NoError(t, f.s.Select("r7"))
	_, err = f.s.SelectTag("support", annotation.CategoryAction)
	require.NoError(t, err)

	b := f.s.Board()
	require.Len(t, b.Zones, 1)
	require.Len(t, b.Lines, 1)

	require.NoError(t, f.s.ResetTags("b4"))
	assert.Empty(t, f.s.Board().Zones)
	assert.Len(t, f.s.Board().Lines, 1)
	assert.ErrorIs(t, f.s.ResetTags("nobody"), ErrUnknownPlayer)

	f.s.Clear()
	assert.Empty(t, f.s.Board().Lines)
	p, _ := f.s.Board().Player("r7")
	assert.Equal(t, []string{"support"}, p.Tags, "clearing keeps tags")
}

func TestSession_CommitAndRestore(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.s.Select("r9"))
	_, err := f.s.SelectTag("口袋", "")
	require.NoError(t, err)
	committedBoard := f.s.Board()

	node := f.s.Commit(754.5, "")
	assert.Equal(t, "LOGIC_NODE_1", node.Label)
	assert.Equal(t, "id-0001", node.ID)
	assert.Equal(t, 754.5, node.Timestamp)
	assert.Len(t, node.ZoneState, 1)
	assert.NotNil(t, node.LineState)
	assert.Equal(t, "LOGIC COMMITTED: id-000", f.s.Feed()[0].Message)
	require.Len(t, f.sink.nodes, 1)
	assert.Equal(t, node, f.sink.nodes[0])

	second := f.s.Commit(800, "Press trigger")
	assert.Equal(t, "Press trigger", second.Label)

	require.NoError(t, f.s.MovePlayer("r9", 90, 90))
	f.s.Clear()

	restored, err := f.s.Restore(node.ID)
	require.NoError(t, err)
	assert.Equal(t, node.ID, restored.ID)
	b := f.s.Board()
	assert.Equal(t, committedBoard.Players, b.Players)
	assert.Equal(t, committedBoard.Zones, b.Zones, "zones round-trip")
	assert.Equal(t, "TIMELINE JUMP: LOGIC_NODE_1", f.s.Feed()[0].Message)

	_, err = f.s.Restore("missing")
	assert.ErrorIs(t, err, ErrUnknownNode)

	nodes := f.s.Nodes()
	require.Len(t, nodes, 2)
	nodes[0].BoardState[0].X = -1
	assert.NotEqual(t, -1.0, f.s.Nodes()[0].BoardState[0].X, "Nodes returns copies")
}

func TestSession_LoadNodes(t *testing.T) {
	f := newFixture(t, Options{})
	existing := f.s.Commit(1, "")

	loaded := f.s.LoadNodes([]core.LogicNode{
		existing,
		{ID: "stored-1", Label: "LOGIC_NODE_7"},
		{ID: "stored-2", Label: "LOGIC_NODE_8"},
	})
	assert.Equal(t, 2, loaded)
	assert.Len(t, f.s.Nodes(), 3)
	assert.Equal(t, "LOGIC_NODE_4", f.s.Commit(2, "").Label)
}

func TestSession_FeedBounded(t *testing.T) {
	f := newFixture(t, Options{FeedSize: 3})
	for i := 0; i < 5; i++ {
		f.s.Log(fmt.Sprintf("msg %d", i))
	}

	feed := f.s.Feed()
	assert.Equal(t, []string{"msg 4", "msg 3", "msg 2"}, messages(feed))
	assert.Equal(t, "> msg 4 [20:45:09]", feed[0].String())
}

func TestSession_Offside(t *testing.T) {
	f := newFixture(t, Options{})

	st := f.s.Offside()
	require.NotNil(t, st.Lines.Left)
	require.NotNil(t, st.Lines.Right)
	assert.Equal(t, 18.0, *st.Lines.Left)
	assert.Equal(t, 82.0, *st.Lines.Right)
	assert.Len(t, st.Segments, 2)

	v := f.s.ToggleOffside(true, false)
	assert.Equal(t, offside.Visibility{Left: false, Right: true}, v)
	assert.Len(t, f.s.Offside().Segments, 1)

	f.s.SetOffside(offside.All(false))
	assert.Empty(t, f.s.Offside().Segments)

	// ball behind the red line pulls it back
	f.s.MoveBall(10, 50)
	assert.Equal(t, 10.0, *f.s.Offside().Lines.Left)
}

func TestSession_StateAndStats(t *testing.T) {
	f := newFixture(t, Options{})
	require.NoError(t, f.s.Select("r7"))
	_, err := f.s.SelectTag("forward_run", "")
	require.NoError(t, err)

	st := f.s.State()
	assert.Equal(t, annotation.ColorRed, st.Status["r7"])
	assert.Equal(t, annotation.ColorGreen, st.Status["r8"])
	lineID := annotation.EntityID("r7", annotation.TagForwardRun)
	assert.Equal(t, "M 60 15 L 75 15", st.Paths[lineID])
	assert.NotEmpty(t, st.Arrows[lineID])
	assert.Equal(t, "idle", st.Gesture)

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"mode":"move"`)

	stats := f.s.Stats()
	assert.Equal(t, 22, stats.Players)
	assert.Equal(t, 1, stats.Tags)
	assert.Equal(t, 1, stats.Lines)
	assert.Equal(t, 0, stats.FreeLines)
}

func TestSession_ExportGeoJSON(t *testing.T) {
	f := newFixture(t, Options{})
	raw, err := f.s.ExportGeoJSON(geo.DefaultGeoReference())
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "FeatureCollection"))
}

func TestSession_SlowHostDoesNotBlock(t *testing.T) {
	notify := channel.NewBuffered[Notification](1)
	s := New(Options{Notify: notify})
	s.SetRect(testRect)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			s.MoveBall(float64(i), 50)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session blocked on a full notification channel")
	}
}

func TestSession_ConcurrentUse(t *testing.T) {
	f := newFixture(t, Options{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				f.s.MoveBall(float64(i*10+j%10), 50)
				_ = f.s.State()
				f.s.PointerDown(interaction.PointerEvent{PointerID: i, X: 500, Y: 250})
				f.s.PointerUp(interaction.PointerEvent{PointerID: i, X: 510, Y: 250})
			}
		}()
	}
	wg.Wait()

	phase, _ := f.s.Gesture()
	assert.Equal(t, interaction.PhaseIdle, phase)
}
