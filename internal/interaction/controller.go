// Package interaction turns raw pointer and keyboard input into board callbacks.
//
// The Controller owns at most one gesture at a time. A gesture belongs to the pointer that
// started it: events from any other pointer are ignored until the owner releases.
package interaction

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pitchlogic/tactical-board/internal/board"
	"github.com/pitchlogic/tactical-board/internal/geo"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Host exposes the live state the controller reacts to. Every method is read at the moment
// an event is handled; nothing is cached between events.
type Host interface {
	Board() board.Board
	Mode() core.ToolMode
	Style() core.DrawingStyle
	Rect() core.Rect
}

// Callbacks are fired as gestures resolve. Nil callbacks are skipped.
type Callbacks struct {
	PlayerMoved    func(id string, x, y float64)
	BallMoved      func(x, y float64)
	PlayerSelected func(p core.Player)
	LineCreated    func(line core.TacticalLine)
	LineRemoved    func(id string)
	Undo           func()
	Log            func(msg string)
}

// Config tunes gesture classification
type Config struct {
	DragThresholdPx float64       // displacement at which a press becomes a drag
	MinStrokePoints int           // points a stroke needs to be committed
	NewID           func() string // id source for free lines
}

// DefaultConfig matches the board's reference behaviour
func DefaultConfig() Config {
	return Config{DragThresholdPx: 5, MinStrokePoints: 3, NewID: uuid.NewString}
}

// Phase is the state of the current gesture
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePressed
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	}
	return "idle"
}

type gestureKind int

const (
	gestureMovePlayer gestureKind = iota + 1
	gestureMoveBall
	gestureDraw
	gestureErase
)

type gesture struct {
	kind         gestureKind
	pointerID    int
	targetID     string
	downX, downY float64
	points       core.Polyline
}

// PointerEvent is a pointer sample in viewport pixels together with the element it hit
type PointerEvent struct {
	PointerID int         `json:"pointerId"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Target    core.Target `json:"target"`
}

// KeyEvent is a key press with its modifier state
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
}

// IsUndo reports whether the key press is the undo chord (Ctrl+Z or Cmd+Z)
func (k KeyEvent) IsUndo() bool {
	return (k.Ctrl || k.Meta) && !k.Shift && !k.Alt && strings.EqualFold(k.Key, "z")
}

// Controller is the gesture state machine. It is not safe for concurrent use.
type Controller struct {
	host   Host
	cb     Callbacks
	cfg    Config
	phase  Phase
	active *gesture
}

// New creates a controller bound to host. Zero config fields fall back to DefaultConfig.
func New(host Host, cb Callbacks, cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.DragThresholdPx <= 0 {
		cfg.DragThresholdPx = def.DragThresholdPx
	}
	if cfg.MinStrokePoints <= 0 {
		cfg.MinStrokePoints = def.MinStrokePoints
	}
	if cfg.NewID == nil {
		cfg.NewID = def.NewID
	}
	return &Controller{host: host, cb: cb, cfg: cfg}
}

// Phase returns the current gesture phase
func (c *Controller) Phase() Phase {
	return c.phase
}

// Owner returns the pointer id that owns the active gesture
func (c *Controller) Owner() (int, bool) {
	if c.active == nil {
		return 0, false
	}
	return c.active.pointerID, true
}

// Preview returns a copy of the stroke being drawn, or nil outside a draw gesture
func (c *Controller) Preview() core.Polyline {
	if c.active == nil || c.active.kind != gestureDraw {
		return nil
	}
	return c.active.points.Clone()
}

// PointerDown starts a gesture when the target accepts input in the current mode.
// It reports whether the event was claimed.
func (c *Controller) PointerDown(ev PointerEvent) bool {
	if c.active != nil {
		return false
	}

	g := &gesture{pointerID: ev.PointerID, downX: ev.X, downY: ev.Y}
	switch c.host.Mode() {
	case core.ModeMove:
		switch ev.Target.Kind {
		case core.TargetPlayer:
			if _, ok := c.host.Board().Player(ev.Target.ID); !ok {
				return false
			}
			g.kind, g.targetID = gestureMovePlayer, ev.Target.ID
		case core.TargetBall:
			if c.host.Board().Ball == nil {
				return false
			}
			g.kind = gestureMoveBall
		default:
			return false
		}
	case core.ModeDraw:
		// tokens do not take input while drawing, every press lands on the board
		g.kind = gestureDraw
		g.points = core.Polyline{c.boardCoords(ev)}
	case core.ModeErase:
		if ev.Target.Kind != core.TargetLine {
			return false
		}
		if _, ok := c.host.Board().Line(ev.Target.ID); !ok {
			return false
		}
		g.kind, g.targetID = gestureErase, ev.Target.ID
	default:
		return false
	}

	c.active = g
	c.phase = PhasePressed
	return true
}

// PointerMove updates the owned gesture. Moves become live position updates once the
// pointer has travelled past the drag threshold.
func (c *Controller) PointerMove(ev PointerEvent) bool {
	g, ok := c.owned(ev)
	if !ok {
		return false
	}

	switch g.kind {
	case gestureDraw:
		g.points = append(g.points, c.boardCoords(ev))
	case gestureMovePlayer, gestureMoveBall:
		if c.phase == PhasePressed && c.travelled(g, ev) >= c.cfg.DragThresholdPx {
			c.phase = PhaseDragging
		}
		if c.phase == PhaseDragging {
			c.emitMove(g, c.boardCoords(ev))
		}
	}
	return true
}

// PointerUp resolves the owned gesture and releases ownership
func (c *Controller) PointerUp(ev PointerEvent) bool {
	g, ok := c.owned(ev)
	if !ok {
		return false
	}
	defer c.release()

	switch g.kind {
	case gestureDraw:
		c.commitStroke(g)
	case gestureErase:
		c.log("TACTICAL LINE ERASED")
		if c.cb.LineRemoved != nil {
			c.cb.LineRemoved(g.targetID)
		}
	case gestureMovePlayer, gestureMoveBall:
		// net displacement decides; live moves already sent stay applied
		if c.travelled(g, ev) >= c.cfg.DragThresholdPx {
			c.emitMove(g, c.boardCoords(ev))
			return true
		}
		if g.kind == gestureMovePlayer {
			c.selectPlayer(g.targetID)
		}
	}
	return true
}

// PointerLeave aborts the owned gesture: strokes are discarded and no selection fires.
// Position updates already delivered stay applied.
func (c *Controller) PointerLeave(ev PointerEvent) bool {
	g, ok := c.owned(ev)
	if !ok {
		return false
	}
	if g.kind == gestureDraw && len(g.points) > 0 {
		c.log("STROKE DISCARDED")
	}
	c.release()
	return true
}

// Cancel drops any active gesture regardless of owner
func (c *Controller) Cancel() {
	c.release()
}

// Key handles keyboard shortcuts. It reports whether the key was consumed.
func (c *Controller) Key(ev KeyEvent) bool {
	if !ev.IsUndo() {
		return false
	}
	if c.cb.Undo != nil {
		c.cb.Undo()
	}
	return true
}

func (c *Controller) owned(ev PointerEvent) (*gesture, bool) {
	if c.active == nil || c.active.pointerID != ev.PointerID {
		return nil, false
	}
	return c.active, true
}

func (c *Controller) release() {
	c.active = nil
	c.phase = PhaseIdle
}

func (c *Controller) boardCoords(ev PointerEvent) core.Position2D {
	return geo.ToBoardCoords(ev.X, ev.Y, c.host.Rect())
}

func (c *Controller) travelled(g *gesture, ev PointerEvent) float64 {
	return geo.PixelDistance(g.downX, g.downY, ev.X, ev.Y)
}

func (c *Controller) emitMove(g *gesture, p core.Position2D) {
	switch g.kind {
	case gestureMovePlayer:
		if c.cb.PlayerMoved != nil {
			c.cb.PlayerMoved(g.targetID, p.X, p.Y)
		}
	case gestureMoveBall:
		if c.cb.BallMoved != nil {
			c.cb.BallMoved(p.X, p.Y)
		}
	}
}

func (c *Controller) selectPlayer(id string) {
	p, ok := c.host.Board().Player(id)
	if !ok || c.cb.PlayerSelected == nil {
		return
	}
	c.cb.PlayerSelected(p)
}

func (c *Controller) commitStroke(g *gesture) {
	if len(g.points) < c.cfg.MinStrokePoints {
		return
	}
	style := c.host.Style()
	line := core.TacticalLine{
		ID:     c.cfg.NewID(),
		Points: g.points.Clone(),
		Color:  style.Color,
		Dashed: style.Dashed,
	}
	c.log("FREEHAND PATH COMMITTED")
	if c.cb.LineCreated != nil {
		c.cb.LineCreated(line)
	}
}

func (c *Controller) log(msg string) {
	if c.cb.Log != nil {
		c.cb.Log(msg)
	}
}
