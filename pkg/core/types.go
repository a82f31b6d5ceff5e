// pkg/core/types.go
package core

// Board coordinates are percentages of the board width and height.
// (0,0) is the top-left corner, x grows towards the right goal, y grows downwards.
const (
	BoardMin = 0.0
	BoardMax = 100.0
)

// Position2D is a point on the board in percentage coordinates
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Center is the kick-off spot
var Center = Position2D{X: 50, Y: 50}

// Polyline is an ordered sequence of board points
type Polyline []Position2D

// Clone returns a copy that shares no memory with p
func (p Polyline) Clone() Polyline {
	if p == nil {
		return nil
	}
	out := make(Polyline, len(p))
	copy(out, p)
	return out
}

// Team identifies one of the two sides on the board
type Team string

const (
	TeamRed  Team = "red"  // defends the left goal, attacks right
	TeamBlue Team = "blue" // defends the right goal, attacks left
)

// Valid reports whether t is a known team
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// Direction is +1 for the team attacking rightward and -1 for the team attacking leftward.
func (t Team) Direction() float64 {
	if t == TeamBlue {
		return -1
	}
	return 1
}

// Mirrored reports whether preset coordinates must be mirrored (x -> 100-x) for this team.
func (t Team) Mirrored() bool {
	return t == TeamBlue
}

// ToolMode is the active pointer tool. It is owned by the host, not by the board.
type ToolMode string

const (
	ModeMove  ToolMode = "move"
	ModeDraw  ToolMode = "draw"
	ModeErase ToolMode = "erase"
)

// Valid reports whether m is a known tool mode
func (m ToolMode) Valid() bool {
	switch m {
	case ModeMove, ModeDraw, ModeErase:
		return true
	}
	return false
}

// Rect is the on-screen bounding rectangle of the board in pixels
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DrawingStyle is the pen used for new free-hand lines
type DrawingStyle struct {
	Color  string `json:"color"`
	Dashed bool   `json:"isDashed"`
}

// TargetKind is the kind of element a pointer event landed on
type TargetKind string

const (
	TargetBoard  TargetKind = "board"
	TargetPlayer TargetKind = "player"
	TargetBall   TargetKind = "ball"
	TargetLine   TargetKind = "line"
)

// Target identifies the element under the pointer. ID is empty for the board and the ball.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}
