package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Marker radii in pixels, matching the rendered player and ball tokens
const (
	PlayerRadiusPx = 12.0
	BallRadiusPx   = 6.0
	// LineHitWidthPx is the width of the invisible hit path drawn under every line
	LineHitWidthPx = 5.0
)

// Scene is the set of elements that can receive pointer input
type Scene struct {
	Players    []core.Player
	Lines      []core.TacticalLine
	Ball       *core.Position2D
	SelectedID string
	// LineTolerancePx is the hit distance for lines; zero means half of LineHitWidthPx
	LineTolerancePx float64
}

// HitTest resolves the topmost element under a viewport position, following the board's
// stacking order: ball, selected player, players (last drawn on top), then line hit paths.
// In draw mode tokens do not take pointer input and every position resolves to the board.
// Line hit paths only take input in erase mode.
func HitTest(scene Scene, clientX, clientY float64, rect core.Rect, mode core.ToolMode) core.Target {
	board := core.Target{Kind: core.TargetBoard}
	if mode == core.ModeDraw {
		return board
	}

	if scene.Ball != nil {
		bx, by := ToViewport(*scene.Ball, rect)
		if PixelDistance(bx, by, clientX, clientY) <= BallRadiusPx {
			return core.Target{Kind: core.TargetBall}
		}
	}

	if scene.SelectedID != "" {
		for _, p := range scene.Players {
			if p.ID == scene.SelectedID && hitsPlayer(p, clientX, clientY, rect) {
				return core.Target{Kind: core.TargetPlayer, ID: p.ID}
			}
		}
	}
	for i := len(scene.Players) - 1; i >= 0; i-- {
		p := scene.Players[i]
		if hitsPlayer(p, clientX, clientY, rect) {
			return core.Target{Kind: core.TargetPlayer, ID: p.ID}
		}
	}

	if mode == core.ModeErase {
		tol := scene.LineTolerancePx
		if tol <= 0 {
			tol = LineHitWidthPx / 2
		}
		if id, ok := HitLine(scene.Lines, clientX, clientY, rect, tol); ok {
			return core.Target{Kind: core.TargetLine, ID: id}
		}
	}
	return board
}

func hitsPlayer(p core.Player, clientX, clientY float64, rect core.Rect) bool {
	px, py := ToViewport(p.Position(), rect)
	return PixelDistance(px, py, clientX, clientY) <= PlayerRadiusPx
}

// HitLine returns the id of the topmost line whose stroke lies within tolerance pixels of
// the viewport position. Distances are measured in pixels so the hit path does not scale
// with the board.
func HitLine(lines []core.TacticalLine, clientX, clientY float64, rect core.Rect, tolerance float64) (string, bool) {
	pt := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: clientX, Y: clientY}, Type: geom.DimXY})
	for i := len(lines) - 1; i >= 0; i-- {
		ls := LineString(viewportPolyline(lines[i].Points, rect))
		if ls.IsEmpty() {
			continue
		}
		d, ok := geom.Distance(ls.AsGeometry(), pt.AsGeometry())
		if ok && d <= tolerance {
			return lines[i].ID, true
		}
	}
	return "", false
}

func viewportPolyline(points core.Polyline, rect core.Rect) core.Polyline {
	out := make(core.Polyline, len(points))
	for i, p := range points {
		x, y := ToViewport(p, rect)
		out[i] = core.Position2D{X: x, Y: y}
	}
	return out
}
