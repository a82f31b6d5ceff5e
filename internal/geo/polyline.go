package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/pitchlogic/tactical-board/pkg/core"
)

// ErrInvalidCoordinates is returned when a coordinate list cannot be interpreted
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParsePolyline parses a JSON array of board coordinates into a core.Polyline.
// Input format: "[[x1,y1],[x2,y2],...]". Values are clamped to the board.
func ParsePolyline(input string) (core.Polyline, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("failed to parse polyline JSON: %w", err)
	}

	if len(coords) < 2 {
		return nil, fmt.Errorf("polyline must have at least 2 points, got %d: %w", len(coords), ErrInvalidCoordinates)
	}

	polyline := make(core.Polyline, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate %d has insufficient values: %w", i, ErrInvalidCoordinates)
		}
		polyline[i] = ClampPoint(core.Position2D{X: coord[0], Y: coord[1]})
	}

	return polyline, nil
}

// LineString converts a polyline into a simplefeatures LineString.
// Fewer than two points yield an empty LineString.
func LineString(points core.Polyline) geom.LineString {
	if len(points) < 2 {
		return geom.LineString{}
	}
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
}

// PolylineFromLineString is the inverse of LineString
func PolylineFromLineString(ls geom.LineString) core.Polyline {
	seq := ls.Coordinates()
	out := make(core.Polyline, seq.Length())
	for i := range out {
		xy := seq.GetXY(i)
		out[i] = core.Position2D{X: xy.X, Y: xy.Y}
	}
	return out
}

// Point converts a board position to a simplefeatures Point
func Point(p core.Position2D) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}, Type: geom.DimXY})
}
