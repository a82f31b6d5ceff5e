// Package geo holds the board coordinate model: pointer mapping, clamping, path
// descriptors, hit testing and geo-referencing of the pitch.
package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/pitchlogic/tactical-board/pkg/core"
)

// Clamp limits v to the board range [0,100]. NaN maps to 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return core.BoardMin
	}
	return math.Min(core.BoardMax, math.Max(core.BoardMin, v))
}

// ClampPoint clamps both axes of p
func ClampPoint(p core.Position2D) core.Position2D {
	return core.Position2D{X: Clamp(p.X), Y: Clamp(p.Y)}
}

// ToBoardCoords converts viewport pixel coordinates to board percentages using the board's
// current bounding rectangle. The rectangle must be read fresh by the caller for every
// event; a degenerate axis maps to 0.
func ToBoardCoords(clientX, clientY float64, rect core.Rect) core.Position2D {
	return core.Position2D{
		X: axisPercent(clientX, rect.Left, rect.Width),
		Y: axisPercent(clientY, rect.Top, rect.Height),
	}
}

func axisPercent(v, origin, extent float64) float64 {
	if extent <= 0 {
		return core.BoardMin
	}
	return Clamp((v - origin) / extent * 100)
}

// ToViewport converts a board point back to viewport pixels for the given rectangle
func ToViewport(p core.Position2D, rect core.Rect) (x, y float64) {
	return rect.Left + p.X/100*rect.Width, rect.Top + p.Y/100*rect.Height
}

// PathString renders points as straight segments: "M x0 y0 L x1 y1 ...".
// An empty input yields an empty path.
func PathString(points []core.Position2D) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, points[0])
	for _, p := range points[1:] {
		b.WriteString(" L ")
		writePoint(&b, p)
	}
	return b.String()
}

func writePoint(b *strings.Builder, p core.Position2D) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// PixelDistance is the euclidean distance between two viewport positions
func PixelDistance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
