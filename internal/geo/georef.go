package geo

import (
	"encoding/json"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/pitchlogic/tactical-board/pkg/core"
	"github.com/wroge/wgs84"
)

// GeoReference anchors the board to a real pitch. The pitch center sits at
// Longitude/Latitude (EPSG:4326) and the long axis runs west to east.
type GeoReference struct {
	Longitude    float64
	Latitude     float64
	LengthMeters float64
	WidthMeters  float64
}

// DefaultGeoReference is a standard 105m x 68m pitch at the origin
func DefaultGeoReference() GeoReference {
	return GeoReference{LengthMeters: 105, WidthMeters: 68}
}

// ToLonLat maps a board position to EPSG:4326 longitude/latitude.
// Offsets are applied in EPSG:3857, corrected for the Mercator scale factor at the anchor latitude.
func (g GeoReference) ToLonLat(p core.Position2D) (lon, lat float64) {
	epsg := wgs84.EPSG()
	to3857 := epsg.Transform(4326, 3857)
	to4326 := epsg.Transform(3857, 4326)

	cx, cy, _ := to3857(g.Longitude, g.Latitude, 0)
	k := 1 / math.Cos(g.Latitude*math.Pi/180)

	dx := (p.X - 50) / 100 * g.LengthMeters
	dy := -(p.Y - 50) / 100 * g.WidthMeters // board y grows southwards

	lon, lat, _ = to4326(cx+dx*k, cy+dy*k, 0)
	return lon, lat
}

func (g GeoReference) xy(p core.Position2D) geom.XY {
	lon, lat := g.ToLonLat(p)
	return geom.XY{X: lon, Y: lat}
}

// FeatureCollection renders the scene and zones as a GeoJSON FeatureCollection in EPSG:4326
func (g GeoReference) FeatureCollection(scene Scene, zones []core.TacticalZone) ([]byte, error) {
	fc := make(geom.GeoJSONFeatureCollection, 0, len(scene.Players)+len(scene.Lines)+len(zones)+1)

	for _, p := range scene.Players {
		xy := g.xy(p.Position())
		fc = append(fc, geom.GeoJSONFeature{
			ID:       p.ID,
			Geometry: geom.NewPoint(geom.Coordinates{XY: xy, Type: geom.DimXY}).AsGeometry(),
			Properties: map[string]interface{}{
				"kind":   "player",
				"team":   string(p.Team),
				"number": p.Number,
				"role":   p.Role,
				"tags":   p.Tags,
			},
		})
	}

	if scene.Ball != nil {
		xy := g.xy(*scene.Ball)
		fc = append(fc, geom.GeoJSONFeature{
			ID:         "ball",
			Geometry:   geom.NewPoint(geom.Coordinates{XY: xy, Type: geom.DimXY}).AsGeometry(),
			Properties: map[string]interface{}{"kind": "ball"},
		})
	}

	for _, l := range scene.Lines {
		if len(l.Points) < 2 {
			continue
		}
		projected := make(core.Polyline, len(l.Points))
		for i, p := range l.Points {
			xy := g.xy(p)
			projected[i] = core.Position2D{X: xy.X, Y: xy.Y}
		}
		fc = append(fc, geom.GeoJSONFeature{
			ID:       l.ID,
			Geometry: LineString(projected).AsGeometry(),
			Properties: map[string]interface{}{
				"kind":    "line",
				"color":   l.Color,
				"dashed":  l.Dashed,
				"ownerId": l.OwnerID,
			},
		})
	}

	for _, z := range zones {
		corner1 := g.xy(core.Position2D{X: z.X - z.Width/2, Y: z.Y - z.Height/2})
		corner2 := g.xy(core.Position2D{X: z.X + z.Width/2, Y: z.Y + z.Height/2})
		fc = append(fc, geom.GeoJSONFeature{
			ID:       z.ID,
			Geometry: geom.NewEnvelope(corner1, corner2).AsGeometry(),
			Properties: map[string]interface{}{
				"kind":    "zone",
				"color":   z.Color,
				"ownerId": z.OwnerID,
			},
		})
	}

	out, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature collection: %w", err)
	}
	return out, nil
}
