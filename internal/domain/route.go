package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type StopKind string

const (
	StopKindGroup  StopKind = "group"
	StopKindClient StopKind = "client"
)

// Represents a single unit in a visiting order.
// Source is the index of the stop in the composer's input.
type Stop struct {
	ID       string
	Kind     StopKind
	Label    string
	Position Coordinates
	Source   int
}

// Represents an ordered visit over a set of stops.
// Geometry holds one [lat, lon] pair per stop in visiting order;
// consecutive pairs are joined by straight segments.
// LegDistancesMeters[i] is the distance travelled to reach Stops[i].
type Route struct {
	Stops               []Stop
	Geometry            [][2]float64
	LegDistancesMeters  []float64
	TotalDistanceMeters float64
}

// LineString returns the route geometry as an orb line string ([lon, lat]).
func (r *Route) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(r.Stops))
	for _, s := range r.Stops {
		ls = append(ls, s.Position.Point())
	}
	return ls
}

// FeatureCollection renders the route as GeoJSON: one Point feature per stop and,
// when there is something to draw, a LineString feature for the path.
func (r *Route) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(r.Stops) >= 2 {
		line := geojson.NewFeature(r.LineString())
		line.Properties["kind"] = "route"
		line.Properties["total_distance_meters"] = r.TotalDistanceMeters
		fc.Append(line)
	}

	for i, s := range r.Stops {
		f := geojson.NewFeature(s.Position.Point())
		f.ID = s.ID
		f.Properties["kind"] = string(s.Kind)
		f.Properties["order"] = i + 1
		f.Properties["label"] = s.Label
		fc.Append(f)
	}

	return fc
}
