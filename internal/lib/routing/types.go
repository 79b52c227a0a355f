package routing

import (
	"github.com/roadtripbot/server/internal/lib/geo"
)

// Route is a routed path between two coordinates together with the
// metrics reported by the routing provider
type Route struct {
	Points        []geo.Point `json:"points"`
	DistanceKm    float64     `json:"distance_km"`
	DurationHours float64     `json:"duration_hours"`
}

// Polyline returns the route geometry as a geo.Polyline
func (r Route) Polyline() geo.Polyline {
	return geo.Polyline{Points: r.Points}
}

// Start returns the first route point, or false for an empty route
func (r Route) Start() (geo.Point, bool) {
	if len(r.Points) == 0 {
		return geo.Point{}, false
	}
	return r.Points[0], true
}

// End returns the last route point, or false for an empty route
func (r Route) End() (geo.Point, bool) {
	if len(r.Points) == 0 {
		return geo.Point{}, false
	}
	return r.Points[len(r.Points)-1], true
}

// PlaceCategory is the closed set of point-of-interest categories the
// planner can query along a route
type PlaceCategory int

const (
	CategoryFood PlaceCategory = iota
	CategoryLodging
)

// String returns a human-readable category name
func (c PlaceCategory) String() string {
	switch c {
	case CategoryFood:
		return "food"
	case CategoryLodging:
		return "lodging"
	default:
		return "unknown"
	}
}

// Place is a point of interest near a sampled route point
type Place struct {
	Name           string  `json:"name"`
	DistanceMeters float64 `json:"distance_meters"`
	URL            string  `json:"url"`
}

// StopGroup holds the places found around one sampled point along a route
type StopGroup struct {
	At          geo.Point `json:"at"`
	KmFromStart float64   `json:"km_from_start"`
	Places      []Place   `json:"places"`
}
