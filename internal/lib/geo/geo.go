package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// DefaultMaxSamplePoints caps SampleEvery output so downstream
// per-point lookups stay bounded
const DefaultMaxSamplePoints = 30

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	// Validate coordinates
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	// If points are the same, distance is 0
	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0, nil
	}

	// Convert degrees to radians
	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	// Haversine formula
	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// Earth's radius in meters
	const earthRadius = 6371000
	distance := earthRadius * c

	return distance, nil
}

// BuildArcLengthTable walks consecutive point pairs and accumulates
// great-circle distance between them. The table has one entry per
// polyline point; the first entry's cumulative distance is 0.
func (g *geoUtils) BuildArcLengthTable(pl Polyline) (ArcLengthTable, error) {
	if len(pl.Points) == 0 {
		return nil, errors.New("polyline has no points")
	}

	table := make(ArcLengthTable, 0, len(pl.Points))
	table = append(table, ArcLengthEntry{Point: pl.Points[0], CumulativeMeters: 0})

	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		segment, err := g.PointToPoint(pl.Points[i-1], pl.Points[i])
		if err != nil {
			return nil, err
		}
		total += segment
		table = append(table, ArcLengthEntry{Point: pl.Points[i], CumulativeMeters: total})
	}

	return table, nil
}

// Interpolate returns the point at the given cumulative distance along the
// table. Targets at or beyond either end are clamped to the end points.
// Within a segment, latitude and longitude are interpolated linearly in
// coordinate space; for the short segments of routed polylines this is an
// adequate approximation of the geodesic.
func (g *geoUtils) Interpolate(table ArcLengthTable, targetMeters float64) (Point, error) {
	if len(table) == 0 {
		return Point{}, errors.New("arc length table is empty")
	}

	if targetMeters <= 0 {
		return table[0].Point, nil
	}
	if targetMeters >= table.TotalMeters() {
		return table[len(table)-1].Point, nil
	}

	// Locate the first entry at or past the target
	for i := 1; i < len(table); i++ {
		if table[i].CumulativeMeters < targetMeters {
			continue
		}

		prev := table[i-1]
		curr := table[i]

		// Zero-length segment: no position to interpolate, use the end point
		if curr.CumulativeMeters == prev.CumulativeMeters {
			return curr.Point, nil
		}

		fraction := (targetMeters - prev.CumulativeMeters) / (curr.CumulativeMeters - prev.CumulativeMeters)
		return Point{
			Latitude:  prev.Point.Latitude + fraction*(curr.Point.Latitude-prev.Point.Latitude),
			Longitude: prev.Point.Longitude + fraction*(curr.Point.Longitude-prev.Point.Longitude),
		}, nil
	}

	// Unreachable given the clamp above, but keep the invariant explicit
	return table[len(table)-1].Point, nil
}

// SampleEvery produces points at stepMeters, 2*stepMeters, ... strictly less
// than the total path length, capped at maxPoints entries. A non-positive
// maxPoints uses DefaultMaxSamplePoints. An empty polyline yields an empty
// result rather than an error.
func (g *geoUtils) SampleEvery(pl Polyline, stepMeters float64, maxPoints int) ([]Point, error) {
	if len(pl.Points) == 0 {
		return nil, nil
	}
	if stepMeters <= 0 {
		return nil, errors.New("step must be positive")
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxSamplePoints
	}

	table, err := g.BuildArcLengthTable(pl)
	if err != nil {
		return nil, err
	}

	total := table.TotalMeters()
	var samples []Point
	for target := stepMeters; target < total && len(samples) < maxPoints; target += stepMeters {
		point, err := g.Interpolate(table, target)
		if err != nil {
			return nil, err
		}
		samples = append(samples, point)
	}

	return samples, nil
}

// DecodePolyline decodes an encoded polyline string to a point sequence
func (g *geoUtils) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	// Use go-polyline library to decode
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		// Validate decoded coordinates
		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
