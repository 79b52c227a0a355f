package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Polyline represents a routed path as an ordered point sequence
type Polyline struct {
	Points []Point `json:"points"`
}

// ArcLengthEntry pairs a polyline point with the distance traveled
// along the polyline to reach it
type ArcLengthEntry struct {
	Point            Point   `json:"point"`
	CumulativeMeters float64 `json:"cumulative_meters"`
}

// ArcLengthTable holds one entry per polyline point with monotonically
// non-decreasing cumulative distances. The first entry is always 0.
type ArcLengthTable []ArcLengthEntry

// TotalMeters returns the full path length described by the table
func (t ArcLengthTable) TotalMeters() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].CumulativeMeters
}

// GeoUtils interface defines geographic calculation utilities
type GeoUtils interface {
	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Build cumulative arc-length data for a polyline
	BuildArcLengthTable(polyline Polyline) (ArcLengthTable, error)

	// Return the point at the given cumulative distance along the table
	Interpolate(table ArcLengthTable, targetMeters float64) (Point, error)

	// Sample points at fixed distance intervals along a polyline
	SampleEvery(polyline Polyline, stepMeters float64, maxPoints int) ([]Point, error)

	// Decode an encoded polyline string to a point sequence
	DecodePolyline(encoded string) ([]Point, error)
}
