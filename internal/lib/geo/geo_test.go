package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoUtils_PointToPoint(t *testing.T) {
	paris := Point{Latitude: 48.8566, Longitude: 2.3522}
	lyon := Point{Latitude: 45.7640, Longitude: 4.8357}

	geoUtils := NewGeoUtils()

	// Test great-circle distance calculation
	distance, err := geoUtils.PointToPoint(paris, lyon)
	require.NoError(t, err)

	// Great-circle distance Paris-Lyon is ~392 km
	assert.InDelta(t, 392000, distance, 3000, "Distance should be approximately 392km")

	// Symmetry
	reverse, err := geoUtils.PointToPoint(lyon, paris)
	require.NoError(t, err)
	assert.Equal(t, distance, reverse, "Distance should be symmetric")

	// Same point distance is zero
	zero, err := geoUtils.PointToPoint(paris, paris)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero, "Distance from point to itself should be 0")

	// Test error cases
	invalidPoint := Point{Latitude: 200, Longitude: -300}
	_, err = geoUtils.PointToPoint(paris, invalidPoint)
	assert.Error(t, err, "Should return error for invalid coordinates")
}

func TestGeoUtils_BuildArcLengthTable(t *testing.T) {
	geoUtils := NewGeoUtils()

	pl := Polyline{Points: []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}}

	table, err := geoUtils.BuildArcLengthTable(pl)
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, 0.0, table[0].CumulativeMeters, "First entry should be zero")

	// Cumulative distances are non-decreasing
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, table[i].CumulativeMeters, table[i-1].CumulativeMeters)
	}

	// Last entry equals the sum of consecutive distances
	seg1, err := geoUtils.PointToPoint(pl.Points[0], pl.Points[1])
	require.NoError(t, err)
	seg2, err := geoUtils.PointToPoint(pl.Points[1], pl.Points[2])
	require.NoError(t, err)
	assert.InDelta(t, seg1+seg2, table.TotalMeters(), 0.001)

	// One degree of longitude on the equator is ~111.2 km
	assert.InDelta(t, 111195, seg1, 100)

	// Empty polyline is an error
	_, err = geoUtils.BuildArcLengthTable(Polyline{})
	assert.Error(t, err, "Should return error for empty polyline")
}

func TestGeoUtils_Interpolate(t *testing.T) {
	geoUtils := NewGeoUtils()

	pl := Polyline{Points: []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}}

	table, err := geoUtils.BuildArcLengthTable(pl)
	require.NoError(t, err)
	total := table.TotalMeters()

	// Start clamp
	start, err := geoUtils.Interpolate(table, 0)
	require.NoError(t, err)
	assert.Equal(t, pl.Points[0], start)

	negative, err := geoUtils.Interpolate(table, -100)
	require.NoError(t, err)
	assert.Equal(t, pl.Points[0], negative)

	// End clamp, including targets past the end
	end, err := geoUtils.Interpolate(table, total)
	require.NoError(t, err)
	assert.Equal(t, pl.Points[2], end)

	past, err := geoUtils.Interpolate(table, total*2)
	require.NoError(t, err)
	assert.Equal(t, pl.Points[2], past)

	// Midpoint of the path lies at longitude 1
	mid, err := geoUtils.Interpolate(table, total/2)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, mid.Latitude, 1e-9)
	assert.InDelta(t, 1.0, mid.Longitude, 0.001)

	// Quarter of the way lies inside the first segment
	quarter, err := geoUtils.Interpolate(table, total/4)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, quarter.Longitude, 0.001)
}

func TestGeoUtils_Interpolate_ZeroLengthSegment(t *testing.T) {
	geoUtils := NewGeoUtils()

	// Duplicate point creates a zero-length segment in the table
	pl := Polyline{Points: []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}}

	table, err := geoUtils.BuildArcLengthTable(pl)
	require.NoError(t, err)

	// Target landing exactly on the duplicate must not divide by zero
	point, err := geoUtils.Interpolate(table, table[1].CumulativeMeters)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, point.Longitude, 0.001)
}

func TestGeoUtils_Interpolate_EmptyTable(t *testing.T) {
	geoUtils := NewGeoUtils()

	_, err := geoUtils.Interpolate(ArcLengthTable{}, 100)
	assert.Error(t, err, "Should return error for empty table")
}

func TestGeoUtils_SampleEvery(t *testing.T) {
	geoUtils := NewGeoUtils()

	// Path along the equator: ~2.248 degrees of longitude is ~250 km
	pl := Polyline{Points: []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 2.2483},
	}}

	table, err := geoUtils.BuildArcLengthTable(pl)
	require.NoError(t, err)
	require.InDelta(t, 250000, table.TotalMeters(), 500, "Test path should be ~250km long")

	// 250km path sampled every 100km yields exactly 2 points (100km, 200km)
	samples, err := geoUtils.SampleEvery(pl, 100000, 30)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.InDelta(t, 0.8993, samples[0].Longitude, 0.01)
	assert.InDelta(t, 1.7986, samples[1].Longitude, 0.01)

	// Path shorter than the step yields no samples
	short := Polyline{Points: []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 0.1},
	}}
	samples, err = geoUtils.SampleEvery(short, 100000, 30)
	require.NoError(t, err)
	assert.Empty(t, samples)

	// Cap bounds the number of samples
	samples, err = geoUtils.SampleEvery(pl, 10000, 5)
	require.NoError(t, err)
	assert.Len(t, samples, 5)

	// Empty polyline yields an empty result, not an error
	samples, err = geoUtils.SampleEvery(Polyline{}, 100000, 30)
	require.NoError(t, err)
	assert.Empty(t, samples)

	// Non-positive step is an error
	_, err = geoUtils.SampleEvery(pl, 0, 30)
	assert.Error(t, err)
}

func TestGeoUtils_SampleEvery_DefaultCap(t *testing.T) {
	geoUtils := NewGeoUtils()

	// ~1112 km path would yield far more than 30 points at 10 km steps
	pl := Polyline{Points: []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 10},
	}}

	samples, err := geoUtils.SampleEvery(pl, 10000, 0)
	require.NoError(t, err)
	assert.Len(t, samples, DefaultMaxSamplePoints)
}

func TestGeoUtils_DecodePolyline(t *testing.T) {
	geoUtils := NewGeoUtils()

	// Test valid polyline encoding
	encodedPolyline := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	points, err := geoUtils.DecodePolyline(encodedPolyline)
	require.NoError(t, err)
	assert.Greater(t, len(points), 0, "Should decode to at least one point")

	// Validate decoded points have reasonable coordinates
	for _, point := range points {
		assert.GreaterOrEqual(t, point.Latitude, -90.0)
		assert.LessOrEqual(t, point.Latitude, 90.0)
		assert.GreaterOrEqual(t, point.Longitude, -180.0)
		assert.LessOrEqual(t, point.Longitude, 180.0)
	}

	// Test empty polyline
	_, err = geoUtils.DecodePolyline("")
	assert.Error(t, err, "Should return error for empty polyline")
}

func TestNewPoint(t *testing.T) {
	point, err := NewPoint(48.8566, 2.3522)
	require.NoError(t, err)
	assert.Equal(t, 48.8566, point.Latitude)

	_, err = NewPoint(91, 0)
	assert.Error(t, err)
	_, err = NewPoint(0, 181)
	assert.Error(t, err)
}
