package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDays(t *testing.T) {
	assert.Equal(t, 3, Days(10, 4), "ceil(2.5) should be 3")
	assert.Equal(t, 1, Days(4, 4), "exact fit should be 1 day")
	assert.Equal(t, 1, Days(0.1, 4), "very short trips floor at 1 day")
	assert.Equal(t, 2, Days(8.1, 8))
}

func TestDistancePerDay(t *testing.T) {
	assert.InDelta(t, 250.0, DistancePerDay(500, 2), 0.001)
	assert.InDelta(t, 463.0, DistancePerDay(463, 1), 0.001)
}

func TestFuelPerDay(t *testing.T) {
	assert.InDelta(t, 37.5, FuelPerDay(500, 7.5), 0.001)
	assert.InDelta(t, 0.0, FuelPerDay(0, 7.5), 0.001)
}

func TestFuelTotal(t *testing.T) {
	assert.InDelta(t, 32.41, FuelTotal(463, 7), 0.005)
}

func TestBuildPlan(t *testing.T) {
	// Paris to Lyon: 463 km, 4.5 h, 7 l/100km, 8 h/day
	plan, err := BuildPlan(463, 4.5, 7, 8)
	require.NoError(t, err)

	assert.Equal(t, 1, plan.Days)
	assert.InDelta(t, 463.0, plan.KmPerDay, 0.001)
	assert.InDelta(t, 32.41, plan.FuelPerDayLiters, 0.005)
	assert.InDelta(t, 32.41, plan.FuelTotalLiters, 0.005)
}

func TestBuildPlan_MultiDay(t *testing.T) {
	plan, err := BuildPlan(1800, 18, 8, 8)
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Days)
	assert.InDelta(t, 600.0, plan.KmPerDay, 0.001)
	assert.InDelta(t, 48.0, plan.FuelPerDayLiters, 0.001)
	assert.InDelta(t, 144.0, plan.FuelTotalLiters, 0.001)
}

func TestBuildPlan_Validation(t *testing.T) {
	_, err := BuildPlan(463, 4.5, 0, 8)
	assert.Error(t, err, "zero consumption should be rejected")

	_, err = BuildPlan(463, 4.5, -7, 8)
	assert.Error(t, err, "negative consumption should be rejected")

	_, err = BuildPlan(463, 4.5, 7, 0)
	assert.Error(t, err, "zero max hours should be rejected")

	_, err = BuildPlan(-1, 4.5, 7, 8)
	assert.Error(t, err, "negative distance should be rejected")
}
