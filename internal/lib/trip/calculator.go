package trip

import (
	"errors"
	"math"
)

// Plan holds the derived feasibility metrics for a routed trip
type Plan struct {
	DistanceKm        float64 `json:"distance_km"`
	DurationHours     float64 `json:"duration_hours"`
	Days              int     `json:"days"`
	KmPerDay          float64 `json:"km_per_day"`
	FuelPerDayLiters  float64 `json:"fuel_per_day_liters"`
	FuelTotalLiters   float64 `json:"fuel_total_liters"`
}

// Days returns how many driving days the trip needs, never less than one.
// maxHoursPerDay must be positive; callers validate before deriving a plan.
func Days(durationHours, maxHoursPerDay float64) int {
	days := int(math.Ceil(durationHours / maxHoursPerDay))
	if days < 1 {
		days = 1
	}
	return days
}

// DistancePerDay splits the total distance evenly across driving days
func DistancePerDay(totalKm float64, days int) float64 {
	return totalKm / float64(days)
}

// FuelPerDay converts a daily distance and a consumption rate in liters
// per 100 km into liters needed per day
func FuelPerDay(distancePerDayKm, litersPer100Km float64) float64 {
	return distancePerDayKm * litersPer100Km / 100
}

// FuelTotal returns the fuel needed for the whole trip in liters
func FuelTotal(totalKm, litersPer100Km float64) float64 {
	return totalKm * litersPer100Km / 100
}

// BuildPlan derives the full set of trip metrics from routed distance and
// duration plus the user's consumption rate and daily driving limit
func BuildPlan(distanceKm, durationHours, litersPer100Km, maxHoursPerDay float64) (Plan, error) {
	if litersPer100Km <= 0 {
		return Plan{}, errors.New("consumption rate must be positive")
	}
	if maxHoursPerDay <= 0 {
		return Plan{}, errors.New("max hours per day must be positive")
	}
	if distanceKm < 0 || durationHours < 0 {
		return Plan{}, errors.New("distance and duration must not be negative")
	}

	days := Days(durationHours, maxHoursPerDay)
	kmPerDay := DistancePerDay(distanceKm, days)

	return Plan{
		DistanceKm:       distanceKm,
		DurationHours:    durationHours,
		Days:             days,
		KmPerDay:         kmPerDay,
		FuelPerDayLiters: FuelPerDay(kmPerDay, litersPer100Km),
		FuelTotalLiters:  FuelTotal(distanceKm, litersPer100Km),
	}, nil
}
