package conversation

import (
	"github.com/roadtripbot/server/internal/lib/geo"
	"github.com/roadtripbot/server/internal/lib/routing"
	"github.com/roadtripbot/server/internal/lib/trip"
)

// Stage is the explicit position of a session in the input-collection flow.
// Stages only ever advance forward; a restart discards the session.
type Stage int

const (
	StageAwaitingRoute Stage = iota
	StageAwaitingConsumption
	StageAwaitingMaxHours
	StagePlanned
)

// String returns a human-readable stage name
func (s Stage) String() string {
	switch s {
	case StageAwaitingRoute:
		return "awaiting_route"
	case StageAwaitingConsumption:
		return "awaiting_consumption"
	case StageAwaitingMaxHours:
		return "awaiting_max_hours"
	case StagePlanned:
		return "planned"
	default:
		return "unknown"
	}
}

// Session is one user's in-progress trip-planning conversation. Fields are
// populated strictly in stage order; a later field is never set while an
// earlier one is absent.
type Session struct {
	UserID int64
	Stage  Stage

	Origin           string
	Destination      string
	OriginPoint      geo.Point
	DestinationPoint geo.Point

	ConsumptionPer100Km float64
	MaxHoursPerDay      float64

	Route *routing.Route
	Plan  trip.Plan
}
