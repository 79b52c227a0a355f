package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/roadtripbot/server/internal/archive"
	"github.com/roadtripbot/server/internal/lib/geo"
	"github.com/roadtripbot/server/internal/lib/routing"
	"github.com/roadtripbot/server/internal/services"
)

// Planner is the slice of the planning service the state machine needs
type Planner interface {
	Geocode(ctx context.Context, place string) (geo.Point, error)
	BuildTrip(ctx context.Context, from, to geo.Point, litersPer100Km, maxHoursPerDay float64) (*services.TripResult, error)
	NearbyStops(ctx context.Context, route routing.Route, category routing.PlaceCategory) ([]routing.StopGroup, error)
	SaveTrip(ctx context.Context, rec *archive.SavedTrip) error
	ListTrips(ctx context.Context, userID int64, limit int) ([]archive.SavedTrip, error)
	MapLink(route routing.Route) string
	MapKML(name string, route routing.Route, stops []routing.StopGroup) ([]byte, error)
}

// Reply is what the machine wants said back to the user. When Actions is
// non-empty the transport shows the action keyboard; File attaches a
// document.
type Reply struct {
	Text    string
	Actions []Action
	File    *File
}

// File is a document attachment for a reply
type File struct {
	Name string
	Data []byte
}

// Machine drives the per-user conversation: it validates input against the
// current stage, advances the session, and triggers the planning pipeline
// once all inputs are collected. No failure inside a handler escapes as an
// error; everything becomes a reply.
type Machine struct {
	store   *SessionStore
	planner Planner
}

// NewMachine creates a new conversation machine
func NewMachine(store *SessionStore, planner Planner) *Machine {
	return &Machine{store: store, planner: planner}
}

const listedTrips = 10

// HandleMessage processes one inbound text message from a user
func (m *Machine) HandleMessage(ctx context.Context, userID int64, text string) Reply {
	text = strings.TrimSpace(text)

	session, release := m.store.Acquire(userID)
	defer release()

	if text == "/start" {
		*session = Session{UserID: userID, Stage: StageAwaitingRoute}
		return Reply{Text: "Hi! I can plan a road trip for you.\nSend the route as: origin - destination (for example: Paris - Lyon)"}
	}

	switch session.Stage {
	case StageAwaitingRoute:
		return m.handleRouteInput(ctx, session, text)
	case StageAwaitingConsumption:
		return m.handleConsumptionInput(session, text)
	case StageAwaitingMaxHours:
		return m.handleMaxHoursInput(ctx, session, text)
	case StagePlanned:
		return m.handlePlanned(ctx, session, text)
	default:
		return Reply{Text: "Something went wrong, send /start to begin again."}
	}
}

// handleRouteInput validates the "origin - destination" pattern and geocodes
// both names. A geocoding miss re-prompts without advancing the stage.
func (m *Machine) handleRouteInput(ctx context.Context, session *Session, text string) Reply {
	origin, destination, err := ParseRoutePattern(text)
	if err != nil {
		return Reply{Text: "Please send the route as: origin - destination (for example: Paris - Lyon)"}
	}

	originPoint, err := m.planner.Geocode(ctx, origin)
	if err != nil {
		return m.geocodeFailure(origin, err)
	}

	destinationPoint, err := m.planner.Geocode(ctx, destination)
	if err != nil {
		return m.geocodeFailure(destination, err)
	}

	session.Origin = origin
	session.Destination = destination
	session.OriginPoint = originPoint
	session.DestinationPoint = destinationPoint
	session.Stage = StageAwaitingConsumption

	return Reply{Text: "Got it. Now send your average fuel consumption in liters per 100 km (for example: 7.5)"}
}

// handleConsumptionInput records a positive consumption rate
func (m *Machine) handleConsumptionInput(session *Session, text string) Reply {
	value, err := ParsePositiveDecimal(text)
	if err != nil {
		return Reply{Text: "Please send a positive number, for example: 7.5"}
	}

	session.ConsumptionPer100Km = value
	session.Stage = StageAwaitingMaxHours

	return Reply{Text: "Now send the maximum hours you want to drive per day (for example: 6)"}
}

// handleMaxHoursInput records the daily limit and runs the build sequence:
// route the geocoded points, derive the plan, move to StagePlanned. On
// failure the entered hours are cleared so the retry re-prompts cleanly.
func (m *Machine) handleMaxHoursInput(ctx context.Context, session *Session, text string) Reply {
	value, err := ParsePositiveDecimal(text)
	if err != nil {
		return Reply{Text: "Please send a positive number, for example: 6"}
	}
	session.MaxHoursPerDay = value

	result, err := m.planner.BuildTrip(ctx, session.OriginPoint, session.DestinationPoint,
		session.ConsumptionPer100Km, session.MaxHoursPerDay)
	if err != nil {
		log.Printf("Build sequence failed for user %d: %v", session.UserID, err)
		session.MaxHoursPerDay = 0
		return Reply{Text: buildFailureMessage(err)}
	}

	session.Route = &result.Route
	session.Plan = result.Plan
	session.Stage = StagePlanned

	return Reply{
		Text:    m.planSummary(session),
		Actions: allActions,
	}
}

// HandleAction runs one planned-stage action for a user, bypassing label
// resolution. Transports that deliver structured action events instead of
// text use this entry point.
func (m *Machine) HandleAction(ctx context.Context, userID int64, action Action) Reply {
	session, release := m.store.Acquire(userID)
	defer release()

	if session.Stage != StagePlanned {
		return Reply{Text: "Plan a trip first: send the route as: origin - destination (for example: Paris - Lyon)"}
	}
	return m.runAction(ctx, session, action)
}

// handlePlanned dispatches action requests; anything else gets a hint.
// Actions never advance the stage.
func (m *Machine) handlePlanned(ctx context.Context, session *Session, text string) Reply {
	action, ok := ActionFromLabel(text)
	if !ok {
		return Reply{
			Text:    "Your trip is planned. Pick an action from the keyboard, or send /start to plan a new one.",
			Actions: allActions,
		}
	}
	return m.runAction(ctx, session, action)
}

// runAction executes one action against a held session
func (m *Machine) runAction(ctx context.Context, session *Session, action Action) Reply {
	switch action {
	case ActionFuel:
		return Reply{
			Text: fmt.Sprintf("Fuel needed: %.1f l in total, %.1f l per day.",
				session.Plan.FuelTotalLiters, session.Plan.FuelPerDayLiters),
			Actions: allActions,
		}

	case ActionCafes:
		return m.placesReply(ctx, session, routing.CategoryFood)

	case ActionHotels:
		return m.placesReply(ctx, session, routing.CategoryLodging)

	case ActionSave:
		rec := &archive.SavedTrip{
			UserID:              session.UserID,
			Origin:              session.Origin,
			Destination:         session.Destination,
			ConsumptionPer100Km: session.ConsumptionPer100Km,
			MaxHoursPerDay:      session.MaxHoursPerDay,
		}
		if err := m.planner.SaveTrip(ctx, rec); err != nil {
			log.Printf("Save failed for user %d: %v", session.UserID, err)
			return Reply{Text: "Could not save the trip, please try again.", Actions: allActions}
		}
		return Reply{Text: "Trip saved.", Actions: allActions}

	case ActionMapLink:
		return Reply{Text: m.planner.MapLink(*session.Route), Actions: allActions}

	case ActionMapFile:
		return m.mapFileReply(ctx, session)

	case ActionMyTrips:
		return m.myTripsReply(ctx, session)

	default:
		return Reply{Text: "Unknown action.", Actions: allActions}
	}
}

// placesReply samples the route and lists places per stop
func (m *Machine) placesReply(ctx context.Context, session *Session, category routing.PlaceCategory) Reply {
	stops, err := m.planner.NearbyStops(ctx, *session.Route, category)
	if err != nil {
		log.Printf("Place lookup failed for user %d: %v", session.UserID, err)
		return Reply{Text: "Could not look up places along the route, please try again.", Actions: allActions}
	}
	if len(stops) == 0 {
		return Reply{Text: "The route is shorter than one stop interval, no stops to suggest.", Actions: allActions}
	}

	var b strings.Builder
	for _, stop := range stops {
		fmt.Fprintf(&b, "At %.0f km:\n", stop.KmFromStart)
		if len(stop.Places) == 0 {
			b.WriteString("  nothing found nearby\n")
			continue
		}
		for _, place := range stop.Places {
			fmt.Fprintf(&b, "  - %s (%.0f m)\n    %s\n", place.Name, place.DistanceMeters, place.URL)
		}
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Actions: allActions}
}

// mapFileReply renders the route as a KML attachment. Stop lookups are best
// effort; a place-provider failure degrades to a route-only file.
func (m *Machine) mapFileReply(ctx context.Context, session *Session) Reply {
	stops, err := m.planner.NearbyStops(ctx, *session.Route, routing.CategoryFood)
	if err != nil {
		log.Printf("Stop lookup for map file failed for user %d: %v", session.UserID, err)
		stops = nil
	}

	name := fmt.Sprintf("%s - %s", session.Origin, session.Destination)
	data, err := m.planner.MapKML(name, *session.Route, stops)
	if err != nil {
		log.Printf("KML export failed for user %d: %v", session.UserID, err)
		return Reply{Text: "Could not build the map file, please try again.", Actions: allActions}
	}

	return Reply{
		Text:    "Here is your route as a KML file.",
		Actions: allActions,
		File:    &File{Name: "trip.kml", Data: data},
	}
}

// myTripsReply lists the user's saved trips
func (m *Machine) myTripsReply(ctx context.Context, session *Session) Reply {
	trips, err := m.planner.ListTrips(ctx, session.UserID, listedTrips)
	if err != nil {
		log.Printf("Trip listing failed for user %d: %v", session.UserID, err)
		return Reply{Text: "Could not load your saved trips, please try again.", Actions: allActions}
	}
	if len(trips) == 0 {
		return Reply{Text: "You have no saved trips yet.", Actions: allActions}
	}

	var b strings.Builder
	b.WriteString("Your saved trips:\n")
	for i, rec := range trips {
		fmt.Fprintf(&b, "%d. %s - %s (%.1f l/100km, %.1f h/day), saved %s\n",
			i+1, rec.Origin, rec.Destination, rec.ConsumptionPer100Km, rec.MaxHoursPerDay,
			rec.CreatedAt.Format("2006-01-02"))
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Actions: allActions}
}

// planSummary formats the computed plan for the user
func (m *Machine) planSummary(session *Session) string {
	plan := session.Plan
	return fmt.Sprintf(
		"Trip planned: %s - %s\nDistance: %.0f km\nDriving time: %.1f h\nDays on the road: %d (%.0f km per day)\nFuel: %.1f l per day, %.1f l in total",
		session.Origin, session.Destination,
		plan.DistanceKm, plan.DurationHours,
		plan.Days, plan.KmPerDay,
		plan.FuelPerDayLiters, plan.FuelTotalLiters,
	)
}

// geocodeFailure maps a geocoding error to a re-prompt
func (m *Machine) geocodeFailure(place string, err error) Reply {
	if errors.Is(err, services.ErrPlaceNotFound) {
		return Reply{Text: fmt.Sprintf("Could not find %q, check the spelling and send the route again.", place)}
	}
	log.Printf("Geocoding failed for %q: %v", place, err)
	return Reply{Text: "The geocoding service is unavailable right now, please try again."}
}

// buildFailureMessage maps build-sequence errors to user-facing text
func buildFailureMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNoRoute):
		return "Could not build a route between those places. Send the daily hours again to retry, or /start to plan a different trip."
	case errors.Is(err, services.ErrMalformedRoute):
		return "The routing service returned an unexpected answer. Send the daily hours again to retry."
	default:
		return "Could not plan the trip right now. Send the daily hours again to retry."
	}
}
