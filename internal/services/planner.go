package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/roadtripbot/server/internal/archive"
	"github.com/roadtripbot/server/internal/cache"
	"github.com/roadtripbot/server/internal/config"
	"github.com/roadtripbot/server/internal/lib/geo"
	"github.com/roadtripbot/server/internal/lib/routing"
	"github.com/roadtripbot/server/internal/lib/trip"
)

// Failure modes surfaced to the conversation layer. Each aborts the current
// build or query but leaves the session recoverable.
var (
	// ErrPlaceNotFound means the geocoder had no match for a place name
	ErrPlaceNotFound = errors.New("place not found")
	// ErrNoRoute means the routing provider found no route between the points
	ErrNoRoute = errors.New("no route found")
	// ErrMalformedRoute means the routing response was missing expected fields
	ErrMalformedRoute = errors.New("malformed routing response")
)

// Geocoder resolves free-form place names to coordinates. No match is a
// valid outcome, reported as found=false.
type Geocoder interface {
	Search(ctx context.Context, place string) (geo.Point, bool, error)
}

// Router computes a driving route between two coordinates. A nil route with
// nil error signals that no route exists.
type Router interface {
	Directions(ctx context.Context, from, to geo.Point) (*routing.Route, error)
}

// PlaceFinder queries points of interest around a coordinate
type PlaceFinder interface {
	FindNearby(ctx context.Context, point geo.Point, category routing.PlaceCategory, radiusMeters float64, limit int) ([]routing.Place, error)
}

// TripResult bundles the routed geometry with the derived plan
type TripResult struct {
	Route routing.Route `json:"route"`
	Plan  trip.Plan     `json:"plan"`
}

// PlannerService orchestrates the external providers and the trip engine.
// External calls run sequentially and short-circuit on the first failure;
// there is no retry.
type PlannerService struct {
	geocoder Geocoder
	router   Router
	places   PlaceFinder
	archive  archive.Archive
	cache    *cache.Cache
	geoUtils geo.GeoUtils
	cfg      *config.Config
}

// NewPlannerService creates a new PlannerService
func NewPlannerService(geocoder Geocoder, router Router, places PlaceFinder, arch archive.Archive, c *cache.Cache, cfg *config.Config) *PlannerService {
	return &PlannerService{
		geocoder: geocoder,
		router:   router,
		places:   places,
		archive:  arch,
		cache:    c,
		geoUtils: geo.NewGeoUtils(),
		cfg:      cfg,
	}
}

// Geocode resolves a place name, consulting the cache first. A miss from
// the provider maps to ErrPlaceNotFound.
func (s *PlannerService) Geocode(ctx context.Context, place string) (geo.Point, error) {
	cacheKey := "geocode:" + strings.ToLower(strings.TrimSpace(place))

	var cached geo.Point
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		log.Printf("Cache error for %s: %v", cacheKey, err)
	}
	if found {
		return cached, nil
	}

	point, ok, err := s.geocoder.Search(ctx, place)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding %q: %w", place, err)
	}
	if !ok {
		return geo.Point{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, place)
	}

	if err := s.cache.Set(cacheKey, point, s.cfg.Geocoding.CacheTTL, "geocode"); err != nil {
		log.Printf("Failed to cache geocode result: %v", err)
	}

	return point, nil
}

// BuildTrip requests a route between two already-geocoded points and derives
// the trip plan from it
func (s *PlannerService) BuildTrip(ctx context.Context, from, to geo.Point, litersPer100Km, maxHoursPerDay float64) (*TripResult, error) {
	route, err := s.router.Directions(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRoute, err)
	}
	if route == nil {
		return nil, ErrNoRoute
	}
	if len(route.Points) == 0 {
		return nil, fmt.Errorf("%w: route has no geometry", ErrMalformedRoute)
	}

	plan, err := trip.BuildPlan(route.DistanceKm, route.DurationHours, litersPer100Km, maxHoursPerDay)
	if err != nil {
		return nil, err
	}

	log.Printf("Built trip: %.0f km, %.1f h, %d day(s)", plan.DistanceKm, plan.DurationHours, plan.Days)

	return &TripResult{Route: *route, Plan: plan}, nil
}

// NearbyStops samples the route at the configured interval and queries the
// place provider around each sample, one sequential call per point. Results
// for a rounded coordinate and category are cached.
func (s *PlannerService) NearbyStops(ctx context.Context, route routing.Route, category routing.PlaceCategory) ([]routing.StopGroup, error) {
	stepMeters := s.cfg.Places.StepKm * 1000
	samples, err := s.geoUtils.SampleEvery(route.Polyline(), stepMeters, s.cfg.Places.MaxStops)
	if err != nil {
		return nil, fmt.Errorf("failed to sample route: %w", err)
	}

	groups := make([]routing.StopGroup, 0, len(samples))
	for i, point := range samples {
		places, err := s.findNearbyCached(ctx, point, category)
		if err != nil {
			return nil, fmt.Errorf("place lookup at stop %d: %w", i+1, err)
		}
		groups = append(groups, routing.StopGroup{
			At:          point,
			KmFromStart: float64(i+1) * s.cfg.Places.StepKm,
			Places:      places,
		})
	}

	return groups, nil
}

// findNearbyCached wraps the place provider with the TTL cache
func (s *PlannerService) findNearbyCached(ctx context.Context, point geo.Point, category routing.PlaceCategory) ([]routing.Place, error) {
	cacheKey := fmt.Sprintf("places:%s:%.3f:%.3f", category, point.Latitude, point.Longitude)

	var cached []routing.Place
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		log.Printf("Cache error for %s: %v", cacheKey, err)
	}
	if found {
		return cached, nil
	}

	places, err := s.places.FindNearby(ctx, point, category, s.cfg.Places.RadiusMeters, s.cfg.Places.Limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, places, s.cfg.Places.CacheTTL, "places"); err != nil {
		log.Printf("Failed to cache places result: %v", err)
	}

	return places, nil
}

// SaveTrip appends a completed plan to the archive
func (s *PlannerService) SaveTrip(ctx context.Context, rec *archive.SavedTrip) error {
	if err := s.archive.Append(ctx, rec); err != nil {
		return fmt.Errorf("failed to archive trip: %w", err)
	}
	log.Printf("Saved trip for user %d: %s - %s", rec.UserID, rec.Origin, rec.Destination)
	return nil
}

// ListTrips returns a user's saved trips, most recent first
func (s *PlannerService) ListTrips(ctx context.Context, userID int64, limit int) ([]archive.SavedTrip, error) {
	return s.archive.ListForUser(ctx, userID, limit)
}

// MapLink builds an OpenStreetMap directions URL for the route endpoints
func (s *PlannerService) MapLink(route routing.Route) string {
	start, ok := route.Start()
	if !ok {
		return ""
	}
	end, _ := route.End()
	return fmt.Sprintf("https://www.openstreetmap.org/directions?engine=fossgis_osrm_car&route=%.5f,%.5f;%.5f,%.5f",
		start.Latitude, start.Longitude, end.Latitude, end.Longitude)
}
