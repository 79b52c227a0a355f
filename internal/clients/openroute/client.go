package openroute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/roadtripbot/server/internal/lib/geo"
	"github.com/roadtripbot/server/internal/lib/routing"
)

// HTTPDoer abstracts the HTTP client for testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the OpenRouteService directions API
type Client struct {
	apiKey     string
	httpClient HTTPDoer
	baseURL    string
	geoUtils   geo.GeoUtils
}

// NewClient creates a new OpenRouteService client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		geoUtils: geo.NewGeoUtils(),
	}
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation for testing
func NewClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: doer,
		geoUtils:   geo.NewGeoUtils(),
	}
}

// Directions requests a driving route between two coordinates. A nil route
// with nil error means the provider found no route; errors indicate a
// malformed or failed exchange.
func (c *Client) Directions(ctx context.Context, from, to geo.Point) (*routing.Route, error) {
	// ORS expects lon/lat ordering
	requestBody := map[string]interface{}{
		"coordinates": [][]float64{
			{from.Longitude, from.Latitude},
			{to.Longitude, to.Latitude},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v2/directions/driving-car", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// ORS reports unroutable coordinate pairs as 404
	if resp.StatusCode == 404 {
		return nil, nil
	}
	if resp.StatusCode == 429 {
		return nil, fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var response directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Routes) == 0 {
		return nil, nil
	}

	return c.processRoute(response.Routes[0])
}

// processRoute converts an ORS route to the internal representation,
// decoding the encoded geometry into a point sequence
func (c *Client) processRoute(route orsRoute) (*routing.Route, error) {
	if route.Geometry == "" {
		return nil, fmt.Errorf("route response missing geometry")
	}
	if route.Summary == nil {
		return nil, fmt.Errorf("route response missing summary")
	}

	points, err := c.geoUtils.DecodePolyline(route.Geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to decode route geometry: %w", err)
	}

	return &routing.Route{
		Points:        points,
		DistanceKm:    route.Summary.Distance / 1000,
		DurationHours: route.Summary.Duration / 3600,
	}, nil
}

// directionsResponse represents the ORS directions API response
type directionsResponse struct {
	Routes []orsRoute `json:"routes"`
}

// orsRoute represents a single route in the response
type orsRoute struct {
	Summary  *orsSummary `json:"summary"`
	Geometry string      `json:"geometry"`
}

// orsSummary carries distance in meters and duration in seconds
type orsSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}
