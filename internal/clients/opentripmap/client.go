package opentripmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/roadtripbot/server/internal/lib/geo"
	"github.com/roadtripbot/server/internal/lib/routing"
)

// HTTPDoer abstracts the HTTP client for testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the OpenTripMap places API
type Client struct {
	apiKey     string
	httpClient HTTPDoer
	baseURL    string
}

// NewClient creates a new OpenTripMap client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.opentripmap.com",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation for testing
func NewClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: doer,
	}
}

// kindsFor maps internal place categories to OpenTripMap kind identifiers.
// "accomodations" is OpenTripMap's own spelling.
func kindsFor(category routing.PlaceCategory) string {
	switch category {
	case routing.CategoryLodging:
		return "accomodations"
	default:
		return "foods"
	}
}

// FindNearby queries places of the given category around a point, sorted
// ascending by distance and truncated to limit. An empty result is a valid
// outcome, not an error.
func (c *Client) FindNearby(ctx context.Context, point geo.Point, category routing.PlaceCategory, radiusMeters float64, limit int) ([]routing.Place, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("radius", fmt.Sprintf("%.0f", radiusMeters))
	params.Set("lon", fmt.Sprintf("%.6f", point.Longitude))
	params.Set("lat", fmt.Sprintf("%.6f", point.Latitude))
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("kinds", kindsFor(category))

	requestURL := fmt.Sprintf("%s/0.1/en/places/radius?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return nil, fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var response radiusResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return c.processFeatures(response.Features, limit), nil
}

// processFeatures converts GeoJSON features to places, dropping unnamed
// entries, sorting by distance and truncating to limit
func (c *Client) processFeatures(features []radiusFeature, limit int) []routing.Place {
	places := make([]routing.Place, 0, len(features))
	for _, feature := range features {
		if feature.Properties.Name == "" {
			continue
		}
		places = append(places, routing.Place{
			Name:           feature.Properties.Name,
			DistanceMeters: feature.Properties.Dist,
			URL:            fmt.Sprintf("https://opentripmap.com/en/card/%s", feature.Properties.XID),
		})
	}

	sort.Slice(places, func(i, j int) bool {
		return places[i].DistanceMeters < places[j].DistanceMeters
	})

	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}

	return places
}

// radiusResponse represents the GeoJSON FeatureCollection returned by
// the radius endpoint
type radiusResponse struct {
	Features []radiusFeature `json:"features"`
}

// radiusFeature represents a single place feature
type radiusFeature struct {
	Properties radiusProperties `json:"properties"`
}

// radiusProperties carries the fields used from a feature
type radiusProperties struct {
	XID   string  `json:"xid"`
	Name  string  `json:"name"`
	Dist  float64 `json:"dist"`
	Kinds string  `json:"kinds"`
	Rate  int     `json:"rate"`
}
