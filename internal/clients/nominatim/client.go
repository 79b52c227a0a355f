package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/roadtripbot/server/internal/lib/geo"
)

// HTTPDoer abstracts the HTTP client for testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the Nominatim geocoding API
type Client struct {
	userAgent  string
	httpClient HTTPDoer
	baseURL    string
}

// NewClient creates a new Nominatim client. Nominatim's usage policy
// requires an identifying User-Agent on every request.
func NewClient(userAgent string) *Client {
	return &Client{
		userAgent: userAgent,
		baseURL:   "https://nominatim.openstreetmap.org",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation for testing
func NewClientWithHTTPDoer(userAgent, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		userAgent:  userAgent,
		baseURL:    baseURL,
		httpClient: doer,
	}
}

// Search resolves a free-form place name to coordinates. A place that
// cannot be found is a valid outcome, reported as found=false with no error.
func (c *Client) Search(ctx context.Context, place string) (geo.Point, bool, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")

	requestURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return geo.Point{}, false, fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return geo.Point{}, false, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Point{}, false, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(results) == 0 {
		return geo.Point{}, false, nil
	}

	return c.processSearchResult(results[0])
}

// processSearchResult converts a Nominatim result to a validated point.
// Nominatim returns coordinates as strings.
func (c *Client) processSearchResult(result searchResult) (geo.Point, bool, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("failed to parse latitude %q: %w", result.Lat, err)
	}

	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("failed to parse longitude %q: %w", result.Lon, err)
	}

	point, err := geo.NewPoint(lat, lon)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("geocoder returned invalid coordinates: %w", err)
	}

	return point, true, nil
}

// searchResult represents a single entry in the Nominatim response array
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
