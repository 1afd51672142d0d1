// Package routing implements the outbound routing provider client against an
// OSRM-compatible HTTP API.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// ErrRouteNotFound indicates the provider answered but produced no route
// between the two points.
var ErrRouteNotFound = errors.New("no route found between origin and destination")

const defaultTimeout = 5 * time.Second

// Client calls an OSRM-compatible routing service over HTTP. Every request
// is bounded by the configured timeout so a slow provider cannot stall
// order creation; callers fall back to a default fee on any error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a routing client for the given base URL, e.g.
// "https://router.project-osrm.org". A non-positive timeout falls back to
// the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("routing base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid routing base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// Route queries a driving route for the origin/destination pair. Coordinates
// go on the wire as longitude,latitude pairs, per the OSRM convention.
func (c *Client) Route(ctx context.Context, origin, destination kernel.GeoPoint) (ports.Route, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL,
		origin.Longitude(), origin.Latitude(),
		destination.Longitude(), destination.Latitude(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.Route{}, fmt.Errorf("create routing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.Route{}, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.Route{}, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.Route{}, fmt.Errorf("read routing response: %w", err)
	}

	var parsed routeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ports.Route{}, fmt.Errorf("decode routing response: %w", err)
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return ports.Route{}, ErrRouteNotFound
	}

	return ports.Route{
		DistanceMeters:  parsed.Routes[0].Distance,
		DurationSeconds: parsed.Routes[0].Duration,
	}, nil
}
