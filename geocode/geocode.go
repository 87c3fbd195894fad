// Package geocode resolves free-text addresses through the Nominatim search
// API. One result per query keeps the usage within the service's rate limit
// guidance, and the User-Agent identifies the application as required.
package geocode

import (
	"barchive/collections"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "BaRchive Map"
)

// ErrNoResult is given when the service finds nothing for the query.
var ErrNoResult = errors.New("no match for that address")

// Client queries the geocoding service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client against the public endpoint.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Lookup resolves a free-text query to its best match.
func (c *Client) Lookup(ctx context.Context, query string) (*collections.Location, error) {
	if query == "" {
		return nil, ErrNoResult
	}
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocoding request failed with status %d: %s", resp.StatusCode, msg)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResult
	}

	// Coordinates come back as strings.
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding longitude %q: %w", results[0].Lon, err)
	}
	return &collections.Location{
		DisplayName: results[0].DisplayName,
		Lat:         lat,
		Lng:         lng,
	}, nil
}
