// Package client implements the upstream API clients the planner consumes:
// Nominatim for address geocoding and OpenWeatherMap for destination
// forecasts. Both cache results in an injected TTL store so repeated lookups
// never hit the upstream inside the cache window.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tkasten/wayfare/backend/internal/cache"
	"github.com/tkasten/wayfare/backend/internal/domain"
)

// userAgent identifies this application to Nominatim, which rejects requests
// without one.
const userAgent = "wayfare-backend/1.0"

// GeocodeResult is a resolved address.
type GeocodeResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// Geocoder resolves free-text addresses to coordinates via the Nominatim
// (OpenStreetMap) search API.
type Geocoder struct {
	baseURL string
	httpc   *http.Client
	cache   *cache.Store[GeocodeResult]
}

// NewGeocoder constructs a Geocoder against baseURL (no trailing slash),
// caching results for cacheTTL.
func NewGeocoder(baseURL string, cacheTTL time.Duration) *Geocoder {
	return &Geocoder{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New[GeocodeResult](cacheTTL),
	}
}

// nominatimPlace is the subset of a Nominatim search result we read.
// Coordinates arrive as strings and must be parsed.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves address to coordinates and a canonical display name.
// Returns domain.ErrNotFound (wrapped) when the address matches nothing.
func (g *Geocoder) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if cached, ok := g.cache.Get(key); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("client.Geocoder.Geocode: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpc.Do(req)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("client.Geocoder.Geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeocodeResult{}, fmt.Errorf("client.Geocoder.Geocode: upstream status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return GeocodeResult{}, fmt.Errorf("client.Geocoder.Geocode: decode: %w", err)
	}
	if len(places) == 0 {
		return GeocodeResult{}, fmt.Errorf("client.Geocoder.Geocode: %w: no match for address", domain.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("client.Geocoder.Geocode: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("client.Geocoder.Geocode: parse lon: %w", err)
	}

	result := GeocodeResult{Latitude: lat, Longitude: lon, DisplayName: places[0].DisplayName}
	g.cache.Set(key, result)
	return result, nil
}
