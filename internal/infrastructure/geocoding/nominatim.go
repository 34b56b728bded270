// Package geocoding resolves device coordinates to a city and state for
// alert messages and encounter records.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/location"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// NominatimClient reverse-geocodes coordinates against a Nominatim-style
// endpoint. Resolution failures degrade to a coordinate-box state lookup
// so an alert never blocks on the geocoder.
type NominatimClient struct {
	baseURL string
	client  *http.Client
	logger  *logging.ChanneledLogger
}

// NewNominatimClient creates a reverse-geocoding client using the
// configured base URL and timeout.
func NewNominatimClient(logger *logging.ChanneledLogger) *NominatimClient {
	return &NominatimClient{
		baseURL: config.GeocodeBaseURL,
		client:  &http.Client{Timeout: config.GeocodeTimeout},
		logger:  logger,
	}
}

type reverseResponse struct {
	Address struct {
		City      string `json:"city"`
		Town      string `json:"town"`
		Village   string `json:"village"`
		County    string `json:"county"`
		State     string `json:"state"`
		StateCode string `json:"ISO3166-2-lvl4"`
	} `json:"address"`
}

// ResolvePlace resolves coordinates to a city/state pair. Any transport
// or decode failure falls back to the coordinate-box table and logs at
// debug level only.
func (c *NominatimClient) ResolvePlace(ctx context.Context, lat, lng float64) location.Place {
	start := time.Now()

	url := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%f&lon=%f", c.baseURL, lat, lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.fallback(lat, lng)
	}
	req.Header.Set("User-Agent", "KnowYourRightsCard/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Location().Debug("Reverse geocode request failed", "error", err.Error())
		return c.fallback(lat, lng)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Location().Debug("Reverse geocode returned non-200", "status", resp.StatusCode)
		return c.fallback(lat, lng)
	}

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Location().Debug("Reverse geocode decode failed", "error", err.Error())
		return c.fallback(lat, lng)
	}

	place := location.Place{
		City:  firstNonEmpty(decoded.Address.City, decoded.Address.Town, decoded.Address.Village, decoded.Address.County),
		State: stateCode(decoded.Address.StateCode, decoded.Address.State),
	}
	if place.State == "" {
		place.State = StateForCoordinates(lat, lng)
	}

	c.logger.Location().Debug("Reverse geocode resolved", "city", place.City, "state", place.State, "duration", time.Since(start))
	return place
}

func (c *NominatimClient) fallback(lat, lng float64) location.Place {
	return location.Place{State: StateForCoordinates(lat, lng)}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// stateCode prefers the ISO subdivision code ("US-CA" -> "CA") and falls
// back to the spelled-out state name.
func stateCode(iso, name string) string {
	if len(iso) == 5 && iso[:3] == "US-" {
		return iso[3:]
	}
	return name
}

// stateBox is an inclusive lat/lng bounding box for a US state. Boxes
// overlap at the margins; first match wins, so order matters for the
// small jurisdictions listed before their neighbors.
type stateBox struct {
	code           string
	minLat, maxLat float64
	minLng, maxLng float64
}

var stateBoxes = []stateBox{
	{"DC", 38.79, 38.99, -77.12, -76.90},
	{"CA", 32.53, 42.01, -124.48, -114.13},
	{"TX", 25.84, 36.50, -106.65, -93.51},
	{"NY", 40.50, 45.01, -79.76, -71.86},
	{"FL", 24.40, 31.00, -87.63, -80.03},
}

// StateForCoordinates returns the two-letter state code for a coordinate
// pair, or "" when no box matches.
func StateForCoordinates(lat, lng float64) string {
	for _, box := range stateBoxes {
		if lat >= box.minLat && lat <= box.maxLat && lng >= box.minLng && lng <= box.maxLng {
			return box.code
		}
	}
	return ""
}
