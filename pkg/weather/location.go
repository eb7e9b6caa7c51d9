package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dixieflatline76/jukebox/util/log"
)

// IPLocationURL is the ip-api geolocation endpoint.
const IPLocationURL = "http://ip-api.com/json/?fields=status,lat,lon,city,regionName,country"

// IPLocator approximates the caller's location from its public IP.
type IPLocator struct {
	httpClient *http.Client
	url        string
}

// NewIPLocator creates a new IPLocator.
func NewIPLocator(client *http.Client) *IPLocator {
	return &IPLocator{httpClient: client, url: IPLocationURL}
}

type ipAPIResponse struct {
	Status     string  `json:"status"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Country    string  `json:"country"`
}

// Locate returns the approximate location. Any failure yields DefaultLocation.
func (l *IPLocator) Locate(ctx context.Context) Location {
	loc, err := l.lookup(ctx)
	if err != nil {
		log.Printf("[Weather] IP geolocation failed, using default location: %v", err)
		return DefaultLocation
	}
	return loc
}

func (l *IPLocator) lookup(ctx context.Context) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Location{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if body.Status == "fail" || (body.Lat == 0 && body.Lon == 0) {
		return Location{}, fmt.Errorf("geolocation lookup failed")
	}

	return Location{
		Latitude:      body.Lat,
		Longitude:     body.Lon,
		City:          body.City,
		Region:        body.RegionName,
		Country:       body.Country,
		IsApproximate: true,
	}, nil
}
