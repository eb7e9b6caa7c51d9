package weather

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dixieflatline76/jukebox/pkg/settings"
	"golang.org/x/sync/singleflight"
)

// Source is what the server needs from the weather package.
type Source interface {
	Current(ctx context.Context, lat, lon float64, unit settings.TemperatureUnit) (*Data, error)
	Locate(ctx context.Context) Location
	Auto(ctx context.Context, unit settings.TemperatureUnit) (*Data, Location, error)
}

// Service combines the forecast client and the IP locator. Identical
// concurrent lookups share a single upstream request.
type Service struct {
	forecast *OpenMeteo
	locator  *IPLocator
	group    singleflight.Group
}

// NewService creates a new Service using client for all upstream calls.
func NewService(client *http.Client) *Service {
	return &Service{
		forecast: NewOpenMeteo(client),
		locator:  NewIPLocator(client),
	}
}

// Current returns the weather at lat, lon.
func (s *Service) Current(ctx context.Context, lat, lon float64, unit settings.TemperatureUnit) (*Data, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("current:%.3f:%.3f:%s", lat, lon, unit)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.forecast.Current(ctx, lat, lon, unit)
	})
	if err != nil {
		return nil, err
	}
	data := *v.(*Data)
	return &data, nil
}

// Locate returns the approximate location of the server's public IP.
func (s *Service) Locate(ctx context.Context) Location {
	v, _, _ := s.group.Do("locate", func() (interface{}, error) {
		return s.locator.Locate(ctx), nil
	})
	return v.(Location)
}

// Auto locates by IP and then fetches the weather there.
func (s *Service) Auto(ctx context.Context, unit settings.TemperatureUnit) (*Data, Location, error) {
	loc := s.Locate(ctx)
	data, err := s.Current(ctx, loc.Latitude, loc.Longitude, unit)
	if err != nil {
		return nil, loc, err
	}
	return data, loc, nil
}
