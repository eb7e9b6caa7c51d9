// Package weather fetches current conditions and turns them into wallpaper themes.
package weather

import (
	"errors"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/settings"
)

// Condition is a normalized weather condition.
type Condition string

// Known conditions.
const (
	Clear        Condition = "clear"
	PartlyCloudy Condition = "partly-cloudy"
	Cloudy       Condition = "cloudy"
	Overcast     Condition = "overcast"
	Rain         Condition = "rain"
	Drizzle      Condition = "drizzle"
	Snow         Condition = "snow"
	Sleet        Condition = "sleet"
	Fog          Condition = "fog"
	Thunderstorm Condition = "thunderstorm"
	Unknown      Condition = "unknown"
)

// ErrInvalidCoordinates is returned for latitude or longitude out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Data is a snapshot of current weather.
type Data struct {
	Temperature float64                  `json:"temperature"`
	FeelsLike   float64                  `json:"feelsLike"`
	Humidity    float64                  `json:"humidity"`
	WindSpeed   float64                  `json:"windSpeed"`
	Condition   Condition                `json:"condition"`
	Code        int                      `json:"weatherCode"`
	Description string                   `json:"description"`
	Unit        settings.TemperatureUnit `json:"unit"`
	Timestamp   time.Time                `json:"timestamp"`
}

// Location is a resolved position.
type Location struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	City          string  `json:"city,omitempty"`
	Region        string  `json:"region,omitempty"`
	Country       string  `json:"country,omitempty"`
	IsApproximate bool    `json:"isApproximate"`
}

// DefaultLocation is used when IP geolocation fails.
var DefaultLocation = Location{
	Latitude:      40.7128,
	Longitude:     -74.0060,
	City:          "New York",
	Region:        "New York",
	Country:       "United States",
	IsApproximate: true,
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// ConditionFromCode maps a WMO weather code to a Condition.
func ConditionFromCode(code int) Condition {
	switch {
	case code == 0:
		return Clear
	case code >= 1 && code <= 3:
		return PartlyCloudy
	case code == 45 || code == 48:
		return Fog
	case code >= 51 && code <= 57:
		return Drizzle
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return Rain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return Snow
	case code >= 95 && code <= 99:
		return Thunderstorm
	}
	return Unknown
}

var codeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// DescribeCode returns a human readable description of a WMO weather code.
func DescribeCode(code int) string {
	if d, ok := codeDescriptions[code]; ok {
		return d
	}
	return "Unknown"
}
