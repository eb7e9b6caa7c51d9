package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/settings"
)

// OpenMeteoURL is the Open-Meteo forecast endpoint. No key is required.
const OpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteo fetches current conditions from Open-Meteo.
type OpenMeteo struct {
	httpClient *http.Client
	baseURL    string
}

// NewOpenMeteo creates a new OpenMeteo client.
func NewOpenMeteo(client *http.Client) *OpenMeteo {
	return &OpenMeteo{httpClient: client, baseURL: OpenMeteoURL}
}

type openMeteoResponse struct {
	Current struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Current returns the current weather at lat, lon in unit.
func (o *OpenMeteo) Current(ctx context.Context, lat, lon float64, unit settings.TemperatureUnit) (*Data, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	tempUnit := "fahrenheit"
	if unit == settings.Celsius {
		tempUnit = "celsius"
	} else {
		unit = settings.Fahrenheit
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m")
	q.Set("temperature_unit", tempUnit)
	q.Set("wind_speed_unit", "mph")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	code := body.Current.WeatherCode
	return &Data{
		Temperature: body.Current.Temperature,
		FeelsLike:   body.Current.ApparentTemperature,
		Humidity:    body.Current.RelativeHumidity,
		WindSpeed:   body.Current.WindSpeed,
		Condition:   ConditionFromCode(code),
		Code:        code,
		Description: DescribeCode(code),
		Unit:        unit,
		Timestamp:   time.Now(),
	}, nil
}
