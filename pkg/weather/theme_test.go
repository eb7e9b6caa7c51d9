package weather

import (
	"testing"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/stretchr/testify/assert"
)

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2024, 6, 1, hour, 30, 0, 0, time.Local) }
}

func temp(v float64) *float64 { return &v }

func TestMapToTheme_Escape(t *testing.T) {
	m := &ThemeMapper{Now: at(14)}
	tests := []struct {
		condition Condition
		want      string
	}{
		{Rain, "desert sunshine dry"},
		{Clear, "forest shade misty"},
		{Snow, "tropical beach warm caribbean"},
		{Fog, "clear bright sunshine"},
		{Thunderstorm, "calm serene peaceful"},
		{Unknown, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			assert.Equal(t, tt.want, m.MapToTheme(tt.condition, settings.WeatherEscape, temp(60), settings.Fahrenheit))
		})
	}
}

func TestMapToTheme_Off(t *testing.T) {
	m := NewThemeMapper()
	assert.Equal(t, "", m.MapToTheme(Rain, settings.WeatherOff, nil, settings.Fahrenheit))
}

func TestMapToTheme_Match(t *testing.T) {
	tests := []struct {
		name      string
		condition Condition
		hour      int
		temp      *float64
		unit      settings.TemperatureUnit
		want      string
	}{
		{"Clear evening", Clear, 19, temp(75), settings.Fahrenheit, "golden hour sunset evening sky"},
		{"Clear early morning is evening", Clear, 5, temp(75), settings.Fahrenheit, "golden hour sunset evening sky"},
		{"Clear morning", Clear, 8, temp(75), settings.Fahrenheit, "sunrise morning golden light"},
		{"Clear hot afternoon", Clear, 14, temp(95), settings.Fahrenheit, "bright sunny summer day"},
		{"Clear cold afternoon", Clear, 14, temp(40), settings.Fahrenheit, "clear crisp winter day blue sky"},
		{"Clear mild afternoon", Clear, 14, temp(65), settings.Fahrenheit, "sunny day clear sky"},
		{"Clear no temperature", Clear, 14, nil, settings.Fahrenheit, "sunny day clear sky"},
		{"Partly cloudy freezing celsius", PartlyCloudy, 14, temp(-5), settings.Celsius, "winter landscape overcast cold day nature"},
		{"Partly cloudy mild", PartlyCloudy, 14, temp(15), settings.Celsius, "cloudy day landscape nature outdoor"},
		{"Partly cloudy warm", PartlyCloudy, 14, temp(80), settings.Fahrenheit, "partly cloudy summer day"},
		{"Partly cloudy hot", PartlyCloudy, 14, temp(90), settings.Fahrenheit, "outdoor landscape daylight"},
		{"Overcast freezing", Overcast, 14, temp(20), settings.Fahrenheit, "gray winter day cold landscape"},
		{"Cloudy cold", Cloudy, 14, temp(45), settings.Fahrenheit, "moody overcast nature landscape"},
		{"Cloudy evening", Cloudy, 18, temp(60), settings.Fahrenheit, "dusk cloudy evening atmospheric"},
		{"Cloudy day", Cloudy, 13, temp(60), settings.Fahrenheit, "cloudy day moody nature"},
		{"Rain cold", Rain, 13, temp(40), settings.Fahrenheit, "rain wet street autumn fall"},
		{"Drizzle warm", Drizzle, 13, temp(80), settings.Fahrenheit, "rain tropical storm green"},
		{"Rain mild", Rain, 13, temp(60), settings.Fahrenheit, "rain wet moody atmospheric"},
		{"Snow evening", Snow, 21, temp(20), settings.Fahrenheit, "snowy evening winter night"},
		{"Sleet day", Sleet, 11, temp(30), settings.Fahrenheit, "snow winter landscape frozen"},
		{"Fog morning", Fog, 7, temp(50), settings.Fahrenheit, "morning fog mist atmospheric"},
		{"Fog afternoon", Fog, 15, temp(50), settings.Fahrenheit, "fog misty ethereal landscape"},
		{"Thunderstorm", Thunderstorm, 15, temp(70), settings.Fahrenheit, "storm dramatic sky lightning"},
		{"Unknown", Unknown, 15, temp(70), settings.Fahrenheit, "nature landscape outdoor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &ThemeMapper{Now: at(tt.hour)}
			assert.Equal(t, tt.want, m.MapToTheme(tt.condition, settings.WeatherMatch, tt.temp, tt.unit))
		})
	}
}

func TestConditionFromCode(t *testing.T) {
	tests := map[int]Condition{
		0: Clear, 1: PartlyCloudy, 3: PartlyCloudy, 45: Fog, 48: Fog,
		51: Drizzle, 57: Drizzle, 61: Rain, 67: Rain, 80: Rain, 82: Rain,
		71: Snow, 77: Snow, 85: Snow, 86: Snow, 95: Thunderstorm, 99: Thunderstorm,
		4: Unknown, 100: Unknown,
	}
	for code, want := range tests {
		assert.Equal(t, want, ConditionFromCode(code), "code %d", code)
	}
	assert.Equal(t, "Moderate rain", DescribeCode(63))
	assert.Equal(t, "Unknown", DescribeCode(42))
}
