// Package settings holds the user facing settings model shared with the browser UI.
package settings

import (
	"strings"

	"github.com/dixieflatline76/jukebox/pkg/provider"
)

// WeatherMode selects how weather influences the theme.
type WeatherMode string

// Weather modes.
const (
	WeatherOff    WeatherMode = "off"
	WeatherMatch  WeatherMode = "match"
	WeatherEscape WeatherMode = "escape"
)

// TemperatureUnit is C or F.
type TemperatureUnit string

// Temperature units.
const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

// MappingMode selects how recognized music becomes a search phrase.
type MappingMode string

// Music mapping modes.
const (
	MappingLiteral MappingMode = "literal"
	MappingMood    MappingMode = "mood"
	MappingGenre   MappingMode = "genre"
	MappingJukebox MappingMode = "jukebox"
)

// ParseMappingMode returns the mode named by s, or the full jukebox cascade when s is unknown.
func ParseMappingMode(s string) MappingMode {
	switch m := MappingMode(strings.ToLower(strings.TrimSpace(s))); m {
	case MappingLiteral, MappingMood, MappingGenre, MappingJukebox:
		return m
	}
	return MappingJukebox
}

// Weather holds the weather related settings.
type Weather struct {
	Enabled            bool            `json:"enabled"`
	Mode               WeatherMode     `json:"mode"`
	UsePreciseLocation bool            `json:"usePreciseLocation"`
	TemperatureUnit    TemperatureUnit `json:"temperatureUnit"`
}

// Music holds the music related settings.
type Music struct {
	Enabled       bool        `json:"enabled"`
	AutoRecognize bool        `json:"autoRecognize"`
	AutoInterval  int         `json:"autoInterval"`
	MappingMode   MappingMode `json:"mappingMode"`
	OverrideTheme bool        `json:"overrideTheme"`
}

// Settings is a snapshot of the user's settings.
type Settings struct {
	Theme             string      `json:"theme"`
	CustomQuery       string      `json:"customQuery,omitempty"`
	RotationInterval  int         `json:"rotationInterval"`
	Source            provider.ID `json:"source"`
	ShowClock         bool        `json:"showClock"`
	CrossfadeDuration int         `json:"crossfadeDuration"`
	Weather           Weather     `json:"weather"`
	Music             Music       `json:"music"`
}

// Default returns the settings used on first run and when stored settings are unreadable.
func Default() Settings {
	return Settings{
		Theme:             provider.ThemeNature,
		RotationInterval:  60,
		Source:            provider.Pexels,
		ShowClock:         true,
		CrossfadeDuration: 1500,
		Weather: Weather{
			Enabled:         false,
			Mode:            WeatherOff,
			TemperatureUnit: Fahrenheit,
		},
		Music: Music{
			AutoInterval: 120,
			MappingMode:  MappingJukebox,
		},
	}
}

// Normalize fills zero or invalid fields with defaults.
func (s Settings) Normalize() Settings {
	def := Default()
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.RotationInterval < 0 {
		s.RotationInterval = 0
	}
	if !s.Source.Valid() {
		s.Source = def.Source
	}
	if s.CrossfadeDuration < 0 {
		s.CrossfadeDuration = def.CrossfadeDuration
	}
	switch s.Weather.Mode {
	case WeatherOff, WeatherMatch, WeatherEscape:
	default:
		s.Weather.Mode = WeatherOff
	}
	if s.Weather.TemperatureUnit != Celsius {
		s.Weather.TemperatureUnit = Fahrenheit
	}
	s.Music.MappingMode = ParseMappingMode(string(s.Music.MappingMode))
	return s
}

// SearchChanged reports whether moving from s to next requires a new search:
// theme, custom query, source or weather mode differ.
func (s Settings) SearchChanged(next Settings) bool {
	return s.Theme != next.Theme ||
		strings.TrimSpace(s.CustomQuery) != strings.TrimSpace(next.CustomQuery) ||
		s.Source != next.Source ||
		s.Weather.Mode != next.Weather.Mode
}
