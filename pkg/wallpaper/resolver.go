package wallpaper

import (
	"strings"

	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/weather"
)

// ThemeMapper turns weather into a search phrase.
type ThemeMapper interface {
	MapToTheme(condition weather.Condition, mode settings.WeatherMode, temperature *float64, unit settings.TemperatureUnit) string
}

// Resolver computes the base theme of a search.
type Resolver struct {
	Mapper ThemeMapper
}

// ResolveBaseTheme picks the query to search for, in priority order: a
// music derived query when music overrides the theme, a non-empty custom
// query, the weather theme, and finally the theme value itself.
func (r Resolver) ResolveBaseTheme(s settings.Settings, data *weather.Data, musicQuery string) string {
	if s.Music.Enabled && s.Music.OverrideTheme {
		if q := strings.TrimSpace(musicQuery); q != "" {
			return q
		}
	}

	if q := strings.TrimSpace(s.CustomQuery); s.Theme == provider.ThemeCustom && q != "" {
		return q
	}
	if s.Weather.Enabled && s.Weather.Mode != settings.WeatherOff && data != nil && r.Mapper != nil {
		temp := data.Temperature
		unit := data.Unit
		if unit == "" {
			unit = s.Weather.TemperatureUnit
		}
		if q := r.Mapper.MapToTheme(data.Condition, s.Weather.Mode, &temp, unit); q != "" {
			return q
		}
	}

	return s.Theme
}
