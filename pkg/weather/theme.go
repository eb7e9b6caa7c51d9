package weather

import (
	"time"

	"github.com/dixieflatline76/jukebox/pkg/settings"
)

// escapeThemes maps each condition to its visual opposite.
var escapeThemes = map[Condition]string{
	Clear:        "forest shade misty",
	PartlyCloudy: "sunshine bright warm",
	Cloudy:       "sunshine tropical beach",
	Overcast:     "tropical beach paradise",
	Rain:         "desert sunshine dry",
	Drizzle:      "sunshine warm bright",
	Snow:         "tropical beach warm caribbean",
	Sleet:        "tropical beach summer",
	Fog:          "clear bright sunshine",
	Thunderstorm: "calm serene peaceful",
	Unknown:      "",
}

type tempBand int

const (
	bandUnknown tempBand = iota
	bandFreezing
	bandCold
	bandMild
	bandWarm
	bandHot
)

func bandFor(temperature *float64, unit settings.TemperatureUnit) tempBand {
	if temperature == nil {
		return bandUnknown
	}
	f := *temperature
	if unit == settings.Celsius {
		f = f*9/5 + 32
	}
	switch {
	case f < 32:
		return bandFreezing
	case f < 50:
		return bandCold
	case f < 70:
		return bandMild
	case f < 85:
		return bandWarm
	}
	return bandHot
}

type timeOfDay int

const (
	daytime timeOfDay = iota
	morning
	evening
)

func timeOfDayAt(t time.Time) timeOfDay {
	h := t.Hour()
	switch {
	case h >= 17 || h < 6:
		return evening
	case h < 12:
		return morning
	}
	return daytime
}

// ThemeMapper turns weather into a search phrase.
type ThemeMapper struct {
	Now func() time.Time
}

// NewThemeMapper returns a ThemeMapper using the local clock.
func NewThemeMapper() *ThemeMapper {
	return &ThemeMapper{Now: time.Now}
}

// MapToTheme returns the phrase for condition under mode. Escape mode picks the
// visual opposite; match mode blends condition, temperature band and time of day.
// An empty result means weather should not influence the theme.
func (m *ThemeMapper) MapToTheme(condition Condition, mode settings.WeatherMode, temperature *float64, unit settings.TemperatureUnit) string {
	switch mode {
	case settings.WeatherEscape:
		return escapeThemes[condition]
	case settings.WeatherMatch:
		now := time.Now
		if m.Now != nil {
			now = m.Now
		}
		return matchTheme(condition, bandFor(temperature, unit), timeOfDayAt(now()))
	}
	return ""
}

func matchTheme(condition Condition, band tempBand, tod timeOfDay) string {
	cold := band == bandFreezing || band == bandCold
	warm := band == bandWarm || band == bandHot

	switch condition {
	case Clear:
		switch {
		case tod == evening:
			return "golden hour sunset evening sky"
		case tod == morning:
			return "sunrise morning golden light"
		case band == bandHot:
			return "bright sunny summer day"
		case cold:
			return "clear crisp winter day blue sky"
		}
		return "sunny day clear sky"
	case PartlyCloudy:
		switch {
		case cold:
			return "winter landscape overcast cold day nature"
		case band == bandMild:
			return "cloudy day landscape nature outdoor"
		case band == bandWarm:
			return "partly cloudy summer day"
		}
		return "outdoor landscape daylight"
	case Cloudy, Overcast:
		switch {
		case band == bandFreezing:
			return "gray winter day cold landscape"
		case band == bandCold:
			return "moody overcast nature landscape"
		case tod == evening:
			return "dusk cloudy evening atmospheric"
		}
		return "cloudy day moody nature"
	case Rain, Drizzle:
		switch {
		case cold:
			return "rain wet street autumn fall"
		case warm:
			return "rain tropical storm green"
		}
		return "rain wet moody atmospheric"
	case Snow, Sleet:
		if tod == evening {
			return "snowy evening winter night"
		}
		return "snow winter landscape frozen"
	case Fog:
		if tod == morning {
			return "morning fog mist atmospheric"
		}
		return "fog misty ethereal landscape"
	case Thunderstorm:
		return "storm dramatic sky lightning"
	}
	return "nature landscape outdoor"
}
