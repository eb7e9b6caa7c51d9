package pexels

import "github.com/dixieflatline76/jukebox/pkg/provider"

// Pexels API URLs
const (
	PexelsAPISearchURL  = "https://api.pexels.com/v1/search"
	PexelsAPICuratedURL = "https://api.pexels.com/v1/curated"
	PexelsHomeURL       = "https://www.pexels.com"
)

// maxTags caps the tags derived from a photo's alt text.
const maxTags = 10

// themePhrases translates the built-in themes. Random uses the curated feed.
var themePhrases = provider.ThemePhrases{
	provider.ThemeNature:   "nature landscape mountains forest",
	provider.ThemeSpace:    "space galaxy nebula stars",
	provider.ThemeCities:   "city skyline architecture urban",
	provider.ThemeAbstract: "abstract patterns colors",
	provider.ThemeRandom:   "",
}
