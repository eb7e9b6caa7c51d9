package unsplash

import "github.com/dixieflatline76/jukebox/pkg/provider"

// Unsplash API URLs
const (
	UnsplashAPISearchURL = "https://api.unsplash.com/search/photos"
	UnsplashAPIPhotosURL = "https://api.unsplash.com/photos"
)

// utmParams are appended to links back to Unsplash, as its API guidelines require.
const utmParams = "?utm_source=wallpaper-jukebox&utm_medium=referral"

const maxTags = 10

var themePhrases = provider.ThemePhrases{
	provider.ThemeNature:   "nature landscape",
	provider.ThemeSpace:    "space astronomy",
	provider.ThemeCities:   "city architecture",
	provider.ThemeAbstract: "abstract art",
	provider.ThemeRandom:   "wallpaper",
}
