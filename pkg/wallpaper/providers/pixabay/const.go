package pixabay

import "github.com/dixieflatline76/jukebox/pkg/provider"

// PixabayAPIURL is the Pixabay image search endpoint.
const PixabayAPIURL = "https://pixabay.com/api/"

var themePhrases = provider.ThemePhrases{
	provider.ThemeNature:   "nature landscape mountains",
	provider.ThemeSpace:    "space galaxy stars",
	provider.ThemeCities:   "city architecture urban",
	provider.ThemeAbstract: "abstract background",
	provider.ThemeRandom:   "wallpaper",
}
