// Package music recognizes tracks from short audio clips and maps them to
// wallpaper search phrases.
package music

import "github.com/dixieflatline76/jukebox/pkg/settings"

// Track is the metadata of a recognized song.
type Track struct {
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Genre    string   `json:"genre"`
	AlbumArt string   `json:"albumArt,omitempty"`
	Lyrics   []string `json:"lyrics,omitempty"`
	Metadata []string `json:"metadata,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Tag is a crowd sourced descriptor from Last.fm. Count runs 0-100.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	URL   string `json:"url,omitempty"`
}

// Tier names the step of the mapping that produced a query.
type Tier string

// Mapping tiers.
const (
	TierLyrics    Tier = "lyrics"
	TierTags      Tier = "tags"
	TierTagsBlend Tier = "tags+fallback"
	TierJukebox   Tier = "jukebox"
	TierLiteral   Tier = "literal"
	TierMood      Tier = "mood"
	TierGenre     Tier = "genre"
)

// Result is the outcome of mapping a track to a search phrase.
type Result struct {
	Query           string   `json:"wallpaperQuery"`
	Tier            Tier     `json:"tier"`
	Lyric           string   `json:"lyric,omitempty"`
	LyricCandidates []string `json:"lyricCandidates"`
}

func tierForMode(mode settings.MappingMode) Tier {
	switch mode {
	case settings.MappingLiteral:
		return TierLiteral
	case settings.MappingMood:
		return TierMood
	case settings.MappingGenre:
		return TierGenre
	}
	return TierJukebox
}
