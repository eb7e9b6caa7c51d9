package music

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/util/log"
)

const maxJukeboxParts = 8

// Mapper turns recognized tracks into wallpaper search phrases. It is safe for
// concurrent use.
type Mapper struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMapper returns a Mapper drawing lyric picks from rnd. A nil rnd is seeded
// from the clock.
func NewMapper(rnd *rand.Rand) *Mapper {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Mapper{rnd: rnd}
}

// ExtractLyricalPhrase picks one lyric candidate uniformly at random.
func (m *Mapper) ExtractLyricalPhrase(lines []string) (string, bool) {
	candidates := LyricalCandidates(lines)
	log.Debugf("[Jukebox] Found %d candidate phrases in %d lines", len(candidates), len(lines))
	if len(candidates) == 0 {
		return "", false
	}
	m.mu.Lock()
	i := m.rnd.Intn(len(candidates))
	m.mu.Unlock()
	return candidates[i], true
}

// Jukebox builds a phrase from mood keywords, a lyric line and title words.
func (m *Mapper) Jukebox(track Track) string {
	titleArtist := track.Title + " " + track.Artist
	var parts []string
	has := func(w string) bool {
		for _, p := range parts {
			if strings.Contains(p, w) {
				return true
			}
		}
		return false
	}

	if theme := moodTheme(titleArtist); theme != "" {
		words := strings.Fields(theme)
		parts = append(parts, words[:min(2, len(words))]...)
	}

	phrase, phraseFound := m.ExtractLyricalPhrase(track.Lyrics)
	if phraseFound {
		parts = append(parts, phrase)
	} else {
		var picked []string
		for _, w := range extractVisualWords(titleArtist) {
			if len(picked) == 4 {
				break
			}
			if !has(w) && !contains(picked, w) {
				picked = append(picked, w)
			}
		}
		parts = append(parts, picked...)

		if len(track.Lyrics) > 0 || len(track.Metadata) > 0 {
			extra := strings.Join(append(append([]string{}, track.Lyrics...), track.Metadata...), " ")
			var added []string
			for _, w := range extractVisualWords(extra) {
				if len(added) == 3 {
					break
				}
				if !has(w) && !contains(added, w) {
					added = append(added, w)
				}
			}
			parts = append(parts, added...)
		}
	}

	if len(parts) == 0 {
		fallback := strings.TrimSpace(cleanText(track.Title) + " " + cleanText(track.Artist))
		log.Debugf("[Jukebox] No visual keywords found, using title fallback: %s", fallback)
		return fallback
	}

	query := strings.Join(parts[:min(maxJukeboxParts, len(parts))], " ")
	log.Debugf("[Jukebox] Final query: %s", query)
	return query
}

// Generate maps a track with a single mode, without consulting tags.
func (m *Mapper) Generate(track Track, mode settings.MappingMode) string {
	genre := strings.ToLower(track.Genre)

	switch mode {
	case settings.MappingJukebox:
		return m.Jukebox(track)
	case settings.MappingLiteral:
		words := extractVisualWords(track.Title)
		if len(words) > 0 {
			return strings.Join(words[:min(4, len(words))], " ")
		}
		if theme, ok := GenreThemes[genre]; ok {
			return theme
		}
		return "abstract colorful"
	case settings.MappingMood:
		if theme := moodTheme(track.Title + " " + track.Artist); theme != "" {
			return theme
		}
		if theme, ok := GenreThemes[genre]; ok {
			return theme
		}
		return "abstract atmospheric colorful"
	}

	if theme, ok := GenreThemes[genre]; ok {
		return theme
	}
	return GenreThemes["unknown"]
}

// Query runs the mapping for mode. Jukebox mode cascades from a lyric line to
// Last.fm tags to the mood and title heuristics; the other modes are single tier.
func (m *Mapper) Query(track Track, tags []Tag, mode settings.MappingMode) Result {
	result := Result{LyricCandidates: LyricalCandidates(track.Lyrics)}
	if result.LyricCandidates == nil {
		result.LyricCandidates = []string{}
	}

	if mode != settings.MappingJukebox {
		result.Query = m.Generate(track, mode)
		result.Tier = tierForMode(mode)
		return result
	}

	if lyric, ok := m.ExtractLyricalPhrase(track.Lyrics); ok {
		result.Query = lyric
		result.Lyric = lyric
		result.Tier = TierLyrics
		return result
	}

	if len(tags) > 0 {
		if len(FilterVisualTags(tags, track.Artist)) > 0 {
			result.Query = TagsToQuery(tags, track.Artist)
			result.Tier = TierTags
			return result
		}
		top := strings.ToLower(strings.Join(tagNames(tags, 2), " "))
		result.Query = top + " " + m.Generate(track, mode)
		result.Tier = TierTagsBlend
		return result
	}

	result.Query = m.Jukebox(track)
	result.Tier = TierJukebox
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
