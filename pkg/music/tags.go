package music

import (
	"regexp"
	"sort"
	"strings"
)

var (
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	bracketed     = regexp.MustCompile(`\s*\[[^\]]*\]\s*`)
	versionSuffix = regexp.MustCompile(`(?i)\s*-\s*(Remaster|Remix|Live|Demo|Edit|Version|Mix).*$`)
	fourDigits    = regexp.MustCompile(`\d{4}`)
	genreSplit    = regexp.MustCompile(`[\s-]+`)
)

// CleanTrackName strips "(Remastered)", "[Live]" and " - Remix" style decorations
// so Last.fm lookups match the canonical track.
func CleanTrackName(name string) string {
	name = parenthetical.ReplaceAllString(name, "")
	name = bracketed.ReplaceAllString(name, "")
	name = versionSuffix.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// excludedTagPatterns match tags that never make good wallpaper searches.
var excludedTagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\.?\d*\s*fm`),
	regexp.MustCompile(`(?i)\b(radio|station)\b`),
	regexp.MustCompile(`^(19|20)\d{2}$`),
	regexp.MustCompile(`^\d{2}s$`),
	regexp.MustCompile(`(?i)^(seen live|favorite|love|awesome|best)s?$`),
	regexp.MustCompile(`(?i)my\s+(favorite|playlist)`),
	regexp.MustCompile(`(?i)^all$`),
	regexp.MustCompile(`(?i)^(male|female)?\s*(vocalists?|singers?|songwriters?)$`),
	regexp.MustCompile(`(?i)^singer[- ]?songwriter$`),
	regexp.MustCompile(`(?i)^(american|canadian|british|australian|irish|english)$`),
}

// goodTagPatterns match genres, moods, scenes, activities and aesthetics.
var goodTagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(rap|hip-hop|hip hop|rock|pop|indie|alternative|electronic|jazz|blues|soul|r&b|rnb|country|folk|metal|punk|reggae|latin|classical|ambient|techno|house|edm|dubstep|trap|lo-fi|lofi)$`),
	regexp.MustCompile(`rock|pop|wave|core|step|house|beat`),
	regexp.MustCompile(`melanchol|sad|happy|uplift|dark|dream|romantic|angry|peace|calm|energetic|chill|mellow|epic|atmospher|ethereal|haunt|hopeful|nostalg|passion|sensual|aggress|intense|relax|somber|lonely|joy|bliss|gloomy|moody|serene|tender|fierce|wild|gentle|soft|loud|quiet`),
	regexp.MustCompile(`summer|winter|autumn|fall|spring|night|rain|sunny|sunset|sunrise|beach|ocean|sea|forest|mountain|desert|urban|city|rural|space|tropical|coastal`),
	regexp.MustCompile(`road\s*trip|driv|party|dance|workout|study|sleep|morning|late\s*night|coffee|lounge|club`),
	regexp.MustCompile(`psychedelic|retro|vintage|futurist|neon|minimal|cinematic|noir|gothic|groov|funky|smooth|raw|gritty|lush|warm|cold|cool|hot`),
}

// IsUsefulTag reports whether a tag can contribute to a wallpaper search.
func IsUsefulTag(name, artist string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if artist != "" && lower == strings.ToLower(artist) {
		return false
	}
	for _, re := range excludedTagPatterns {
		if re.MatchString(name) {
			return false
		}
	}
	for _, re := range goodTagPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	// Long unmatched tags are usually sentences like "songs i like".
	return len(lower) <= 15 && !strings.Contains(lower, " fm") && !fourDigits.MatchString(lower)
}

// FilterVisualTags keeps the tags IsUsefulTag accepts.
func FilterVisualTags(tags []Tag, artist string) []Tag {
	var out []Tag
	for _, t := range tags {
		if IsUsefulTag(t.Name, artist) {
			out = append(out, t)
		}
	}
	return out
}

// genreTheme returns the GenreThemes entry for tag, matching the whole tag
// first and then each of its words ("alt rock" maps through "rock").
func genreTheme(tag string) (string, bool) {
	if theme, ok := GenreThemes[tag]; ok {
		return theme, true
	}
	for _, word := range genreSplit.Split(tag, -1) {
		if theme, ok := GenreThemes[word]; ok {
			return theme, true
		}
	}
	return "", false
}

// TagsToQuery turns Last.fm tags into a search phrase: up to three visual or
// mood tags by popularity, topped up with two words of the leading genre when
// short, capped at six terms. With no useful tags it joins the top two raw tags.
func TagsToQuery(tags []Tag, artist string) string {
	useful := FilterVisualTags(tags, artist)
	sort.SliceStable(useful, func(i, j int) bool { return useful[i].Count > useful[j].Count })

	if len(useful) == 0 {
		var names []string
		for _, t := range tags[:min(2, len(tags))] {
			names = append(names, strings.ToLower(t.Name))
		}
		return strings.Join(names, " ")
	}

	var visual, genres []string
	for _, t := range useful {
		lower := strings.ToLower(t.Name)
		if _, ok := genreTheme(lower); ok {
			genres = append(genres, lower)
		} else {
			visual = append(visual, lower)
		}
	}

	var parts []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			parts = append(parts, s)
		}
	}

	for _, v := range visual[:min(3, len(visual))] {
		add(v)
	}
	if len(parts) < 3 && len(genres) > 0 {
		theme, _ := genreTheme(genres[0])
		words := strings.Fields(theme)
		for _, w := range words[:min(2, len(words))] {
			add(w)
		}
	}

	return strings.Join(parts[:min(6, len(parts))], " ")
}

// tagNames returns up to n tag names for display.
func tagNames(tags []Tag, n int) []string {
	names := make([]string, 0, min(n, len(tags)))
	for _, t := range tags[:min(n, len(tags))] {
		names = append(names, t.Name)
	}
	return names
}
