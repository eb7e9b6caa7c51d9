package music

import (
	"regexp"
	"strings"
)

// nonWord matches anything but word characters, whitespace and apostrophes.
var nonWord = regexp.MustCompile(`[^\w\s']`)

// normalizeLine lower-cases a line, strips punctuation other than apostrophes
// and collapses whitespace.
func normalizeLine(line string) string {
	return strings.Join(strings.Fields(nonWord.ReplaceAllString(strings.ToLower(line), "")), " ")
}

// LyricalCandidates returns the normalized lyric lines usable as a search phrase:
// 3 to 8 words with at least one non-stopword longer than two characters.
func LyricalCandidates(lines []string) []string {
	var candidates []string
	for _, line := range lines {
		clean := normalizeLine(line)
		if clean == "" {
			continue
		}
		words := strings.Fields(clean)
		if len(words) < 3 || len(words) > 8 {
			continue
		}
		for _, w := range words {
			if len(w) > 2 && !isCommon(w) {
				candidates = append(candidates, clean)
				break
			}
		}
	}
	return candidates
}

// extractVisualWords returns the non-stopword words of text longer than two
// characters, known visual words first. Order is otherwise preserved.
func extractVisualWords(text string) []string {
	words := strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
	var visual, other []string
	for _, w := range words {
		if len(w) <= 2 || isCommon(w) {
			continue
		}
		if isVisual(w) {
			visual = append(visual, w)
		} else {
			other = append(other, w)
		}
	}
	return append(visual, other...)
}

// detectMoods returns the mood families whose keywords occur in text, in family order.
func detectMoods(text string) []moodFamily {
	lower := strings.ToLower(text)
	var found []moodFamily
	for _, family := range moodFamilies {
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, family)
				break
			}
		}
	}
	return found
}

// moodTheme returns the theme of the first detected mood, or an empty string.
func moodTheme(text string) string {
	if moods := detectMoods(text); len(moods) > 0 {
		return moods[0].theme
	}
	return ""
}

// cleanText strips punctuation other than apostrophes.
func cleanText(s string) string {
	return nonWord.ReplaceAllString(s, "")
}
