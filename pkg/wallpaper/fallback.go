package wallpaper

import (
	"math/rand"
	"strings"
)

// generateQueryVariations derives broader queries from an exhausted one: the
// words reversed, the query with a mood enhancer appended, and the first word
// alone. Only words of three or more letters count.
func generateQueryVariations(original string) []string {
	var words []string
	for _, w := range strings.Split(strings.ToLower(original), " ") {
		if len(w) >= minVariationWordLength {
			words = append(words, w)
		}
	}

	var variations []string
	if len(words) >= 2 {
		reversed := make([]string, len(words))
		for i, w := range words {
			reversed[len(words)-1-i] = w
		}
		variations = append(variations, strings.Join(reversed, " "))
	}

	for _, enhancer := range MoodEnhancers[:variationEnhancerCount] {
		if !containsWord(words, enhancer) {
			variations = append(variations, original+" "+enhancer)
		}
	}

	if len(words) > 1 {
		variations = append(variations, words[0])
	}
	return variations
}

// nextVariation returns the first variation of original not yet tried.
func nextVariation(original string, tried map[string]struct{}) (string, bool) {
	for _, v := range generateQueryVariations(original) {
		if _, ok := tried[v]; !ok {
			return v, true
		}
	}
	return "", false
}

// creativeFallback picks a random creative query not used yet, or any of them
// once all have been used.
func creativeFallback(rnd *rand.Rand, used map[string]struct{}) string {
	var available []string
	for _, q := range CreativeFallbacks {
		if _, ok := used[q]; !ok {
			available = append(available, q)
		}
	}
	if len(available) == 0 {
		return CreativeFallbacks[rnd.Intn(len(CreativeFallbacks))]
	}
	return available[rnd.Intn(len(available))]
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
