package provider

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// ID identifies an image provider.
type ID string

// Known provider ids.
const (
	Pexels   ID = "pexels"
	Unsplash ID = "unsplash"
	Pixabay  ID = "pixabay"
	NASA     ID = "nasa"
)

// All lists the provider ids in round-robin order.
var All = []ID{Pexels, Unsplash, Pixabay, NASA}

// Valid reports whether id names a known provider.
func (id ID) Valid() bool {
	for _, known := range All {
		if known == id {
			return true
		}
	}
	return false
}

// Image represents a single wallpaper candidate. IDs are namespaced per provider
// (pexels-123, unsplash-abc) so they never collide across sources.
type Image struct {
	ID               string   `json:"id"`
	URL              string   `json:"url"`
	PhotographerName string   `json:"photographer"`
	PhotographerURL  string   `json:"photographerUrl"`
	SourceName       string   `json:"source"`
	SourceURL        string   `json:"sourceUrl"`
	AttributionText  string   `json:"attributionText"`
	Tags             []string `json:"tags,omitempty"`
}

// ImageProvider defines the interface for an image search service.
type ImageProvider interface {
	// ID returns the provider id.
	ID() ID
	// Name returns the display name of the provider.
	Name() string
	// Search returns one page of images for query. An empty query means the provider's
	// generic or curated feed. Missing credentials yield mock images rather than an error.
	Search(ctx context.Context, query string, page int) ([]Image, error)
}

// PerPageSearcher is an optional interface for providers that accept a page size.
type PerPageSearcher interface {
	ImageProvider
	SearchPerPage(ctx context.Context, query string, page, perPage int) ([]Image, error)
}

// Built-in themes understood by every provider.
const (
	ThemeNature   = "nature"
	ThemeSpace    = "space"
	ThemeCities   = "cities"
	ThemeAbstract = "abstract"
	ThemeRandom   = "random"
	ThemeCustom   = "custom"
)

// ThemePhrases maps the built-in themes to a provider specific search phrase.
type ThemePhrases map[string]string

// Resolve returns the provider phrase for a built-in theme, or the query itself.
func (p ThemePhrases) Resolve(query string) string {
	if phrase, ok := p[query]; ok {
		return phrase
	}
	return query
}

const mockPhotographer = "Lorem Picsum"

// MockImages returns count placeholder images from picsum.photos. Used when a
// provider has no credentials configured.
func MockImages(source ID, count int) []Image {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	base := time.Now().UnixMilli()
	images := make([]Image, 0, count)
	for i := 0; i < count; i++ {
		n := (base+int64(i))*1000 + int64(rnd.Intn(1000))
		images = append(images, Image{
			ID:               fmt.Sprintf("mock-%d", n),
			URL:              fmt.Sprintf("https://picsum.photos/1920/1080?random=%d", n),
			PhotographerName: mockPhotographer,
			PhotographerURL:  "https://picsum.photos",
			SourceName:       string(source) + " (mock)",
			SourceURL:        "https://picsum.photos",
			AttributionText:  "Photo from Lorem Picsum",
		})
	}
	return images
}

var (
	tagPunctuation = regexp.MustCompile(`[^\w\s]`)
)

// TagsFromText derives search tags from free text: lower-cased words longer than
// three characters with punctuation removed, capped at max.
func TagsFromText(text string, max int) []string {
	cleaned := tagPunctuation.ReplaceAllString(strings.ToLower(text), "")
	var tags []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 {
			continue
		}
		tags = append(tags, word)
		if len(tags) == max {
			break
		}
	}
	return tags
}
