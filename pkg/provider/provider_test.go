package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDValid(t *testing.T) {
	for _, id := range All {
		assert.True(t, id.Valid(), id)
	}
	assert.False(t, ID("flickr").Valid())
}

func TestThemePhrasesResolve(t *testing.T) {
	phrases := ThemePhrases{ThemeNature: "nature landscape", ThemeRandom: ""}
	assert.Equal(t, "nature landscape", phrases.Resolve(ThemeNature))
	assert.Equal(t, "", phrases.Resolve(ThemeRandom))
	assert.Equal(t, "golden retriever", phrases.Resolve("golden retriever"))
}

func TestMockImages(t *testing.T) {
	images := MockImages(Pexels, 10)
	assert.Len(t, images, 10)

	seen := make(map[string]bool)
	for _, img := range images {
		assert.True(t, strings.HasPrefix(img.ID, "mock-"))
		assert.True(t, strings.HasPrefix(img.URL, "https://picsum.photos/1920/1080?random="))
		assert.False(t, seen[img.ID], "duplicate id %s", img.ID)
		seen[img.ID] = true
	}
}

func TestTagsFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"Alt text", "Brown Rocks During Golden Hour!", 10, []string{"brown", "rocks", "during", "golden", "hour"}},
		{"Short words dropped", "a big red sky over the sea", 10, []string{"over"}},
		{"Capped", "mountain forest river valley meadow", 2, []string{"mountain", "forest"}},
		{"Empty", "", 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagsFromText(tt.text, tt.max))
		})
	}
}
