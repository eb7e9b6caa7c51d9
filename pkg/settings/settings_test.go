package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, "nature", s.Theme)
	assert.Equal(t, 60, s.RotationInterval)
	assert.Equal(t, provider.Pexels, s.Source)
	assert.True(t, s.ShowClock)
	assert.Equal(t, 1500, s.CrossfadeDuration)
	assert.False(t, s.Weather.Enabled)
	assert.Equal(t, WeatherOff, s.Weather.Mode)
	assert.False(t, s.Weather.UsePreciseLocation)
	assert.Equal(t, Fahrenheit, s.Weather.TemperatureUnit)
}

func TestSearchChanged(t *testing.T) {
	base := Default()

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   bool
	}{
		{"Theme", func(s *Settings) { s.Theme = "space" }, true},
		{"Custom Query", func(s *Settings) { s.CustomQuery = "golden retriever" }, true},
		{"Custom Query Whitespace", func(s *Settings) { s.CustomQuery = "   " }, false},
		{"Source", func(s *Settings) { s.Source = provider.Unsplash }, true},
		{"Weather Mode", func(s *Settings) { s.Weather.Mode = WeatherEscape }, true},
		{"Interval", func(s *Settings) { s.RotationInterval = 15 }, false},
		{"Clock", func(s *Settings) { s.ShowClock = false }, false},
		{"Weather Unit", func(s *Settings) { s.Weather.TemperatureUnit = Celsius }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := base
			tt.mutate(&next)
			assert.Equal(t, tt.want, base.SearchChanged(next))
		})
	}
}

func TestNormalize(t *testing.T) {
	s := Settings{
		RotationInterval:  -5,
		Source:            "flickr",
		CrossfadeDuration: -1,
		Weather:           Weather{Mode: "sideways", TemperatureUnit: "K"},
		Music:             Music{MappingMode: "LITERAL"},
	}.Normalize()

	assert.Equal(t, "nature", s.Theme)
	assert.Equal(t, 0, s.RotationInterval)
	assert.Equal(t, provider.Pexels, s.Source)
	assert.Equal(t, 1500, s.CrossfadeDuration)
	assert.Equal(t, WeatherOff, s.Weather.Mode)
	assert.Equal(t, Fahrenheit, s.Weather.TemperatureUnit)
	assert.Equal(t, MappingLiteral, s.Music.MappingMode)
}

func TestParseMappingMode(t *testing.T) {
	assert.Equal(t, MappingJukebox, ParseMappingMode(" jukebox "))
	assert.Equal(t, MappingGenre, ParseMappingMode("genre"))
	assert.Equal(t, MappingMood, ParseMappingMode("Mood"))
	assert.Equal(t, MappingJukebox, ParseMappingMode(""))
	assert.Equal(t, MappingJukebox, ParseMappingMode("bogus"))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewFileStore(path)

	t.Run("Missing file loads defaults", func(t *testing.T) {
		assert.Equal(t, Default(), store.Load())
	})

	t.Run("Round trip", func(t *testing.T) {
		s := Default()
		s.Theme = "custom"
		s.CustomQuery = "golden retriever"
		s.Weather.Mode = WeatherEscape
		require.NoError(t, store.Save(s))
		assert.Equal(t, s, store.Load())
	})

	t.Run("Corrupt file loads defaults", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{\"theme\": 12"), 0644))
		assert.Equal(t, Default(), store.Load())
	})

	t.Run("Partial file keeps defaults for missing fields", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{"theme":"space"}`), 0644))
		got := store.Load()
		assert.Equal(t, "space", got.Theme)
		assert.Equal(t, 60, got.RotationInterval)
		assert.True(t, got.ShowClock)
	})
}

func TestMemoryStore(t *testing.T) {
	var m MemoryStore
	assert.Equal(t, Default(), m.Load())
	s := Default()
	s.Theme = "cities"
	require.NoError(t, m.Save(s))
	assert.Equal(t, "cities", m.Load().Theme)
}
