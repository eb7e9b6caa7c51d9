package wallpaper

import (
	"time"

	"github.com/dixieflatline76/jukebox/pkg/provider"
)

// Rotation tuning.
const (
	MaxQueueSize            = 15
	LowWaterMark            = 3
	ExploringNoticeDuration = 5 * time.Second
	FetchTimeout            = 20 * time.Second
	FetchRetryDelay         = 10 * time.Second
	PreloadTimeout          = 30 * time.Second
	MaxPreloadBytes         = 25 << 20
	variationEnhancerCount  = 3
	minVariationWordLength  = 3
)

// Event types pushed to clients.
const (
	EventSetWallpaper = "set_wallpaper"
	EventQueryChanged = "query_changed"
	EventExploring    = "exploring"
)

// Fallback tiers, used as metric labels.
const (
	TierVariation = "variation"
	TierCreative  = "creative"
)

// DefaultRotation is the provider order a session cycles through.
var DefaultRotation = []provider.ID{provider.Pexels, provider.Pixabay, provider.Unsplash}

// MoodEnhancers are appended to an exhausted query to widen it.
var MoodEnhancers = []string{"landscape", "scenery", "view", "sky", "light", "nature", "aesthetic"}

// CreativeFallbacks are queries known to return good wallpapers.
var CreativeFallbacks = []string{
	"golden hour landscape",
	"aurora borealis night",
	"misty forest morning",
	"ocean waves sunset",
	"desert dunes shadow",
	"neon city rain",
	"mountain lake reflection",
	"starry night sky",
	"autumn leaves path",
	"tropical paradise beach",
	"northern lights snow",
	"cherry blossom spring",
	"thunderstorm clouds",
	"underwater coral reef",
	"lavender field sunset",
	"foggy mountain peak",
	"wild flower meadow",
	"glacier ice blue",
	"savanna golden grass",
	"waterfall rainforest",
}
