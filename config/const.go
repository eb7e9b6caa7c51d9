package config

import (
	"strings"
	"time"
)

// AppVersion is the version of the service, set at build time.
var AppVersion string

// AppName is the name of the service.
const AppName = "Jukebox"

// LogSubDir is the data and log directory under the user's home.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Names of the third-party API keys the server proxies for.
const (
	PexelsKey   = "PEXELS_API_KEY"
	UnsplashKey = "UNSPLASH_ACCESS_KEY"
	PixabayKey  = "PIXABAY_API_KEY"
	LastFMKey   = "LASTFM_API_KEY"
	RapidAPIKey = "RAPIDAPI_KEY"
)

// KnownKeys lists every API key name the server looks up.
var KnownKeys = []string{PexelsKey, UnsplashKey, PixabayKey, LastFMKey, RapidAPIKey}

// Exclusion store backends.
const (
	ExclusionFile   = "file"
	ExclusionRedis  = "redis"
	ExclusionMemory = "memory"
)

const (
	// DefaultListen is the default listen address.
	DefaultListen = "127.0.0.1:3001"
	// DefaultPerPage is the number of images requested per provider page.
	DefaultPerPage = 10
	// DefaultRedisPoolSize is the default size of the Redis connection pool.
	DefaultRedisPoolSize = 10
	// DefaultRecognitionDailyLimit is the per-IP daily music recognition cap.
	DefaultRecognitionDailyLimit = 100
	// DefaultSessionIdleTimeout is how long a session without clients lives.
	DefaultSessionIdleTimeout = 10 * time.Minute
)
