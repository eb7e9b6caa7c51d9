package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/pkg/api"
	"github.com/dixieflatline76/jukebox/pkg/exclusion"
	redisExclusion "github.com/dixieflatline76/jukebox/pkg/exclusion/redis"
	"github.com/dixieflatline76/jukebox/pkg/music"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/dixieflatline76/jukebox/util/log"

	"github.com/jamiealquiza/envy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	_ "github.com/dixieflatline76/jukebox/pkg/wallpaper/providers/nasa"
	_ "github.com/dixieflatline76/jukebox/pkg/wallpaper/providers/pexels"
	_ "github.com/dixieflatline76/jukebox/pkg/wallpaper/providers/pixabay"
	_ "github.com/dixieflatline76/jukebox/pkg/wallpaper/providers/unsplash"
)

const (
	httpTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Commandline flags
var (
	listen  = flag.String("listen", config.DefaultListen, "listen address")
	dataDir = flag.String("data-dir", config.DefaultDataDir(), "directory for settings, usage and exclusion files")
	perPage = flag.Int("per-page", config.DefaultPerPage, "images requested per provider page")

	recognitionLimit = flag.Int("recognition-daily-limit", config.DefaultRecognitionDailyLimit, "music recognitions per client IP per day")
	sessionIdle      = flag.Duration("session-idle-timeout", config.DefaultSessionIdleTimeout, "close sessions without clients after this long (0 keeps them)")

	// Exclusion list
	exclusionBackend = flag.String("exclusion", config.ExclusionFile, "which exclusion backend to use (file, redis, memory)")
	redisAddress     = flag.String("redis-address", "127.0.0.1:6379", "redis address")
	redisPoolSize    = flag.Int("redis-pool-size", config.DefaultRedisPoolSize, "redis pool size")

	// Keys
	setKey = flag.String("set-key", "", "store an API key in the OS keyring as NAME=VALUE and exit (empty VALUE deletes it)")
)

func main() {
	// Parse environment variables
	envy.Parse("JUKEBOX")

	// Parse commandline flags
	flag.Parse()

	keys := config.NewKeyringSource()
	if *setKey != "" {
		if err := storeKey(keys, *setKey); err != nil {
			log.Fatalf("Failed to store key: %v", err)
		}
		return
	}

	// Set GOMAXPROCS
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Printf("Failed to set GOMAXPROCS: %v", err)
	}

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory %s: %v", *dataDir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exclusions, closeExclusions, err := setupExclusions(ctx)
	if err != nil {
		log.Fatalf("Error initializing exclusion backend: %v", err)
	}
	defer closeExclusions()

	for _, name := range config.KnownKeys {
		secret, err := keys.LookupAPIKey(name)
		switch {
		case err != nil:
			log.Printf("Keyring lookup for %s failed: %v", name, err)
		case secret == "":
			log.Printf("%s is not configured", name)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := wallpaper.NewHTTPClient(httpTimeout)
	providerOpts := wallpaper.ProviderOptions{Keys: keys, Client: client, PerPage: *perPage}

	weatherService := weather.NewService(client)
	musicService := music.NewService(
		music.NewShazam(keys, client),
		music.NewLyricsOVH(client),
		music.NewLastFM(keys, client),
		music.NewMapper(rand.New(rand.NewSource(time.Now().UnixNano()))),
		music.NewGuard(music.NewFileUsageStore(filepath.Join(*dataDir, "music_usage.json"))),
	)

	hub := api.NewHub()
	manager := wallpaper.NewManager(wallpaper.Options{
		Providers:   wallpaper.NewRotation(providerOpts, wallpaper.DefaultRotation),
		Resolver:    wallpaper.Resolver{Mapper: weather.NewThemeMapper()},
		Exclusions:  exclusions,
		Preloader:   wallpaper.NewHTTPPreloader(client),
		Metrics:     wallpaper.NewMetrics(reg),
		Events:      hub.Broadcast,
		IdleTimeout: *sessionIdle,
	})
	defer manager.Shutdown()

	server := api.NewServer(api.Config{
		Addr:             *listen,
		Providers:        wallpaper.NewRotation(providerOpts, provider.All),
		Weather:          weatherService,
		Music:            musicService,
		Settings:         settings.NewFileStore(filepath.Join(*dataDir, "settings.json")),
		Sessions:         manager,
		Hub:              hub,
		Registerer:       reg,
		Gatherer:         reg,
		RecognitionLimit: *recognitionLimit,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Stop(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

func setupExclusions(ctx context.Context) (exclusion.Store, func(), error) {
	switch *exclusionBackend {
	case config.ExclusionFile:
		return exclusion.NewFileStore(*dataDir), func() {}, nil
	case config.ExclusionRedis:
		store, err := redisExclusion.New(ctx, *redisAddress, *redisPoolSize)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Shutdown, nil
	case config.ExclusionMemory:
		return exclusion.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("invalid exclusion backend %q", *exclusionBackend)
}

func storeKey(keys *config.KeyringSource, assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf("expected NAME=VALUE, got %q", assignment)
	}
	name = strings.TrimSpace(name)
	known := false
	for _, k := range config.KnownKeys {
		if k == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown key %q, expected one of %s", name, strings.Join(config.KnownKeys, ", "))
	}
	if err := keys.SetAPIKey(name, strings.TrimSpace(value)); err != nil {
		return err
	}
	log.Printf("Stored %s in the OS keyring", name)
	return nil
}
