package wallpaper

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/exclusion"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/dixieflatline76/jukebox/util"
	"github.com/dixieflatline76/jukebox/util/log"
)

// Event is pushed to the clients of a session.
type Event struct {
	Type     string          `json:"type"`
	URL      string          `json:"url,omitempty"`
	Image    *provider.Image `json:"image,omitempty"`
	Query    string          `json:"query,omitempty"`
	Internal bool            `json:"internal,omitempty"`
	Theme    string          `json:"theme"`
}

// Options configures a Session.
type Options struct {
	Providers  []provider.ImageProvider
	Resolver   Resolver
	Exclusions exclusion.Store
	Preloader  Preloader
	Metrics    *Metrics
	Rand       *rand.Rand
	// Events, when set, receives the events of every session.
	Events func(sessionID string, ev Event)
	// IdleTimeout, when positive, lets a Manager close sessions that have
	// had no client or API activity for that long.
	IdleTimeout time.Duration

	exploringDelay time.Duration
	retryDelay     time.Duration
}

// Status is a snapshot of a session for clients.
type Status struct {
	ID            string            `json:"id"`
	Current       *provider.Image   `json:"current"`
	Next          *provider.Image   `json:"next"`
	QueueLength   int               `json:"queueLength"`
	ActiveQuery   string            `json:"activeQuery"`
	OriginalQuery string            `json:"originalQuery"`
	Exploring     string            `json:"exploringTheme,omitempty"`
	Generation    uint64            `json:"generation"`
	Settings      settings.Settings `json:"settings"`
}

// Session runs the rotation for one client. State mutation is serialized by
// mu; provider and preload I/O happen outside it.
type Session struct {
	id        string
	providers []provider.ImageProvider
	resolver  Resolver
	store     exclusion.Store
	preloader Preloader
	metrics   *Metrics
	scheduler *Scheduler

	mu             sync.Mutex
	state          *RotationState
	settings       settings.Settings
	weather        *weather.Data
	musicQuery     string
	internalQuery  string
	exploring      string
	exploringTimer *time.Timer
	exploringDelay time.Duration
	retryTimer     *time.Timer
	retryDelay     time.Duration
	nextReady      bool
	rnd            *rand.Rand
	listener       func(Event)
	pending        []Event

	gen      util.Generation
	fetching *util.SafeFlag

	ctx      context.Context
	cancel   context.CancelFunc
	asyncMu  sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewSession creates a session. Exclusions are loaded once here; a failing
// store only costs the cross session de-duplication.
func NewSession(ctx context.Context, id string, s settings.Settings, opts Options) *Session {
	var excluded []string
	if opts.Exclusions != nil {
		loaded, err := opts.Exclusions.Load(ctx)
		if err != nil {
			log.Printf("[Wallpaper] Failed to load exclusion list: %v", err)
		}
		for id := range loaded {
			excluded = append(excluded, id)
		}
	}
	if opts.Preloader == nil {
		opts.Preloader = PreloaderFunc(func(context.Context, provider.Image) error { return nil })
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.exploringDelay == 0 {
		opts.exploringDelay = ExploringNoticeDuration
	}
	if opts.retryDelay == 0 {
		opts.retryDelay = FetchRetryDelay
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		id:             id,
		providers:      opts.Providers,
		resolver:       opts.Resolver,
		store:          opts.Exclusions,
		preloader:      opts.Preloader,
		metrics:        opts.Metrics,
		state:          NewRotationState(excluded),
		settings:       s.Normalize(),
		exploringDelay: opts.exploringDelay,
		retryDelay:     opts.retryDelay,
		rnd:            opts.Rand,
		fetching:       util.NewSafeBool(),
		ctx:            sessCtx,
		cancel:         cancel,
	}
	if opts.Events != nil {
		sess.listener = func(ev Event) { opts.Events(id, ev) }
	}
	sess.scheduler = NewScheduler(func() { sess.RotateNow() })
	return sess
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// SetListener installs the event callback. Events are delivered outside the
// session lock.
func (s *Session) SetListener(l func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Start runs the first search and installs the rotation timer.
func (s *Session) Start() {
	s.mu.Lock()
	interval := rotationInterval(s.settings.RotationInterval)
	s.mu.Unlock()
	s.goAsync(func(ctx context.Context) { s.Fetch(ctx, true) })
	s.scheduler.Start(interval)
}

// Close stops the timer and waits for background work.
func (s *Session) Close() {
	s.scheduler.Stop()
	s.asyncMu.Lock()
	s.closed = true
	s.asyncMu.Unlock()
	s.cancel()

	s.mu.Lock()
	if s.exploringTimer != nil {
		s.exploringTimer.Stop()
	}
	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.mu.Unlock()
	s.inflight.Wait()
}

// Settings returns the current settings snapshot.
func (s *Session) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ApplySettings stores a new settings snapshot. It starts a new search when
// theme, source, custom query or weather mode changed, unless the custom
// query merely echoes an internal fallback query. It reports whether a new
// search was started.
func (s *Session) ApplySettings(next settings.Settings) bool {
	next = next.Normalize()

	s.mu.Lock()
	prev := s.settings
	s.settings = next

	echo := s.internalQuery != "" && strings.TrimSpace(next.CustomQuery) == s.internalQuery
	if echo {
		s.internalQuery = ""
	}
	overrideBefore := prev.Music.Enabled && prev.Music.OverrideTheme
	overrideAfter := next.Music.Enabled && next.Music.OverrideTheme
	musicToggled := s.musicQuery != "" && overrideBefore != overrideAfter
	newSearch := (prev.SearchChanged(next) && !echo) || musicToggled
	s.mu.Unlock()

	if prev.RotationInterval != next.RotationInterval {
		s.scheduler.Restart(rotationInterval(next.RotationInterval))
	}
	if newSearch {
		log.Printf("[Wallpaper] Session %s: search settings changed, starting new search", s.id)
		s.goAsync(func(ctx context.Context) { s.Fetch(ctx, true) })
	}
	return newSearch
}

// SetWeather stores the latest weather snapshot. It is picked up by the next
// resolution and does not restart the search.
func (s *Session) SetWeather(data *weather.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather = data
}

// SetMusicQuery stores a music derived query. When music overrides the theme a
// changed query starts a new search, which it reports.
func (s *Session) SetMusicQuery(q string) bool {
	q = strings.TrimSpace(q)
	s.mu.Lock()
	changed := q != s.musicQuery
	s.musicQuery = q
	trigger := changed && s.settings.Music.Enabled && s.settings.Music.OverrideTheme
	s.mu.Unlock()

	if trigger {
		log.Printf("[Wallpaper] Session %s: music query %q", s.id, q)
		s.goAsync(func(ctx context.Context) { s.Fetch(ctx, true) })
	}
	return trigger
}

// RotateNow promotes the preloaded next image. It reports whether a promotion
// happened. Every call checks the low-water mark, so a rotation tick also
// revives a session whose queue ran dry.
func (s *Session) RotateNow() bool {
	s.mu.Lock()
	promoted := false
	if s.state.Next != nil && s.nextReady {
		s.promoteLocked()
		promoted = true
	}
	s.unlockAndFlush()
	s.checkLowWater()
	return promoted
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		ID:            s.id,
		QueueLength:   len(s.state.Queue),
		ActiveQuery:   s.state.ActiveQuery,
		OriginalQuery: s.state.OriginalQuery,
		Exploring:     s.exploring,
		Generation:    s.state.Generation,
		Settings:      s.settings,
	}
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	if s.state.Next != nil {
		next := *s.state.Next
		st.Next = &next
	}
	return st
}

func (s *Session) startNewSearchLocked(base string) {
	s.state.ResetForNewSearch(base)
	s.state.Generation = s.gen.Next()
	s.nextReady = false
	s.clearExploringLocked()
	s.emitLocked(Event{Type: EventQueryChanged, Query: base})
	log.Printf("[Wallpaper] Session %s: new search for %q (generation %d)", s.id, base, s.state.Generation)
}

// preloadLocked moves the queue head into Next and loads it out of band.
func (s *Session) preloadLocked() {
	if s.state.Next != nil {
		return
	}
	head, ok := s.state.PopHead()
	if !ok {
		return
	}
	s.state.Next = &head
	s.nextReady = false
	gen := s.gen.Current()
	s.goAsync(func(ctx context.Context) { s.finishPreload(ctx, gen, head) })
}

func (s *Session) finishPreload(ctx context.Context, gen uint64, img provider.Image) {
	err := s.preloader.Preload(ctx, img)

	s.mu.Lock()
	if !s.gen.IsCurrent(gen) || s.state.Next == nil || s.state.Next.ID != img.ID {
		s.mu.Unlock()
		return
	}
	if err != nil {
		log.Printf("[Wallpaper] Skipping %s: %v", img.ID, err)
		if s.metrics != nil {
			s.metrics.PreloadFailures.Inc()
		}
		s.state.Next = nil
		s.preloadLocked()
	} else {
		s.nextReady = true
		if s.state.Current == nil {
			s.promoteLocked()
		}
	}
	s.unlockAndFlush()
	s.checkLowWater()
}

func (s *Session) promoteLocked() {
	img := *s.state.Next
	s.state.Current = &img
	s.state.Next = nil
	s.nextReady = false
	if s.metrics != nil {
		s.metrics.Rotations.Inc()
	}
	s.emitLocked(Event{Type: EventSetWallpaper, URL: img.URL, Image: &img})
	s.preloadLocked()
}

// checkLowWater triggers a refill when the queue runs low.
func (s *Session) checkLowWater() {
	s.mu.Lock()
	low := len(s.state.Queue) < LowWaterMark
	s.mu.Unlock()
	if low {
		s.goAsync(func(ctx context.Context) { s.Fetch(ctx, false) })
	}
}

// scheduleRetry arms a single delayed refill when the session has nothing
// left to show. The retry asks the next provider in rotation.
func (s *Session) scheduleRetry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Next != nil || len(s.state.Queue) > 0 || s.retryTimer != nil {
		return
	}
	log.Debugf("[Wallpaper] Session %s: queue empty, retrying in %v", s.id, s.retryDelay)
	s.retryTimer = time.AfterFunc(s.retryDelay, func() {
		s.mu.Lock()
		s.retryTimer = nil
		s.mu.Unlock()
		s.checkLowWater()
	})
}

func (s *Session) setExploringLocked(theme string) {
	if s.exploringTimer != nil {
		s.exploringTimer.Stop()
	}
	s.exploring = theme
	s.emitLocked(Event{Type: EventExploring, Theme: theme})
	s.exploringTimer = time.AfterFunc(s.exploringDelay, func() {
		s.mu.Lock()
		if s.exploring == theme {
			s.clearExploringLocked()
		}
		s.unlockAndFlush()
	})
}

func (s *Session) clearExploringLocked() {
	if s.exploring == "" {
		return
	}
	s.exploring = ""
	s.emitLocked(Event{Type: EventExploring})
}

func (s *Session) emitLocked(ev Event) {
	s.pending = append(s.pending, ev)
}

// unlockAndFlush releases mu and then delivers queued events.
func (s *Session) unlockAndFlush() {
	events := s.pending
	s.pending = nil
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return
	}
	for _, ev := range events {
		listener(ev)
	}
}

// goAsync runs fn in the background unless the session is closed.
func (s *Session) goAsync(fn func(ctx context.Context)) {
	s.asyncMu.Lock()
	defer s.asyncMu.Unlock()
	if s.closed {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		fn(s.ctx)
	}()
}
