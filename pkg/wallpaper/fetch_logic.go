package wallpaper

import (
	"context"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/util/log"
)

// Fetch asks the next provider in rotation for new images and queues them.
// On exhaustion it falls back to query variations and then to a creative
// query. Failures are logged and counted, never returned. Results of a fetch
// that was overtaken by a new search are dropped.
func (s *Session) Fetch(ctx context.Context, isNewSearch bool) {
	if !isNewSearch {
		if !s.fetching.TryAcquire() {
			log.Debugf("[Wallpaper] Session %s: fetch skipped, already in progress", s.id)
			return
		}
	}
	grew := s.fetch(ctx, isNewSearch)
	if !isNewSearch {
		s.fetching.Release()
	}
	if grew {
		s.checkLowWater()
	} else {
		s.scheduleRetry()
	}
}

func (s *Session) fetch(ctx context.Context, isNewSearch bool) bool {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	s.mu.Lock()
	base := s.resolver.ResolveBaseTheme(s.settings, s.weather, s.musicQuery)
	if isNewSearch {
		s.startNewSearchLocked(base)
	}
	gen := s.gen.Current()
	if len(s.providers) == 0 {
		log.Printf("[Wallpaper] Session %s: no providers configured", s.id)
		s.unlockAndFlush()
		return false
	}
	p := s.providers[s.state.ProviderCursor%len(s.providers)]
	s.state.ProviderCursor++
	page := s.state.Page(p.ID())
	query := s.state.ActiveQuery
	if query == "" {
		query = base
	}
	s.unlockAndFlush()

	images, err := s.search(ctx, p, query, page)
	if err != nil {
		return false
	}

	s.mu.Lock()
	if !s.stillCurrentLocked(gen) {
		return false
	}
	fresh := s.state.FilterNew(images)

	if len(fresh) == 0 {
		if v, ok := nextVariation(s.state.OriginalQuery, s.state.TriedVariations); ok {
			log.Printf("[Wallpaper] Query exhausted. Trying variation: %q", v)
			s.state.TriedVariations[v] = struct{}{}
			s.switchQueryLocked(v)
			s.countFallback(TierVariation)
			s.unlockAndFlush()

			images, _ = s.search(ctx, p, v, 1)

			s.mu.Lock()
			if !s.stillCurrentLocked(gen) {
				return false
			}
			fresh = s.state.FilterNew(images)
		}
	}

	if len(fresh) == 0 {
		q := creativeFallback(s.rnd, s.state.UsedFallbacks)
		log.Printf("[Wallpaper] All variations exhausted. Exploring: %q", q)
		s.state.UsedFallbacks[q] = struct{}{}
		s.switchQueryLocked(q)
		s.setExploringLocked(q)
		s.countFallback(TierCreative)
		s.unlockAndFlush()

		images, _ = s.search(ctx, p, q, 1)

		s.mu.Lock()
		if !s.stillCurrentLocked(gen) {
			return false
		}
		fresh = s.state.FilterNew(images)
	}

	ids := s.state.Merge(fresh)
	if len(ids) > 0 {
		s.state.ProviderPage[p.ID()] = s.state.Page(p.ID()) + 1
		if s.metrics != nil {
			s.metrics.ImagesQueued.WithLabelValues(string(p.ID())).Add(float64(len(ids)))
		}
		s.preloadLocked()
	}
	queued := len(s.state.Queue)
	s.unlockAndFlush()

	if len(ids) == 0 {
		log.Printf("[Wallpaper] Session %s: no new images from %s", s.id, p.Name())
		return false
	}
	log.Printf("[Wallpaper] Session %s: queued %d images from %s (%d waiting)", s.id, len(ids), p.Name(), queued)

	if s.store != nil {
		if err := s.store.Append(ctx, ids); err != nil {
			log.Printf("[Wallpaper] Failed to persist exclusion list: %v", err)
		}
	}
	return true
}

// search runs one provider request with metrics. Errors are logged here.
func (s *Session) search(ctx context.Context, p provider.ImageProvider, query string, page int) ([]provider.Image, error) {
	start := time.Now()
	images, err := p.Search(ctx, query, page)
	if s.metrics != nil {
		s.metrics.ProviderDuration.WithLabelValues(string(p.ID())).Observe(time.Since(start).Seconds())
		outcome := "ok"
		switch {
		case err != nil:
			outcome = "error"
		case len(images) == 0:
			outcome = "empty"
		}
		s.metrics.ProviderRequests.WithLabelValues(string(p.ID()), outcome).Inc()
	}
	if err != nil {
		log.Printf("[Wallpaper] %s search for %q (page %d) failed: %v", p.Name(), query, page, err)
		return nil, err
	}
	log.Debugf("[Wallpaper] %s returned %d images for %q (page %d)", p.Name(), len(images), query, page)
	return images, nil
}

// stillCurrentLocked unlocks and reports false when gen is stale.
func (s *Session) stillCurrentLocked(gen uint64) bool {
	if s.gen.IsCurrent(gen) {
		return true
	}
	log.Debugf("[Wallpaper] Session %s: dropping results of generation %d", s.id, gen)
	if s.metrics != nil {
		s.metrics.StaleFetches.Inc()
	}
	s.unlockAndFlush()
	return false
}

// switchQueryLocked makes q the active query and tells clients it was an
// internal change.
func (s *Session) switchQueryLocked(q string) {
	s.state.SetActiveQuery(q)
	s.internalQuery = q
	s.emitLocked(Event{Type: EventQueryChanged, Query: q, Internal: true})
}

func (s *Session) countFallback(tier string) {
	if s.metrics != nil {
		s.metrics.Fallbacks.WithLabelValues(tier).Inc()
	}
}
