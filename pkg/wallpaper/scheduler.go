package wallpaper

import (
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/util/log"
)

// Scheduler drives rotation on a fixed interval. It owns at most one ticker.
type Scheduler struct {
	mu       sync.Mutex
	ticker   *time.Ticker
	stop     chan struct{}
	interval time.Duration
	tick     func()
}

// NewScheduler creates a stopped scheduler that calls tick on every interval.
func NewScheduler(tick func()) *Scheduler {
	return &Scheduler{tick: tick}
}

// Start installs the ticker. An interval of zero or less means manual rotation
// and leaves the scheduler stopped. Starting a running scheduler restarts it.
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.interval = interval
	if interval <= 0 {
		log.Debugf("[Scheduler] Manual rotation, no timer installed")
		return
	}

	ticker := time.NewTicker(interval)
	stop := make(chan struct{})
	s.ticker = ticker
	s.stop = stop
	go func() {
		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-stop:
				return
			}
		}
	}()
	log.Debugf("[Scheduler] Rotating every %v", interval)
}

// Restart replaces the ticker when the interval changed.
func (s *Scheduler) Restart(interval time.Duration) {
	s.mu.Lock()
	same := s.interval == interval && (s.ticker != nil || interval <= 0)
	s.mu.Unlock()
	if same {
		return
	}
	s.Start(interval)
}

// Stop removes the ticker.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Running reports whether a ticker is installed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticker != nil
}

// Interval returns the configured interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Scheduler) stopLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.stop = nil
}

func rotationInterval(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
