package music

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/util/log"
)

// Recognition quota defaults.
const (
	MonthlyLimit        = 250
	RecognitionCooldown = 30 * time.Second
	MaxConsecutiveFails = 2
)

// Quota errors.
var (
	ErrQuotaExceeded = errors.New("monthly recognition limit reached")
	ErrCooldown      = errors.New("recognition cooldown active")
	ErrPaused        = errors.New("auto recognition paused after repeated failures")
)

// Usage is the recognition count of a calendar month.
type Usage struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// UsageStore persists recognition usage.
type UsageStore interface {
	LoadUsage() Usage
	SaveUsage(Usage) error
}

// Status reports the guard state to clients.
type Status struct {
	Used              int     `json:"used"`
	Limit             int     `json:"limit"`
	Remaining         int     `json:"remaining"`
	Paused            bool    `json:"paused"`
	CooldownRemaining float64 `json:"cooldownRemaining"`
}

// Guard enforces the monthly quota, the cooldown between recognitions and the
// auto pause after consecutive failures.
type Guard struct {
	mu       sync.Mutex
	store    UsageStore
	limit    int
	cooldown time.Duration
	Now      func() time.Time

	lastCall time.Time
	prevCall time.Time
	failures int
	paused   bool
}

// NewGuard creates a guard backed by the given store.
func NewGuard(store UsageStore) *Guard {
	return &Guard{store: store, limit: MonthlyLimit, cooldown: RecognitionCooldown, Now: time.Now}
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func (g *Guard) usageLocked(now time.Time) Usage {
	u := g.store.LoadUsage()
	if u.Month != monthKey(now) {
		u = Usage{Month: monthKey(now)}
	}
	return u
}

// Acquire checks and books one recognition. A manual request resumes a paused
// guard. The very first recognition skips the cooldown.
func (g *Guard) Acquire(manual bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.Now()

	if g.paused {
		if !manual {
			return ErrPaused
		}
		log.Printf("[Recognition] Resumed by manual trigger")
		g.paused = false
		g.failures = 0
	}

	u := g.usageLocked(now)
	if u.Count >= g.limit {
		return fmt.Errorf("%w (%d/%d)", ErrQuotaExceeded, u.Count, g.limit)
	}
	if !g.lastCall.IsZero() && now.Sub(g.lastCall) < g.cooldown {
		return fmt.Errorf("%w: retry in %.0fs", ErrCooldown, (g.cooldown - now.Sub(g.lastCall)).Seconds())
	}

	u.Count++
	if err := g.store.SaveUsage(u); err != nil {
		log.Printf("[Recognition] Failed to save usage: %v", err)
	}
	g.prevCall = g.lastCall
	g.lastCall = now
	return nil
}

// Refund returns the recognition booked by the last Acquire, including its
// cooldown. It is used when the request never reached the recognizer.
func (g *Guard) Refund() {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.Now()

	u := g.usageLocked(now)
	if u.Count > 0 {
		u.Count--
		if err := g.store.SaveUsage(u); err != nil {
			log.Printf("[Recognition] Failed to save usage: %v", err)
		}
	}
	g.lastCall = g.prevCall
}

// Report records the outcome of a recognition.
func (g *Guard) Report(detected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if detected {
		g.failures = 0
		return
	}
	g.failures++
	if g.failures >= MaxConsecutiveFails && !g.paused {
		g.paused = true
		log.Printf("[Recognition] Paused after %d consecutive failures", g.failures)
	}
}

// Status returns the current quota state.
func (g *Guard) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.Now()
	u := g.usageLocked(now)

	st := Status{Used: u.Count, Limit: g.limit, Remaining: g.limit - u.Count, Paused: g.paused}
	if st.Remaining < 0 {
		st.Remaining = 0
	}
	if !g.lastCall.IsZero() {
		if left := g.cooldown - now.Sub(g.lastCall); left > 0 {
			st.CooldownRemaining = left.Seconds()
		}
	}
	return st
}

// FileUsageStore keeps usage in a JSON file.
type FileUsageStore struct {
	mu   sync.Mutex
	path string
}

// NewFileUsageStore creates a store for the given file path.
func NewFileUsageStore(path string) *FileUsageStore {
	return &FileUsageStore{path: path}
}

// LoadUsage reads the file; a missing or corrupt file is zero usage.
func (s *FileUsageStore) LoadUsage() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var u Usage
	data, err := os.ReadFile(s.path)
	if err != nil {
		return u
	}
	if err := json.Unmarshal(data, &u); err != nil {
		log.Printf("[Recognition] Ignoring corrupt usage file: %v", err)
		return Usage{}
	}
	return u
}

// SaveUsage writes the file atomically.
func (s *FileUsageStore) SaveUsage(u Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryUsageStore keeps usage in memory.
type MemoryUsageStore struct {
	mu sync.Mutex
	u  Usage
}

// LoadUsage returns the stored usage.
func (m *MemoryUsageStore) LoadUsage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.u
}

// SaveUsage stores usage.
func (m *MemoryUsageStore) SaveUsage(u Usage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.u = u
	return nil
}
