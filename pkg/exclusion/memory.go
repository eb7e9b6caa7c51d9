package exclusion

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps exclusions in process memory only.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	Now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time), Now: time.Now}
}

// Load returns the unexpired exclusions.
func (s *MemoryStore) Load(ctx context.Context) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	out := make(map[string]time.Time, len(s.entries))
	for id, ts := range s.entries {
		if now.Sub(ts) > Expiry {
			delete(s.entries, id)
			continue
		}
		out[id] = ts
	}
	return out, nil
}

// Append records ids not already present.
func (s *MemoryStore) Append(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	for _, id := range ids {
		if _, ok := s.entries[id]; !ok {
			s.entries[id] = now
		}
	}
	return nil
}
