package exclusion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/util/log"
)

// FileStore keeps exclusions in a JSON file. Writes go through a temp file and
// a rename so a crash never leaves a truncated list behind.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	ids     map[string]struct{}
	loaded  bool
	Now     func() time.Time
}

// NewFileStore returns a FileStore persisting to dir/StorageKey.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		path: filepath.Join(dir, StorageKey+".json"),
		ids:  make(map[string]struct{}),
		Now:  time.Now,
	}
}

// Load reads the file, drops expired entries and rewrites it.
func (s *FileStore) Load(ctx context.Context) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readLocked(); err != nil {
		return nil, err
	}

	now := s.Now()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !e.Expired(now) {
			kept = append(kept, e)
		}
	}
	pruned := len(s.entries) - len(kept)
	s.entries = kept
	s.reindexLocked()

	if pruned > 0 {
		log.Debugf("[Exclusion] Pruned %d expired entries", pruned)
		if err := s.saveLocked(); err != nil {
			return nil, err
		}
	}

	out := make(map[string]time.Time, len(s.entries))
	for _, e := range s.entries {
		out[e.ID] = time.UnixMilli(e.Timestamp)
	}
	return out, nil
}

// Append records ids not already present and persists the list.
func (s *FileStore) Append(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readLocked(); err != nil {
		return err
	}

	ts := s.Now().UnixMilli()
	added := 0
	for _, id := range ids {
		if _, ok := s.ids[id]; ok {
			continue
		}
		s.entries = append(s.entries, Entry{ID: id, Timestamp: ts})
		s.ids[id] = struct{}{}
		added++
	}
	if added == 0 {
		return nil
	}
	return s.saveLocked()
}

func (s *FileStore) readLocked() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read exclusions: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt list only costs us some repeats.
		log.Printf("[Exclusion] Ignoring corrupt exclusion file %s: %v", s.path, err)
		entries = nil
	}
	s.entries = entries
	s.reindexLocked()
	s.loaded = true
	return nil
}

func (s *FileStore) reindexLocked() {
	s.ids = make(map[string]struct{}, len(s.entries))
	for _, e := range s.entries {
		s.ids[e.ID] = struct{}{}
	}
}

func (s *FileStore) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create exclusion directory: %w", err)
	}

	tmpFile := s.path + ".tmp"
	f, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.entries); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode exclusions: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
