package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dixieflatline76/jukebox/util/log"
)

// Store loads and saves Settings.
type Store interface {
	Load() Settings
	Save(Settings) error
}

// FileStore persists settings as JSON. Missing or corrupt files load as defaults.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the stored settings, or the defaults when none are readable.
func (s *FileStore) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Settings] Failed to read %s: %v", s.path, err)
		}
		return Default()
	}

	loaded := Default()
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("[Settings] Corrupt settings in %s, using defaults: %v", s.path, err)
		return Default()
	}
	return loaded.Normalize()
}

// Save writes the settings atomically.
func (s *FileStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// MemoryStore keeps settings in memory.
type MemoryStore struct {
	mu       sync.Mutex
	settings *Settings
}

// Load returns the saved settings or the defaults.
func (m *MemoryStore) Load() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return Default()
	}
	return *m.settings
}

// Save stores a copy of settings.
func (m *MemoryStore) Save(settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &settings
	return nil
}
