// Package exclusion persists the ids of images already shown so they are not
// repeated across sessions for a few days.
package exclusion

import (
	"context"
	"time"
)

// StorageKey is the name under which exclusions are persisted.
const StorageKey = "wallpaper-jukebox-excluded-images"

// Expiry is how long a shown image stays excluded.
const Expiry = 3 * 24 * time.Hour

// Store persists excluded image ids with the time they were recorded.
type Store interface {
	// Load returns the unexpired exclusions, pruning expired ones from storage.
	Load(ctx context.Context) (map[string]time.Time, error)
	// Append records ids that are not already present.
	Append(ctx context.Context, ids []string) error
}

// Entry is one persisted exclusion. Timestamp is in milliseconds since the epoch.
type Entry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// Expired reports whether the entry is older than Expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return now.Sub(time.UnixMilli(e.Timestamp)) > Expiry
}
