package wallpaper

import (
	"github.com/dixieflatline76/jukebox/pkg/provider"
)

// RotationState is the per session rotation state. It is owned by a Session
// and only touched under the session lock.
type RotationState struct {
	ActiveQuery     string
	OriginalQuery   string
	ProviderPage    map[provider.ID]int
	ProviderCursor  int
	SeenIDs         map[string]struct{}
	ExcludedIDs     map[string]struct{}
	TriedVariations map[string]struct{}
	UsedFallbacks   map[string]struct{}
	Queue           []provider.Image
	Current         *provider.Image
	Next            *provider.Image
	Generation      uint64
}

// NewRotationState creates an empty state seeded with persisted exclusions.
func NewRotationState(excluded []string) *RotationState {
	s := &RotationState{
		ProviderPage:    make(map[provider.ID]int),
		SeenIDs:         make(map[string]struct{}),
		ExcludedIDs:     make(map[string]struct{}, len(excluded)),
		TriedVariations: make(map[string]struct{}),
		UsedFallbacks:   make(map[string]struct{}),
	}
	for _, id := range excluded {
		s.ExcludedIDs[id] = struct{}{}
	}
	return s
}

// ResetForNewSearch clears everything tied to the previous search. Exclusions
// survive.
func (s *RotationState) ResetForNewSearch(baseQuery string) {
	s.ActiveQuery = baseQuery
	s.OriginalQuery = baseQuery
	s.ResetPages()
	s.ProviderCursor = 0
	s.SeenIDs = make(map[string]struct{})
	s.TriedVariations = make(map[string]struct{})
	s.UsedFallbacks = make(map[string]struct{})
	s.Queue = nil
	s.Current = nil
	s.Next = nil
}

// ResetPages sets every provider back to page 1.
func (s *RotationState) ResetPages() {
	s.ProviderPage = make(map[provider.ID]int)
}

// Page returns the next page to request from id.
func (s *RotationState) Page(id provider.ID) int {
	if p := s.ProviderPage[id]; p > 0 {
		return p
	}
	return 1
}

// SetActiveQuery switches the active query and resets all pages.
func (s *RotationState) SetActiveQuery(q string) {
	s.ActiveQuery = q
	s.ResetPages()
}

// FilterNew drops images already seen this session or excluded, including
// duplicates within images itself.
func (s *RotationState) FilterNew(images []provider.Image) []provider.Image {
	var out []provider.Image
	batch := make(map[string]struct{}, len(images))
	for _, img := range images {
		if _, ok := s.SeenIDs[img.ID]; ok {
			continue
		}
		if _, ok := s.ExcludedIDs[img.ID]; ok {
			continue
		}
		if _, ok := batch[img.ID]; ok {
			continue
		}
		batch[img.ID] = struct{}{}
		out = append(out, img)
	}
	return out
}

// Merge records images as seen and excluded and appends them to the queue,
// keeping the newest MaxQueueSize entries. It returns the ids that were added.
func (s *RotationState) Merge(images []provider.Image) []string {
	fresh := s.FilterNew(images)
	ids := make([]string, 0, len(fresh))
	for _, img := range fresh {
		s.SeenIDs[img.ID] = struct{}{}
		s.ExcludedIDs[img.ID] = struct{}{}
		ids = append(ids, img.ID)
	}
	s.Queue = append(s.Queue, fresh...)
	if over := len(s.Queue) - MaxQueueSize; over > 0 {
		s.Queue = append([]provider.Image(nil), s.Queue[over:]...)
	}
	return ids
}

// PopHead removes and returns the queue head.
func (s *RotationState) PopHead() (provider.Image, bool) {
	if len(s.Queue) == 0 {
		return provider.Image{}, false
	}
	head := s.Queue[0]
	s.Queue = s.Queue[1:]
	return head, true
}
