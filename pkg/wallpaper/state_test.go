package wallpaper

import (
	"testing"

	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationState_MergeDeduplicates(t *testing.T) {
	s := NewRotationState([]string{"x-1"})

	batch := append(images("x-", 1, 3), provider.Image{ID: "x-2"})
	ids := s.Merge(batch)

	assert.Equal(t, []string{"x-2", "x-3"}, ids)
	assert.Equal(t, []string{"x-2", "x-3"}, queueIDs(s.Queue))
	assert.Contains(t, s.SeenIDs, "x-3")
	assert.Contains(t, s.ExcludedIDs, "x-3")

	assert.Empty(t, s.Merge(images("x-", 1, 3)), "ids already seen or excluded are never queued twice")
}

func TestRotationState_ExcludedContainsSeen(t *testing.T) {
	s := NewRotationState(nil)
	s.Merge(images("a-", 1, 20))
	for id := range s.SeenIDs {
		assert.Contains(t, s.ExcludedIDs, id)
	}
}

func TestRotationState_QueueKeepsNewest(t *testing.T) {
	s := NewRotationState(nil)
	s.Merge(images("a-", 1, 10))
	s.Merge(images("a-", 11, 20))

	require.Len(t, s.Queue, MaxQueueSize)
	assert.Equal(t, "a-6", s.Queue[0].ID)
	assert.Equal(t, "a-20", s.Queue[MaxQueueSize-1].ID)
	assert.Len(t, s.SeenIDs, 20)
}

func TestRotationState_ResetForNewSearch(t *testing.T) {
	s := NewRotationState([]string{"old"})
	s.Merge(images("a-", 1, 4))
	s.ProviderPage[provider.Pexels] = 4
	s.ProviderCursor = 7
	s.TriedVariations["v"] = struct{}{}
	s.UsedFallbacks["f"] = struct{}{}
	cur := provider.Image{ID: "a-1"}
	s.Current, s.Next = &cur, &cur
	s.ActiveQuery = "variation"

	s.ResetForNewSearch("golden retriever")

	assert.Equal(t, "golden retriever", s.ActiveQuery)
	assert.Equal(t, "golden retriever", s.OriginalQuery)
	assert.Equal(t, 1, s.Page(provider.Pexels))
	assert.Zero(t, s.ProviderCursor)
	assert.Empty(t, s.SeenIDs)
	assert.Empty(t, s.TriedVariations)
	assert.Empty(t, s.UsedFallbacks)
	assert.Empty(t, s.Queue)
	assert.Nil(t, s.Current)
	assert.Nil(t, s.Next)
	assert.Contains(t, s.ExcludedIDs, "old")
	assert.Contains(t, s.ExcludedIDs, "a-1", "exclusions outlive a search")
}

func TestRotationState_PopHead(t *testing.T) {
	s := NewRotationState(nil)
	_, ok := s.PopHead()
	assert.False(t, ok)

	s.Merge(images("a-", 1, 2))
	head, ok := s.PopHead()
	require.True(t, ok)
	assert.Equal(t, "a-1", head.ID)
	assert.Equal(t, []string{"a-2"}, queueIDs(s.Queue))
}
