package nasa

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNASAProvider_Search(t *testing.T) {
	p := NewNASAProvider(10)

	images, err := p.Search(context.Background(), "space", 1)
	require.NoError(t, err)
	assert.Len(t, images, 10)

	seen := make(map[string]bool)
	for _, img := range images {
		assert.True(t, strings.HasPrefix(img.ID, "picsum-"))
		assert.Contains(t, img.URL, "https://picsum.photos/1920/1080?random=")
		assert.Equal(t, "Lorem Picsum", img.PhotographerName)
		assert.False(t, seen[img.ID])
		seen[img.ID] = true
	}
}

func TestNASAProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNASAProvider(10).Search(ctx, "space", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
