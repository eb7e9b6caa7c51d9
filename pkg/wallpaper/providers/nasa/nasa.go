// Package nasa provides the space imagery source. Until a NASA image library
// client lands it serves Lorem Picsum placeholders so the rotation always has a
// fourth provider.
package nasa

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
)

const picsumPool = 1000

// NASAProvider implements ImageProvider with placeholder imagery.
type NASAProvider struct {
	perPage int

	mu  sync.Mutex
	rnd *rand.Rand
}

func init() {
	wallpaper.RegisterProvider(provider.NASA, func(opts wallpaper.ProviderOptions) provider.ImageProvider {
		return NewNASAProvider(opts.PerPage)
	})
}

// NewNASAProvider creates a new NASAProvider.
func NewNASAProvider(perPage int) *NASAProvider {
	return &NASAProvider{
		perPage: perPage,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *NASAProvider) ID() provider.ID {
	return provider.NASA
}

func (p *NASAProvider) Name() string {
	return "NASA"
}

// Search returns random placeholder images. Query and page are ignored.
func (p *NASAProvider) Search(ctx context.Context, query string, page int) ([]provider.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	picks := p.rnd.Perm(picsumPool)[:min(p.perPage, picsumPool)]
	p.mu.Unlock()

	images := make([]provider.Image, 0, len(picks))
	for _, n := range picks {
		images = append(images, provider.Image{
			ID:               fmt.Sprintf("picsum-%d", n),
			URL:              fmt.Sprintf("https://picsum.photos/1920/1080?random=%d", n),
			PhotographerName: "Lorem Picsum",
			PhotographerURL:  "https://picsum.photos",
			SourceName:       "Lorem Picsum",
			SourceURL:        "https://picsum.photos",
			AttributionText:  "Photo from Lorem Picsum",
		})
	}
	return images, nil
}
