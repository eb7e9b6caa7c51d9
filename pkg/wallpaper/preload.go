package wallpaper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/util/log"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Preloader makes sure an image is loadable before it is shown.
type Preloader interface {
	Preload(ctx context.Context, img provider.Image) error
}

// PreloaderFunc adapts a function to Preloader.
type PreloaderFunc func(ctx context.Context, img provider.Image) error

// Preload calls f.
func (f PreloaderFunc) Preload(ctx context.Context, img provider.Image) error {
	return f(ctx, img)
}

// HTTPPreloader downloads and decodes the image, warming upstream caches and
// rejecting broken links before a client is told to display them.
type HTTPPreloader struct {
	client *http.Client
}

// NewHTTPPreloader creates a preloader using client.
func NewHTTPPreloader(client *http.Client) *HTTPPreloader {
	return &HTTPPreloader{client: client}
}

// Preload fetches img.URL and decodes it.
func (p *HTTPPreloader) Preload(ctx context.Context, img provider.Image) error {
	ctx, cancel := context.WithTimeout(ctx, PreloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	decoded, err := imaging.Decode(io.LimitReader(resp.Body, MaxPreloadBytes))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return fmt.Errorf("image %s has no pixels", img.ID)
	}
	log.Debugf("[Wallpaper] Preloaded %s (%dx%d)", img.ID, bounds.Dx(), bounds.Dy())
	return nil
}
