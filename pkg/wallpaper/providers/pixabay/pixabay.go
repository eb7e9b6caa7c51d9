package pixabay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/util/log"
)

// PixabayProvider implements ImageProvider for Pixabay.
type PixabayProvider struct {
	keys       config.KeySource
	httpClient *http.Client
	perPage    int
	apiURL     string
}

func init() {
	wallpaper.RegisterProvider(provider.Pixabay, func(opts wallpaper.ProviderOptions) provider.ImageProvider {
		return NewPixabayProvider(opts.Keys, opts.Client, opts.PerPage)
	})
}

// NewPixabayProvider creates a new PixabayProvider.
func NewPixabayProvider(keys config.KeySource, client *http.Client, perPage int) *PixabayProvider {
	return &PixabayProvider{
		keys:       keys,
		httpClient: client,
		perPage:    perPage,
		apiURL:     PixabayAPIURL,
	}
}

func (p *PixabayProvider) ID() provider.ID {
	return provider.Pixabay
}

func (p *PixabayProvider) Name() string {
	return "Pixabay"
}

// Search fetches one page of horizontal photos.
func (p *PixabayProvider) Search(ctx context.Context, query string, page int) ([]provider.Image, error) {
	return p.SearchPerPage(ctx, query, page, p.perPage)
}

// SearchPerPage fetches one page of horizontal photos with an explicit page size.
// Pixabay rejects per_page below 3.
func (p *PixabayProvider) SearchPerPage(ctx context.Context, query string, page, perPage int) ([]provider.Image, error) {
	apiKey := p.keys.APIKey(config.PixabayKey)
	if apiKey == "" {
		log.Debugf("Pixabay API key not configured, returning mock images")
		return provider.MockImages(provider.Pixabay, perPage), nil
	}
	if perPage < 3 {
		perPage = 3
	}

	u, err := url.Parse(p.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("q", themePhrases.Resolve(query))
	q.Set("image_type", "photo")
	q.Set("orientation", "horizontal")
	q.Set("safesearch", "true")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("Pixabay API Error: %s", string(body))
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var searchResp PixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	images := make([]provider.Image, 0, len(searchResp.Hits))
	for _, hit := range searchResp.Hits {
		images = append(images, p.mapPixabayImage(hit))
	}
	log.Debugf("Found %d images from Pixabay", len(images))
	return images, nil
}

func (p *PixabayProvider) mapPixabayImage(hit PixabayHit) provider.Image {
	imageURL := hit.LargeImageURL
	if imageURL == "" {
		imageURL = hit.WebformatURL
	}

	var tags []string
	for _, tag := range strings.Split(hit.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return provider.Image{
		ID:               "pixabay-" + strconv.Itoa(hit.ID),
		URL:              imageURL,
		PhotographerName: hit.User,
		PhotographerURL:  fmt.Sprintf("https://pixabay.com/users/%s-%d/", hit.User, hit.UserID),
		SourceName:       p.Name(),
		SourceURL:        hit.PageURL,
		AttributionText:  fmt.Sprintf("Image by %s from Pixabay", hit.User),
		Tags:             tags,
	}
}

// Pixabay JSON structures

type PixabayResponse struct {
	Total     int          `json:"total"`
	TotalHits int          `json:"totalHits"`
	Hits      []PixabayHit `json:"hits"`
}

type PixabayHit struct {
	ID            int    `json:"id"`
	PageURL       string `json:"pageURL"`
	Tags          string `json:"tags"`
	WebformatURL  string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	UserID        int    `json:"user_id"`
	User          string `json:"user"`
}
