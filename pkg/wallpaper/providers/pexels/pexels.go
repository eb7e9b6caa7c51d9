package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/util/log"
)

// PexelsProvider implements ImageProvider for Pexels.
type PexelsProvider struct {
	keys       config.KeySource
	httpClient *http.Client
	perPage    int
}

func init() {
	wallpaper.RegisterProvider(provider.Pexels, func(opts wallpaper.ProviderOptions) provider.ImageProvider {
		return NewPexelsProvider(opts.Keys, opts.Client, opts.PerPage)
	})
}

// NewPexelsProvider creates a new PexelsProvider.
func NewPexelsProvider(keys config.KeySource, client *http.Client, perPage int) *PexelsProvider {
	return &PexelsProvider{
		keys:       keys,
		httpClient: client,
		perPage:    perPage,
	}
}

func (p *PexelsProvider) ID() provider.ID {
	return provider.Pexels
}

func (p *PexelsProvider) Name() string {
	return "Pexels"
}

// Search fetches one page of landscape photos.
func (p *PexelsProvider) Search(ctx context.Context, query string, page int) ([]provider.Image, error) {
	return p.SearchPerPage(ctx, query, page, p.perPage)
}

// SearchPerPage fetches one page of landscape photos with an explicit page size.
func (p *PexelsProvider) SearchPerPage(ctx context.Context, query string, page, perPage int) ([]provider.Image, error) {
	apiKey := p.keys.APIKey(config.PexelsKey)
	if apiKey == "" {
		log.Debugf("Pexels API key not configured, returning mock images")
		return provider.MockImages(provider.Pexels, perPage), nil
	}

	phrase := themePhrases.Resolve(query)
	var u *url.URL
	q := url.Values{}
	if phrase == "" {
		u, _ = url.Parse(PexelsAPICuratedURL)
	} else {
		u, _ = url.Parse(PexelsAPISearchURL)
		q.Set("query", phrase)
		q.Set("orientation", "landscape")
	}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", apiKey)

	log.Debugf("Fetching Pexels images from: %s", u.String())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("Pexels API Error: %s", string(body))
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var searchResp PexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	images := make([]provider.Image, 0, len(searchResp.Photos))
	for _, photo := range searchResp.Photos {
		images = append(images, p.mapPexelsImage(photo))
	}

	if len(images) == 0 {
		log.Printf("Pexels query returned 0 images for %q page %d", phrase, page)
	} else {
		log.Debugf("Found %d images from Pexels", len(images))
	}
	return images, nil
}

func (p *PexelsProvider) mapPexelsImage(photo PexelsPhoto) provider.Image {
	imagePath := photo.Src.Large2x
	if imagePath == "" {
		imagePath = photo.Src.Large
	}

	return provider.Image{
		ID:               "pexels-" + strconv.Itoa(photo.ID),
		URL:              imagePath,
		PhotographerName: photo.Photographer,
		PhotographerURL:  photo.PhotographerURL,
		SourceName:       p.Name(),
		SourceURL:        photo.URL,
		AttributionText:  fmt.Sprintf("Photo by %s on Pexels", photo.Photographer),
		Tags:             provider.TagsFromText(photo.Alt, maxTags),
	}
}

// Pexels JSON Structures

type PexelsSearchResponse struct {
	TotalResults int           `json:"total_results"`
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Photos       []PexelsPhoto `json:"photos"`
	NextPage     string        `json:"next_page"`
}

type PexelsPhoto struct {
	ID              int       `json:"id"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	URL             string    `json:"url"`
	Photographer    string    `json:"photographer"`
	PhotographerURL string    `json:"photographer_url"`
	Alt             string    `json:"alt"`
	Src             PexelsSrc `json:"src"`
}

type PexelsSrc struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Landscape string `json:"landscape"`
}
