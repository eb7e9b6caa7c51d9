package unsplash

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

// UnsplashProvider implements ImageProvider for Unsplash.
type UnsplashProvider struct {
	keys       config.KeySource
	httpClient *http.Client
	perPage    int
	searchURL  string
	photosURL  string
}

func init() {
	wallpaper.RegisterProvider(provider.Unsplash, func(opts wallpaper.ProviderOptions) provider.ImageProvider {
		return NewUnsplashProvider(opts.Keys, opts.Client, opts.PerPage)
	})
}

// NewUnsplashProvider creates a new UnsplashProvider.
func NewUnsplashProvider(keys config.KeySource, client *http.Client, perPage int) *UnsplashProvider {
	return &UnsplashProvider{
		keys:       keys,
		httpClient: client,
		perPage:    perPage,
		searchURL:  UnsplashAPISearchURL,
		photosURL:  UnsplashAPIPhotosURL,
	}
}

func (p *UnsplashProvider) ID() provider.ID {
	return provider.Unsplash
}

func (p *UnsplashProvider) Name() string {
	return "Unsplash"
}

// Search fetches one page of landscape photos.
func (p *UnsplashProvider) Search(ctx context.Context, query string, page int) ([]provider.Image, error) {
	return p.SearchPerPage(ctx, query, page, p.perPage)
}

// SearchPerPage fetches one page of landscape photos with an explicit page size.
// Search results come wrapped in an object while the plain photo feed is a list.
func (p *UnsplashProvider) SearchPerPage(ctx context.Context, query string, page, perPage int) ([]provider.Image, error) {
	accessKey := p.keys.APIKey(config.UnsplashKey)
	if accessKey == "" {
		log.Debugf("Unsplash access key not configured, returning mock images")
		return provider.MockImages(provider.Unsplash, perPage), nil
	}

	phrase := themePhrases.Resolve(query)
	isSearch := phrase != ""
	var u *url.URL
	q := url.Values{}
	if isSearch {
		u, _ = url.Parse(p.searchURL)
		q.Set("query", phrase)
		q.Set("orientation", "landscape")
	} else {
		u, _ = url.Parse(p.photosURL)
	}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	log.Debugf("Fetching Unsplash images from: %s", u.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("Unsplash API Error: %s", string(body))
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var items []UnsplashImage
	if isSearch {
		var searchResp UnsplashSearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}
		items = searchResp.Results
	} else if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	images := make([]provider.Image, 0, len(items))
	for _, item := range items {
		images = append(images, p.mapUnsplashImage(item))
	}

	if len(images) == 0 {
		log.Printf("Unsplash query returned 0 images for %q page %d", phrase, page)
	} else {
		log.Debugf("Found %d images from Unsplash", len(images))
	}
	return images, nil
}

func (p *UnsplashProvider) mapUnsplashImage(ui UnsplashImage) provider.Image {
	var tags []string
	for _, tag := range ui.Tags {
		if tag.Title != "" {
			tags = append(tags, tag.Title)
		}
	}
	if len(tags) == 0 {
		desc := ui.Description
		if desc == "" {
			desc = ui.AltDescription
		}
		tags = provider.TagsFromText(desc, maxTags)
	}

	return provider.Image{
		ID:               "unsplash-" + ui.ID,
		URL:              ui.URLs.Full,
		PhotographerName: ui.User.Name,
		PhotographerURL:  ui.User.Links.HTML + utmParams,
		SourceName:       p.Name(),
		SourceURL:        ui.Links.HTML + utmParams,
		AttributionText:  fmt.Sprintf("Photo by %s on Unsplash", ui.User.Name),
		Tags:             tags,
	}
}

// Unsplash JSON structures

type UnsplashSearchResponse struct {
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Results    []UnsplashImage `json:"results"`
}

type UnsplashImage struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           URLs   `json:"urls"`
	Links          Links  `json:"links"`
	User           User   `json:"user"`
	Tags           []Tag  `json:"tags"`
}

type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
}

type Links struct {
	HTML             string `json:"html"`
	DownloadLocation string `json:"download_location"`
}

type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Links    Links  `json:"links"`
}

type Tag struct {
	Title string `json:"title"`
}
