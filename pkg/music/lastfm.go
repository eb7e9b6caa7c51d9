package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/util/log"
	"golang.org/x/time/rate"
)

// LastFMURL is the Last.fm API root.
const LastFMURL = "https://ws.audioscrobbler.com/2.0/"

// TagSource provides crowd sourced tags. Missing tags are not an error.
type TagSource interface {
	TrackTags(ctx context.Context, title, artist string) ([]Tag, error)
	ArtistTags(ctx context.Context, artist string) ([]Tag, error)
}

// LastFM fetches top tags from Last.fm.
type LastFM struct {
	keys       config.KeySource
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewLastFM creates a new Last.fm client limited to a few requests per second.
func NewLastFM(keys config.KeySource, client *http.Client) *LastFM {
	return &LastFM{
		keys:       keys,
		httpClient: client,
		baseURL:    LastFMURL,
		limiter:    rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
	}
}

// flexInt accepts both numbers and numeric strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		n = json.Number(s)
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(v)
	return nil
}

type lastFMTag struct {
	Name  string  `json:"name"`
	Count flexInt `json:"count"`
	URL   string  `json:"url"`
}

type lastFMResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
	TopTags struct {
		Tag json.RawMessage `json:"tag"`
	} `json:"toptags"`
}

// TrackTags returns the top tags of a track. The track name is cleaned of
// remaster and live decorations first.
func (c *LastFM) TrackTags(ctx context.Context, title, artist string) ([]Tag, error) {
	cleaned := CleanTrackName(title)
	if cleaned != title {
		log.Debugf("[Last.fm] Cleaned track name %q to %q", title, cleaned)
	}
	return c.topTags(ctx, url.Values{
		"method": {"track.getTopTags"},
		"artist": {artist},
		"track":  {cleaned},
	})
}

// ArtistTags returns the top tags of an artist.
func (c *LastFM) ArtistTags(ctx context.Context, artist string) ([]Tag, error) {
	return c.topTags(ctx, url.Values{
		"method": {"artist.getTopTags"},
		"artist": {artist},
	})
}

func (c *LastFM) topTags(ctx context.Context, q url.Values) ([]Tag, error) {
	apiKey := c.keys.APIKey(config.LastFMKey)
	if apiKey == "" {
		log.Debugf("[Last.fm] API key not configured, skipping tag lookup")
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q.Set("api_key", apiKey)
	q.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Last.fm API returned status %d", resp.StatusCode)
	}

	var body lastFMResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode Last.fm response: %w", err)
	}
	if body.Error != 0 {
		log.Debugf("[Last.fm] %s: %s", q.Get("method"), body.Message)
		return nil, nil
	}

	raw, err := decodeTagList(body.TopTags.Tag)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	tags := make([]Tag, 0, len(raw))
	for _, t := range raw {
		tags = append(tags, Tag{Name: t.Name, Count: int(t.Count), URL: t.URL})
	}
	log.Debugf("[Last.fm] Found %d tags via %s", len(tags), q.Get("method"))
	return tags, nil
}

// decodeTagList handles Last.fm returning a lone tag as an object instead of a list.
func decodeTagList(raw json.RawMessage) ([]lastFMTag, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []lastFMTag
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single lastFMTag
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []lastFMTag{single}, nil
}
