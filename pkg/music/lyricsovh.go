package music

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dixieflatline76/jukebox/util/log"
	"golang.org/x/time/rate"
)

// LyricsOVHURL is the lyrics.ovh API root.
const LyricsOVHURL = "https://api.lyrics.ovh/v1/"

const lyricsTimeout = 10 * time.Second

// LyricsSource fetches lyric lines for a track. No lyrics is not an error.
type LyricsSource interface {
	Lyrics(ctx context.Context, artist, title string) ([]string, error)
}

var (
	featuring  = regexp.MustCompile(`(?i),| ft\. | feat\. `)
	parenGroup = regexp.MustCompile(`\s*\(.*?\)`)
)

// LyricsOVH fetches lyrics from lyrics.ovh.
type LyricsOVH struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewLyricsOVH creates a new lyrics.ovh client.
func NewLyricsOVH(client *http.Client) *LyricsOVH {
	return &LyricsOVH{
		httpClient: client,
		baseURL:    LyricsOVHURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Lyrics returns the non-empty lyric lines of the track.
func (c *LyricsOVH) Lyrics(ctx context.Context, artist, title string) ([]string, error) {
	cleanArtist := strings.TrimSpace(featuring.Split(artist, 2)[0])
	cleanTitle := strings.TrimSpace(parenGroup.ReplaceAllString(title, ""))
	if cleanArtist == "" || cleanTitle == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, lyricsTimeout)
	defer cancel()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + url.PathEscape(cleanArtist) + "/" + url.PathEscape(cleanTitle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("[Lyrics.ovh] Fetching lyrics for %q by %q", cleanTitle, cleanArtist)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[Lyrics.ovh] Request timed out")
			return nil, nil
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lyrics API returned status %d", resp.StatusCode)
	}

	var body struct {
		Lyrics string `json:"lyrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode lyrics response: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(body.Lyrics, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines, nil
}
