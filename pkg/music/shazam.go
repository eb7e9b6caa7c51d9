package music

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/util/log"
)

// Recognition endpoint on RapidAPI.
const (
	ShazamHost = "shazam-api25.p.rapidapi.com"
	ShazamURL  = "https://" + ShazamHost + "/tracks/recognize"
)

// Recognition errors.
var (
	ErrNotConfigured = errors.New("music recognition API key not configured")
	ErrInvalidAPIKey = errors.New("invalid music recognition API key")
	ErrRateLimited   = errors.New("music recognition rate limit exceeded")
)

// Recognizer identifies a track from an audio clip. A nil track with a nil
// error means nothing was detected.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, filename string) (*Track, error)
}

// Shazam is a Recognizer backed by a Shazam compatible RapidAPI endpoint.
type Shazam struct {
	keys       config.KeySource
	httpClient *http.Client
	url        string
	host       string
}

// NewShazam creates a new recognition client.
func NewShazam(keys config.KeySource, client *http.Client) *Shazam {
	return &Shazam{keys: keys, httpClient: client, url: ShazamURL, host: ShazamHost}
}

type shazamSection struct {
	Type string          `json:"type"`
	Text json.RawMessage `json:"text"`
}

type shazamTrack struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Genres   struct {
		Primary string `json:"primary"`
	} `json:"genres"`
	Images struct {
		Coverart string `json:"coverart"`
	} `json:"images"`
	Sections []shazamSection `json:"sections"`
}

type shazamAttributes struct {
	Title         string `json:"title"`
	Name          string `json:"name"`
	Artist        string `json:"artist"`
	PrimaryArtist string `json:"primaryArtist"`
	Genres        struct {
		Primary string `json:"primary"`
	} `json:"genres"`
	Artwork struct {
		URL string `json:"url"`
	} `json:"artwork"`
	Images struct {
		CoverArtHq string `json:"coverArtHq"`
		CoverArt   string `json:"coverArt"`
		Coverart   string `json:"coverart"`
	} `json:"images"`
	Sections []shazamSection `json:"sections"`
	Released string          `json:"released"`
}

func (a shazamAttributes) title() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Name
}

func (a shazamAttributes) artist() string {
	if a.Artist != "" {
		return a.Artist
	}
	return a.PrimaryArtist
}

type shazamResource struct {
	ID         string           `json:"id"`
	Attributes shazamAttributes `json:"attributes"`
}

type shazamResponse struct {
	Track     *shazamTrack `json:"track"`
	TrackInfo *shazamTrack `json:"track_info"`
	Results   struct {
		Track   *shazamTrack `json:"track"`
		Matches []struct {
			ID string `json:"id"`
		} `json:"matches"`
	} `json:"results"`
	Resources map[string]json.RawMessage `json:"resources"`
}

// Recognize uploads the clip and extracts track metadata from the response.
func (s *Shazam) Recognize(ctx context.Context, audio []byte, filename string) (*Track, error) {
	apiKey := s.keys.APIKey(config.RapidAPIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	body, contentType, err := multipartAudio(audio, filename)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-rapidapi-key", apiKey)
	req.Header.Set("x-rapidapi-host", s.host)

	log.Debugf("[Recognition] Uploading %d bytes (%s)", len(audio), filename)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrInvalidAPIKey
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("recognition API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var data shazamResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode recognition response: %w", err)
	}
	return parseRecognition(&data), nil
}

// parseRecognition handles the classic track shape as well as the
// matches/resources shape.
func parseRecognition(data *shazamResponse) *Track {
	track := data.Track
	if track == nil {
		track = data.Results.Track
	}
	if track == nil {
		track = data.TrackInfo
	}

	var out Track
	if track != nil {
		out.Lyrics, out.Metadata = extractSections(track.Sections, "")
	}

	if len(data.Results.Matches) > 0 && data.Resources != nil {
		id := data.Results.Matches[0].ID

		if song, ok := lookupResource(data.Resources, "shazam-songs", id); ok {
			attrs := song.Attributes
			out.Title = attrs.title()
			out.Artist = attrs.artist()
			out.Genre = attrs.Genres.Primary
			out.AlbumArt = firstNonEmpty(attrs.Images.CoverArtHq, attrs.Images.CoverArt,
				strings.ReplaceAll(strings.ReplaceAll(attrs.Artwork.URL, "{w}", "400"), "{h}", "400"))
			if lyrics, meta := extractSections(attrs.Sections, attrs.Released); len(lyrics) > 0 || len(meta) > 0 {
				if len(lyrics) > 0 {
					out.Lyrics = lyrics
				}
				if len(meta) > 0 {
					out.Metadata = meta
				}
			}
		}

		if out.Title == "" {
			if song, ok := lookupResource(data.Resources, "songs", id); ok {
				attrs := song.Attributes
				out.Title = attrs.title()
				out.Artist = attrs.artist()
				out.Genre = attrs.Genres.Primary
				out.AlbumArt = firstNonEmpty(attrs.Artwork.URL, attrs.Images.Coverart)
			}
		}

		if out.Title == "" {
			for kind := range data.Resources {
				res, ok := lookupResource(data.Resources, kind, id)
				if !ok || res.Attributes.title() == "" {
					continue
				}
				out.Title = res.Attributes.title()
				out.Artist = res.Attributes.artist()
				break
			}
		}
	}

	if track != nil {
		out.Title = firstNonEmpty(out.Title, track.Title)
		out.Artist = firstNonEmpty(out.Artist, track.Subtitle)
		out.Genre = firstNonEmpty(out.Genre, track.Genres.Primary)
		out.AlbumArt = firstNonEmpty(out.AlbumArt, track.Images.Coverart)
	}

	if out.Title == "" {
		return nil
	}
	out.Title = firstNonEmpty(out.Title, "Unknown")
	out.Artist = firstNonEmpty(out.Artist, "Unknown")
	out.Genre = firstNonEmpty(out.Genre, "unknown")
	return &out
}

func lookupResource(resources map[string]json.RawMessage, kind, id string) (shazamResource, bool) {
	raw, ok := resources[kind]
	if !ok {
		return shazamResource{}, false
	}
	var byID map[string]shazamResource
	if err := json.Unmarshal(raw, &byID); err != nil {
		return shazamResource{}, false
	}
	res, ok := byID[id]
	return res, ok
}

// extractSections splits lyric lines from other textual metadata.
func extractSections(sections []shazamSection, released string) (lyrics, metadata []string) {
	for _, sec := range sections {
		lines := sectionText(sec.Text)
		switch sec.Type {
		case "LYRICS":
			lyrics = append(lyrics, lines...)
		case "TEXT":
			metadata = append(metadata, lines...)
		}
	}
	if released != "" {
		metadata = append(metadata, "Released: "+released)
	}
	return lyrics, metadata
}

func sectionText(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil && text != "" {
		return []string{text}
	}
	return nil
}

func multipartAudio(audio []byte, filename string) (*bytes.Buffer, string, error) {
	if filename == "" {
		filename = "recording.webm"
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(filename)))
	h.Set("Content-Type", audioContentType(filename))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func audioContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/webm"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
