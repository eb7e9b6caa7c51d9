package music

import (
	"context"
	"errors"
	"strings"

	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/util/log"
)

const maxDisplayTags = 10

// Request is a recognition request.
type Request struct {
	Audio    []byte
	Filename string
	Mode     settings.MappingMode
	Manual   bool
}

// Response is the outcome of a recognition.
type Response struct {
	Detected bool   `json:"detected"`
	Track    *Track `json:"track,omitempty"`
	Result
	Usage Status `json:"usage"`
}

// Service ties recognition, lyrics, tags and mapping together.
type Service struct {
	recognizer Recognizer
	lyrics     LyricsSource
	tags       TagSource
	mapper     *Mapper
	guard      *Guard
}

// NewService creates a new music service. lyrics and tags may be nil.
func NewService(recognizer Recognizer, lyrics LyricsSource, tags TagSource, mapper *Mapper, guard *Guard) *Service {
	return &Service{recognizer: recognizer, lyrics: lyrics, tags: tags, mapper: mapper, guard: guard}
}

// Usage returns the quota state.
func (s *Service) Usage() Status {
	return s.guard.Status()
}

// Recognize identifies the clip and maps it to a wallpaper query. Quota errors
// are returned untouched so callers can match them with errors.Is.
func (s *Service) Recognize(ctx context.Context, req Request) (*Response, error) {
	if err := s.guard.Acquire(req.Manual); err != nil {
		return nil, err
	}

	track, err := s.recognizer.Recognize(ctx, req.Audio, req.Filename)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			s.guard.Refund()
		} else {
			s.guard.Report(false)
		}
		return nil, err
	}
	s.guard.Report(track != nil)
	if track == nil {
		log.Printf("[Recognition] No match")
		return &Response{Detected: false, Usage: s.guard.Status()}, nil
	}
	log.Printf("[Recognition] Detected %q by %q", track.Title, track.Artist)

	if len(track.Lyrics) == 0 && s.lyrics != nil && track.Artist != "Unknown" {
		lines, err := s.lyrics.Lyrics(ctx, track.Artist, track.Title)
		if err != nil {
			log.Printf("[Recognition] Lyrics lookup failed: %v", err)
		} else if len(lines) > 0 {
			log.Debugf("[Recognition] Fetched %d lyric lines from fallback", len(lines))
			track.Lyrics = lines
		}
	}

	var trackTags []Tag
	if s.tags != nil {
		trackTags, err = s.tags.TrackTags(ctx, track.Title, track.Artist)
		if err != nil {
			log.Printf("[Last.fm] Track tags failed: %v", err)
		}
		display := trackTags
		if len(display) == 0 {
			artistTags, err := s.tags.ArtistTags(ctx, track.Artist)
			if err != nil {
				log.Printf("[Last.fm] Artist tags failed: %v", err)
			}
			display = artistTags
		}
		track.Tags = tagNames(display, maxDisplayTags)
	}

	result := s.mapper.Query(*track, trackTags, req.Mode)
	log.Printf("[Jukebox] %q -> %q (%s)", track.Title, result.Query, result.Tier)
	if len(track.Tags) > 0 {
		log.Debugf("[Jukebox] Tags: %s", strings.Join(track.Tags, ", "))
	}

	return &Response{Detected: true, Track: track, Result: result, Usage: s.guard.Status()}, nil
}
