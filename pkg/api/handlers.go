package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dixieflatline76/jukebox/config"
	"github.com/dixieflatline76/jukebox/pkg/music"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/dixieflatline76/jukebox/util/log"
	"github.com/gorilla/mux"
)

const maxAudioBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImages proxies a single provider search so the browser never sees the
// API keys.
func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	id := provider.ID(strings.ToLower(mux.Vars(r)["provider"]))
	p, ok := s.providers[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown image provider %q", id))
		return
	}

	q := r.URL.Query()
	query := q.Get("query")
	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage <= 0 {
		perPage = config.DefaultPerPage
	}
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	var images []provider.Image
	if pp, ok := p.(provider.PerPageSearcher); ok {
		images, err = pp.SearchPerPage(r.Context(), query, page, perPage)
	} else {
		images, err = p.Search(r.Context(), query, page)
	}
	if err != nil {
		log.Printf("[API] %s search for %q failed: %v", p.Name(), query, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch images from "+p.Name())
		return
	}
	if images == nil {
		images = []provider.Image{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

func parseUnit(r *http.Request) settings.TemperatureUnit {
	if strings.EqualFold(r.URL.Query().Get("unit"), string(settings.Celsius)) {
		return settings.Celsius
	}
	return settings.Fahrenheit
}

func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Weather == nil {
		writeError(w, http.StatusServiceUnavailable, "Weather is not available")
		return
	}
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	data, err := s.cfg.Weather.Current(r.Context(), lat, lon, parseUnit(r))
	if err != nil {
		if errors.Is(err, weather.ErrInvalidCoordinates) {
			writeError(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
		log.Printf("[API] Weather fetch error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleWeatherLocation(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Weather == nil {
		writeError(w, http.StatusServiceUnavailable, "Weather is not available")
		return
	}
	writeJSON(w, http.StatusOK, s.cfg.Weather.Locate(r.Context()))
}

func (s *Server) handleWeatherAuto(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Weather == nil {
		writeError(w, http.StatusServiceUnavailable, "Weather is not available")
		return
	}
	data, loc, err := s.cfg.Weather.Auto(r.Context(), parseUnit(r))
	if err != nil {
		log.Printf("[API] Auto weather fetch error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}
	loc.IsApproximate = true
	writeJSON(w, http.StatusOK, map[string]interface{}{"weather": data, "location": loc})
}

func (s *Server) handleMusicUsage(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Music == nil {
		writeError(w, http.StatusServiceUnavailable, "Music recognition is not available")
		return
	}
	writeJSON(w, http.StatusOK, s.cfg.Music.Usage())
}

func (s *Server) handleMusicRecognize(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Music == nil {
		writeError(w, http.StatusServiceUnavailable, "Music recognition is not available")
		return
	}
	if ok, resetAt := s.limiter.Allow(clientIP(r)); !ok {
		writeError(w, http.StatusTooManyRequests, fmt.Sprintf(
			"Daily music recognition limit reached (%d/day). Limit resets at %s.",
			s.cfg.RecognitionLimit, resetAt.Local().Format("3:04:05 PM")))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes+1<<20)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "audio/") {
		writeError(w, http.StatusBadRequest, "Only audio files are allowed")
		return
	}
	if header.Size > maxAudioBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Audio file exceeds 10MB")
		return
	}
	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read audio file")
		return
	}

	manual, _ := strconv.ParseBool(r.FormValue("manual"))
	req := music.Request{
		Audio:    audio,
		Filename: header.Filename,
		Mode:     settings.ParseMappingMode(r.FormValue("mappingMode")),
		Manual:   manual,
	}
	log.Printf("[API] Recognizing %s (%d bytes, %s mode)", header.Filename, len(audio), req.Mode)

	resp, err := s.cfg.Music.Recognize(r.Context(), req)
	if err != nil {
		usage := s.cfg.Music.Usage()
		status, msg := recognitionError(err, usage)
		if status == http.StatusInternalServerError {
			log.Printf("[API] Music recognition error: %v", err)
		}
		writeJSON(w, status, map[string]interface{}{"error": msg, "usage": usage})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// recognitionError maps a music service error to a status and client message.
func recognitionError(err error, usage music.Status) (int, string) {
	switch {
	case errors.Is(err, music.ErrQuotaExceeded):
		return http.StatusTooManyRequests, fmt.Sprintf("Monthly API limit reached (%d/%d). Resets next month.", usage.Used, usage.Limit)
	case errors.Is(err, music.ErrCooldown):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, music.ErrPaused):
		return http.StatusConflict, err.Error()
	case errors.Is(err, music.ErrRateLimited):
		return http.StatusTooManyRequests, "API rate limit exceeded. Try again later."
	case errors.Is(err, music.ErrInvalidAPIKey), errors.Is(err, music.ErrNotConfigured):
		return http.StatusInternalServerError, "API configuration error"
	}
	return http.StatusInternalServerError, "Failed to recognize music: " + err.Error()
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Settings.Load())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var next settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	next = next.Normalize()
	if err := s.cfg.Settings.Save(next); err != nil {
		log.Printf("[API] Failed to save settings: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, next)
}
