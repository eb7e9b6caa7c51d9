package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/dixieflatline76/jukebox/util/log"
	"github.com/gorilla/mux"
)

// session resolves the {id} path variable or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*wallpaper.Session, bool) {
	if s.cfg.Sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "Sessions are not available")
		return nil, false
	}
	sess, ok := s.cfg.Sessions.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

// handleCreateSession starts a session. An empty body uses the saved settings.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "Sessions are not available")
		return
	}
	initial := s.cfg.Settings.Load()
	if err := json.NewDecoder(r.Body).Decode(&initial); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Sessions outlive the request that created them.
	sess := s.cfg.Sessions.Create(context.Background(), initial)
	writeJSON(w, http.StatusCreated, sess.Status())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Status())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if s.cfg.Sessions == nil || !s.cfg.Sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	s.hub.CloseSession(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var next settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	newSearch := sess.ApplySettings(next)
	writeJSON(w, http.StatusOK, map[string]interface{}{"newSearch": newSearch, "session": sess.Status()})
}

func (s *Server) handleSessionWeather(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var data weather.Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess.SetWeather(&data)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionMusic(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	newSearch := sess.SetMusicQuery(body.Query)
	writeJSON(w, http.StatusOK, map[string]bool{"newSearch": newSearch})
}

func (s *Server) handleSessionNext(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	rotated := sess.RotateNow()
	writeJSON(w, http.StatusOK, map[string]interface{}{"rotated": rotated, "session": sess.Status()})
}

// handleWebSocket attaches a browser to a session. The current wallpaper is
// sent right away so a reconnecting client does not wait for the next
// rotation.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "Sessions are not available")
		return
	}
	id := r.URL.Query().Get("session")
	sess, ok := s.cfg.Sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if !s.cfg.Sessions.Attach(id) {
		return
	}
	defer s.cfg.Sessions.Detach(id)

	c := &client{conn: conn}
	s.hub.add(id, c)
	defer s.hub.remove(id, c)

	if cur := sess.Status().Current; cur != nil {
		if err := c.send(wallpaper.Event{Type: wallpaper.EventSetWallpaper, URL: cur.URL, Image: cur}); err != nil {
			return
		}
	}

	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "ping":
			if err := c.send(map[string]string{"type": "pong"}); err != nil {
				return
			}
		case "next":
			sess.RotateNow()
		}
	}
}
