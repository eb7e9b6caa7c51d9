package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func createSession(t *testing.T, srv *httptest.Server, s settings.Settings) wallpaper.Status {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/api/sessions", jsonBody(t, s))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var st wallpaper.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	require.NotEmpty(t, st.ID)
	return st
}

func sessionStatus(t *testing.T, srv *httptest.Server, id string) wallpaper.Status {
	t.Helper()
	resp := do(t, srv, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st wallpaper.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

func TestSessionLifecycle(t *testing.T) {
	s := newSessionServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	st := createSession(t, srv, settings.Settings{Theme: "ocean", RotationInterval: 0})
	assert.Equal(t, "ocean", st.Settings.Theme)

	assert.Eventually(t, func() bool {
		cur := sessionStatus(t, srv, st.ID)
		return cur.Current != nil && cur.Next != nil
	}, 2*time.Second, 10*time.Millisecond)
	before := sessionStatus(t, srv, st.ID)

	resp := do(t, srv, http.MethodPost, "/api/sessions/"+st.ID+"/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next struct {
		Rotated bool             `json:"rotated"`
		Session wallpaper.Status `json:"session"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&next))
	assert.True(t, next.Rotated)
	assert.Equal(t, before.Next.ID, next.Session.Current.ID)

	resp = do(t, srv, http.MethodDelete, "/api/sessions/"+st.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodGet, "/api/sessions/"+st.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, srv, http.MethodDelete, "/api/sessions/"+st.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionUpdates(t *testing.T) {
	s := newSessionServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	base := settings.Settings{Theme: "ocean", Music: settings.Music{Enabled: true, OverrideTheme: true}}
	st := createSession(t, srv, base)

	resp := do(t, srv, http.MethodPut, "/api/sessions/"+st.ID+"/weather", jsonBody(t, weather.Data{Temperature: 80, Condition: weather.Clear}))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/api/sessions/"+st.ID+"/music", jsonBody(t, map[string]string{"query": "jazz night city"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var music struct {
		NewSearch bool `json:"newSearch"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&music))
	assert.True(t, music.NewSearch)
	assert.Eventually(t, func() bool {
		return sessionStatus(t, srv, st.ID).OriginalQuery == "jazz night city"
	}, 2*time.Second, 10*time.Millisecond)

	changed := base
	changed.Theme = "space"
	changed.Music.OverrideTheme = false
	resp = do(t, srv, http.MethodPut, "/api/sessions/"+st.ID+"/settings", jsonBody(t, changed))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var applied struct {
		NewSearch bool             `json:"newSearch"`
		Session   wallpaper.Status `json:"session"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&applied))
	assert.True(t, applied.NewSearch)
	assert.Equal(t, "space", applied.Session.Settings.Theme)

	resp = do(t, srv, http.MethodPut, "/api/sessions/missing/music", jsonBody(t, map[string]string{"query": "x"}))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, srv, http.MethodPut, "/api/sessions/"+st.ID+"/weather", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebSocket_PushesWallpaper(t *testing.T) {
	s := newSessionServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	st := createSession(t, srv, settings.Settings{Theme: "forest"})
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + st.ID
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var ev wallpaper.Event
		require.NoError(t, ws.ReadJSON(&ev))
		if ev.Type == wallpaper.EventSetWallpaper {
			assert.NotEmpty(t, ev.URL)
			require.NotNil(t, ev.Image)
			assert.Equal(t, ev.URL, ev.Image.URL)
			break
		}
	}
	assert.Eventually(t, func() bool { return s.Hub().Count(st.ID) == 1 }, time.Second, 5*time.Millisecond)
}

func TestWebSocket_PingPong(t *testing.T) {
	s := newSessionServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	st := createSession(t, srv, settings.Settings{Theme: "forest"})
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + st.ID
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg map[string]interface{}
		require.NoError(t, ws.ReadJSON(&msg))
		if msg["type"] == "pong" {
			break
		}
	}
}

func TestWebSocket_UnknownSession(t *testing.T) {
	s := newSessionServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=nope"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocket_ClosedWithSession(t *testing.T) {
	s := newSessionServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	st := createSession(t, srv, settings.Settings{Theme: "desert"})
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + st.ID
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()
	assert.Eventually(t, func() bool { return s.Hub().Count(st.ID) == 1 }, time.Second, 5*time.Millisecond)

	resp := do(t, srv, http.MethodDelete, "/api/sessions/"+st.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure) || strings.Contains(err.Error(), "closed"), err.Error())
			break
		}
	}
	assert.Zero(t, s.Hub().Count(st.ID))
}

func TestWebSocket_SessionExpiresAfterLastClientLeaves(t *testing.T) {
	hub := NewHub()
	manager := wallpaper.NewManager(wallpaper.Options{
		Providers:   []provider.ImageProvider{stubProvider{id: provider.Pexels}},
		Preloader:   instantPreloader,
		Events:      hub.Broadcast,
		IdleTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(manager.Shutdown)
	s := NewServer(Config{Sessions: manager, Hub: hub})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	st := createSession(t, srv, settings.Settings{Theme: "ocean"})
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + st.ID
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.Hub().Count(st.ID) == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 1, manager.Len(), "a connected session does not expire")

	require.NoError(t, ws.Close())
	require.Eventually(t, func() bool { return manager.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	resp := do(t, srv, http.MethodGet, "/api/sessions/"+st.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
